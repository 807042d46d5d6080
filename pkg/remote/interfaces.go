// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"context"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/streamspike/pkg/resource"
	"gitlab.com/tozd/go/errors"
)

// Provider opens remote text resources for one or more URL schemes
type Provider interface {
	// Name returns the name of the provider (e.g. "http")
	Name() string
	// Open returns the body of the resource; the caller closes it
	Open(ctx context.Context, u *url.URL) (io.ReadCloser, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Provider{}
)

// RegisterProvider binds a provider to a URL scheme, replacing any previous binding
func RegisterProvider(scheme string, provider Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(scheme)] = provider
}

// GetProviderForURL returns the provider registered for the URL's scheme
func GetProviderForURL(u *url.URL) (Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	provider, ok := registry[strings.ToLower(u.Scheme)]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("no provider for scheme %q, options: %s", u.Scheme, strings.Join(options, ", "))
	}
	return provider, nil
}

func init() {
	web := NewHTTPProvider(nil)
	RegisterProvider("http", web)
	RegisterProvider("https", web)
}

// 🌐 Fetch reads a remote resource in full and decodes it as UTF-8
func Fetch(ctx context.Context, rawURL string) (string, error) {
	logger := zerolog.Ctx(ctx)

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Errorf("parsing url %q: %w", rawURL, err)
	}

	provider, err := GetProviderForURL(u)
	if err != nil {
		return "", err
	}

	logger.Debug().Str("url", rawURL).Str("provider", provider.Name()).Msg("fetching remote resource")

	body, err := provider.Open(ctx, u)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", resource.NewError("fetch", rawURL, resource.ErrNetwork, err)
	}

	logger.Debug().Str("url", rawURL).Int("bytes", len(data)).Msg("fetched remote resource")

	return resource.Decode(rawURL, data)
}

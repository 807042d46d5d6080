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
	"net/http"
	"net/url"

	"github.com/walteh/streamspike/pkg/resource"
	"gitlab.com/tozd/go/errors"
)

// 🌐 HTTPProvider issues a plain GET, no custom headers, no retries
type HTTPProvider struct {
	client *http.Client
}

// 🏭 NewHTTPProvider creates a provider; a nil client means http.DefaultClient
func NewHTTPProvider(client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{client: client}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

// Open returns the response body of a successful GET
func (p *HTTPProvider) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, resource.NewError("fetch", u.String(), resource.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, errors.Errorf("fetching %s: %w", u.String(), &resource.StatusError{URL: u.String(), StatusCode: resp.StatusCode})
	}

	return resp.Body, nil
}

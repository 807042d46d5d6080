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

package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/streamspike/pkg/remote"
	"github.com/walteh/streamspike/pkg/resource"
	"gitlab.com/tozd/go/errors"
)

// Scheme is the URL scheme served by this provider: github://owner/repo/path?ref=main
const Scheme = "github"

// ContentsClient defines the GitHub API operations we need
type ContentsClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🎯 Provider fetches single files from GitHub repositories
type Provider struct {
	client ContentsClient
}

func init() {
	remote.RegisterProvider(Scheme, NewProvider())
}

// 🏭 NewProvider creates a provider, authenticated when GITHUB_TOKEN is set
func NewProvider() *Provider {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return NewProviderWithClient(client.Repositories)
}

// NewProviderWithClient creates a provider around an existing contents client
func NewProviderWithClient(client ContentsClient) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return Scheme
}

// 📍 Location is a parsed github:// URL
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // empty means the default branch
}

// ParseLocation splits github://owner/repo/path/to/file?ref=main
func ParseLocation(u *url.URL) (Location, error) {
	if u.Scheme != Scheme {
		return Location{}, errors.Errorf("unexpected scheme %q", u.Scheme)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if u.Host == "" || len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, errors.Errorf("invalid GitHub file URL %q, want github://owner/repo/path", u.String())
	}

	return Location{
		Owner: u.Host,
		Repo:  parts[0],
		Path:  parts[1],
		Ref:   u.Query().Get("ref"),
	}, nil
}

// 📄 Open fetches the file content
func (p *Provider) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	loc, err := ParseLocation(u)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("owner", loc.Owner).
		Str("repo", loc.Repo).
		Str("path", loc.Path).
		Str("ref", loc.Ref).
		Msg("getting file contents")

	var opts *github.RepositoryContentGetOptions
	if loc.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: loc.Ref}
	}

	file, dir, _, err := p.client.GetContents(ctx, loc.Owner, loc.Repo, loc.Path, opts)
	if err != nil {
		if code, ok := responseStatus(err); ok {
			return nil, errors.Errorf("fetching %s: %w", u.String(), &resource.StatusError{URL: u.String(), StatusCode: code})
		}
		return nil, resource.NewError("fetch", u.String(), resource.ErrNetwork, err)
	}

	if file == nil {
		return nil, errors.Errorf("%s is a directory with %d entries, not a file", u.String(), len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, resource.NewError("decode", u.String(), resource.ErrDecode, err)
	}

	return io.NopCloser(strings.NewReader(content)), nil
}

// responseStatus reports the HTTP status carried by a GitHub API error, rate limits included
func responseStatus(err error) (int, bool) {
	var resp *http.Response

	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		resp = rateErr.Response
	case errors.As(err, &abuseErr):
		resp = abuseErr.Response
	case errors.As(err, &errResp):
		resp = errResp.Response
	}

	if resp == nil {
		return 0, false
	}
	return resp.StatusCode, true
}

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
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/streamspike/pkg/remote"
	"github.com/walteh/streamspike/pkg/resource"
	"gitlab.com/tozd/go/errors"
)

type mockContentsClient struct {
	mock.Mock
}

func (m *mockContentsClient) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	file, _ := args.Get(0).(*github.RepositoryContent)
	dir, _ := args.Get(1).([]*github.RepositoryContent)
	resp, _ := args.Get(2).(*github.Response)
	return file, dir, resp, args.Error(3)
}

func mustParse(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        Location
		errContains string
	}{
		{
			name: "file_with_ref",
			raw:  "github://walteh/streamspike/docs/README.md?ref=v1.0.0",
			want: Location{Owner: "walteh", Repo: "streamspike", Path: "docs/README.md", Ref: "v1.0.0"},
		},
		{
			name: "default_branch",
			raw:  "github://walteh/streamspike/go.mod",
			want: Location{Owner: "walteh", Repo: "streamspike", Path: "go.mod"},
		},
		{
			name:        "missing_path",
			raw:         "github://walteh/streamspike",
			errContains: "invalid GitHub file URL",
		},
		{
			name:        "wrong_scheme",
			raw:         "https://github.com/walteh/streamspike",
			errContains: "unexpected scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(mustParse(t, tt.raw))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("file_content", func(t *testing.T) {
		client := &mockContentsClient{}
		client.On("GetContents", mock.Anything, "walteh", "streamspike", "README.md", &github.RepositoryContentGetOptions{Ref: "main"}).
			Return(&github.RepositoryContent{
				Type:     github.String("file"),
				Encoding: github.String("base64"),
				Content:  github.String("aGVsbG8gd29ybGQ="),
			}, nil, &github.Response{}, nil)

		p := NewProviderWithClient(client)
		body, err := p.Open(ctx, mustParse(t, "github://walteh/streamspike/README.md?ref=main"))
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
		client.AssertExpectations(t)
	})

	t.Run("not_found_is_status_error", func(t *testing.T) {
		client := &mockContentsClient{}
		client.On("GetContents", mock.Anything, "walteh", "streamspike", "nope.md", (*github.RepositoryContentGetOptions)(nil)).
			Return(nil, nil, nil, &github.ErrorResponse{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Message:  "Not Found",
			})

		p := NewProviderWithClient(client)
		_, err := p.Open(ctx, mustParse(t, "github://walteh/streamspike/nope.md"))
		require.Error(t, err)
		assert.ErrorIs(t, err, resource.ErrHTTPStatus)

		var statusErr *resource.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("rate_limits_are_status_errors", func(t *testing.T) {
		tests := []struct {
			name     string
			apiErr   error
			wantCode int
		}{
			{
				name: "primary",
				apiErr: &github.RateLimitError{
					Response: &http.Response{StatusCode: http.StatusForbidden},
					Message:  "API rate limit exceeded",
				},
				wantCode: http.StatusForbidden,
			},
			{
				name: "secondary",
				apiErr: &github.AbuseRateLimitError{
					Response: &http.Response{StatusCode: http.StatusTooManyRequests},
					Message:  "You have exceeded a secondary rate limit",
				},
				wantCode: http.StatusTooManyRequests,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := &mockContentsClient{}
				client.On("GetContents", mock.Anything, "walteh", "streamspike", "README.md", (*github.RepositoryContentGetOptions)(nil)).
					Return(nil, nil, nil, tt.apiErr)

				p := NewProviderWithClient(client)
				_, err := p.Open(ctx, mustParse(t, "github://walteh/streamspike/README.md"))
				require.Error(t, err)
				assert.ErrorIs(t, err, resource.ErrHTTPStatus)
				assert.NotErrorIs(t, err, resource.ErrNetwork)

				var statusErr *resource.StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.wantCode, statusErr.StatusCode)
			})
		}
	})

	t.Run("transport_error_is_network_error", func(t *testing.T) {
		client := &mockContentsClient{}
		client.On("GetContents", mock.Anything, "walteh", "streamspike", "README.md", (*github.RepositoryContentGetOptions)(nil)).
			Return(nil, nil, nil, errors.New("dial tcp: connection refused"))

		p := NewProviderWithClient(client)
		_, err := p.Open(ctx, mustParse(t, "github://walteh/streamspike/README.md"))
		require.Error(t, err)
		assert.ErrorIs(t, err, resource.ErrNetwork)
	})

	t.Run("directory_is_rejected", func(t *testing.T) {
		client := &mockContentsClient{}
		client.On("GetContents", mock.Anything, "walteh", "streamspike", "pkg", (*github.RepositoryContentGetOptions)(nil)).
			Return(nil, []*github.RepositoryContent{{}, {}}, &github.Response{}, nil)

		p := NewProviderWithClient(client)
		_, err := p.Open(ctx, mustParse(t, "github://walteh/streamspike/pkg"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory with 2 entries")
	})
}

func TestFetchThroughRegistry(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/walteh/streamspike/contents/README.md", r.URL.Path)
		assert.Equal(t, "v2", r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"type":"file","name":"README.md","path":"README.md","encoding":"base64","content":"aGVsbG8gZnJvbSBnaXRodWI="}`)
	}))
	defer srv.Close()

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	remote.RegisterProvider(Scheme, NewProviderWithClient(client.Repositories))
	t.Cleanup(func() { remote.RegisterProvider(Scheme, NewProvider()) })

	got, err := remote.Fetch(ctx, "github://walteh/streamspike/README.md?ref=v2")
	require.NoError(t, err)
	assert.Equal(t, "hello from github", got)
}

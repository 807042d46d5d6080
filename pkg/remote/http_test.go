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

package remote_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/streamspike/pkg/remote"
	"github.com/walteh/streamspike/pkg/resource"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func newServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusOK, "<html>hello</html>")

	got, err := remote.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", got)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     func(t *testing.T) string
		wantErr error
		wantMsg string
	}{
		{
			name: "not_found",
			url: func(t *testing.T) string {
				return newServer(t, http.StatusNotFound, "missing").URL
			},
			wantErr: resource.ErrHTTPStatus,
			wantMsg: "404 Not Found",
		},
		{
			name: "server_error",
			url: func(t *testing.T) string {
				return newServer(t, http.StatusInternalServerError, "boom").URL
			},
			wantErr: resource.ErrHTTPStatus,
			wantMsg: "500 Internal Server Error",
		},
		{
			name: "invalid_utf8",
			url: func(t *testing.T) string {
				return newServer(t, http.StatusOK, "bad \xff").URL
			},
			wantErr: resource.ErrDecode,
		},
		{
			name: "connection_refused",
			url: func(t *testing.T) string {
				srv := httptest.NewServer(http.NotFoundHandler())
				u := srv.URL
				srv.Close()
				return u
			},
			wantErr: resource.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			_, err := remote.Fetch(ctx, tt.url(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFetchStatusErrorDetails(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusTeapot, "")

	_, err := remote.Fetch(ctx, srv.URL)
	var statusErr *resource.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTeapot, statusErr.StatusCode)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestFetchUnknownScheme(t *testing.T) {
	ctx := testContext(t)
	_, err := remote.Fetch(ctx, "gopher://example.com/file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no provider for scheme "gopher"`)
	assert.Contains(t, err.Error(), "http, https")
}

type stubProvider struct {
	body string
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body + u.Path)), nil
}

func TestRegisterProvider(t *testing.T) {
	ctx := testContext(t)
	remote.RegisterProvider("STUB", stubProvider{body: "stubbed:"})

	got, err := remote.Fetch(ctx, "stub://host/some/path")
	require.NoError(t, err)
	assert.Equal(t, "stubbed:/some/path", got)
}

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

package resource

import (
	"fmt"
	"net/http"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Error kinds. Match them with errors.Is.
var (
	ErrResourceNotFound = errors.Base("resource not found")
	ErrDecode           = errors.Base("invalid utf-8 text")
	ErrNetwork          = errors.Base("network failure")
	ErrHTTPStatus       = errors.Base("unexpected http status")
)

// ❌ Error is a failure on a single text resource
type Error struct {
	Op       string // read, append, fetch, decode
	Resource string // path or url
	Kind     error  // one of the Err* kinds
	Err      error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Resource, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// 🌐 StatusError is a non-success HTTP response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// NewError builds an *Error of the given kind.
func NewError(op, resource string, kind, cause error) error {
	return &Error{Op: op, Resource: resource, Kind: kind, Err: cause}
}

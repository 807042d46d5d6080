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
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"iter"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 📖 ReadText reads a local file in full and decodes it as UTF-8
func ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("reading text resource")

	f, err := openRead(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	return Decode(path, data)
}

// 📜 Lines returns a lazy, single-use sequence over the lines of a local file.
//
// "\n", "\r\n" and a lone "\r" all end a line and are not part of the yielded
// value. A terminator at the very end of the file does not produce an extra
// empty line. The file is closed once iteration ends for any reason. After a
// non-nil error is yielded the sequence stops.
func Lines(ctx context.Context, path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("reading text resource by line")

		f, err := openRead(path)
		if err != nil {
			yield("", err)
			return
		}
		defer f.Close()

		br := bufio.NewReader(f)
		if err := skipBOM(br); err != nil {
			yield("", errors.Errorf("reading %s: %w", path, err))
			return
		}

		for n := 0; ; n++ {
			if err := ctx.Err(); err != nil {
				yield("", errors.Errorf("reading %s: %w", path, err))
				return
			}

			raw, err := readLine(br)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", errors.Errorf("reading %s line %d: %w", path, n+1, err))
				return
			}

			if err := validate(path, raw); err != nil {
				yield("", err)
				return
			}

			if !yield(string(raw), nil) {
				return
			}
		}
	}
}

// ✍️ AppendLine appends text followed by a newline to a local file, creating it if needed
func AppendLine(ctx context.Context, path string, text string) (err error) {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("appending to %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(text)).Msg("appending line")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Errorf("opening %s for append: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := io.WriteString(f, text+"\n"); err != nil {
		return errors.Errorf("appending to %s: %w", path, err)
	}

	return nil
}

// 🔤 Decode validates data as UTF-8 and drops a leading byte order mark
func Decode(resource string, data []byte) (string, error) {
	if err := validate(resource, data); err != nil {
		return "", err
	}

	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", NewError("decode", resource, ErrDecode, err)
	}

	return string(out), nil
}

func validate(resource string, data []byte) error {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return NewError("decode", resource, ErrDecode, err)
	}
	return nil
}

func openRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewError("read", path, ErrResourceNotFound, err)
		}
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// skipBOM drops a leading byte order mark so a BOM-only file has no lines.
func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		_, err = br.Discard(len(utf8BOM))
		return err
	}
	return nil
}

// readLine returns io.EOF only when no bytes remain.
func readLine(br *bufio.Reader) ([]byte, error) {
	var buf []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return buf, nil
			}
			return nil, err
		}

		switch b {
		case '\n':
			return buf, nil
		case '\r':
			if next, err := br.Peek(1); err == nil && next[0] == '\n' {
				_, _ = br.ReadByte()
			}
			return buf, nil
		}

		buf = append(buf, b)
	}
}

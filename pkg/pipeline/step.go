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

package pipeline

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/streamspike/pkg/config"
	"github.com/walteh/streamspike/pkg/remote"
	"github.com/walteh/streamspike/pkg/resource"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Step is one unit of I/O work. Steps keep no state between runs.
type Step interface {
	// Name describes the step for logs, e.g. "append Input.txt -> Output.txt"
	Name() string
	// Kind is the config kind the step was built from
	Kind() config.Kind
	// Execute runs the step; every handle it opens is closed before it returns
	Execute(ctx context.Context) error
}

// 📖 PrintStep writes the whole source file to the console
type PrintStep struct {
	Source  string
	Console io.Writer
}

func (s *PrintStep) Name() string      { return string(config.KindPrint) + " " + s.Source }
func (s *PrintStep) Kind() config.Kind { return config.KindPrint }

// 🏃 Execute reads the file first so a failed read prints nothing
func (s *PrintStep) Execute(ctx context.Context) error {
	text, err := resource.ReadText(ctx, s.Source)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(s.Console, text+"\n"); err != nil {
		return errors.Errorf("writing to console: %w", err)
	}
	return nil
}

// 📜 PrintLinesStep writes the source file to the console one line per write
type PrintLinesStep struct {
	Source  string
	Console io.Writer
}

func (s *PrintLinesStep) Name() string      { return string(config.KindPrintLines) + " " + s.Source }
func (s *PrintLinesStep) Kind() config.Kind { return config.KindPrintLines }

// 🏃 Execute streams lines; lines already written stay written if a later one fails
func (s *PrintLinesStep) Execute(ctx context.Context) error {
	count := 0
	for line, err := range resource.Lines(ctx, s.Source) {
		if err != nil {
			return err
		}
		if _, err := io.WriteString(s.Console, line+"\n"); err != nil {
			return errors.Errorf("writing to console: %w", err)
		}
		count++
	}

	zerolog.Ctx(ctx).Debug().Str("path", s.Source).Int("lines", count).Msg("printed lines")
	return nil
}

// 📦 AppendStep appends the whole source file as one line to the destination
type AppendStep struct {
	Source      string
	Destination string
}

func (s *AppendStep) Name() string {
	return string(config.KindAppend) + " " + s.Source + " -> " + s.Destination
}
func (s *AppendStep) Kind() config.Kind { return config.KindAppend }

func (s *AppendStep) Execute(ctx context.Context) error {
	text, err := resource.ReadText(ctx, s.Source)
	if err != nil {
		return err
	}
	return resource.AppendLine(ctx, s.Destination, text)
}

// 🌐 FetchStep appends the body of a remote resource as one line to the destination
type FetchStep struct {
	URL         string
	Destination string
}

func (s *FetchStep) Name() string {
	return string(config.KindFetch) + " " + s.URL + " -> " + s.Destination
}
func (s *FetchStep) Kind() config.Kind { return config.KindFetch }

// 🏃 Execute fetches and decodes the whole body before the destination is opened,
// so a failed fetch leaves the destination untouched
func (s *FetchStep) Execute(ctx context.Context) error {
	text, err := remote.Fetch(ctx, s.URL)
	if err != nil {
		return err
	}
	return resource.AppendLine(ctx, s.Destination, text)
}

// 🏭 Build turns a config into steps; console receives print output
func Build(cfg *config.Config, console io.Writer) ([]Step, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	steps := make([]Step, 0, len(cfg.Steps))
	for _, sc := range cfg.Steps {
		switch sc.Kind {
		case config.KindPrint:
			steps = append(steps, &PrintStep{Source: sc.Source, Console: console})
		case config.KindPrintLines:
			steps = append(steps, &PrintLinesStep{Source: sc.Source, Console: console})
		case config.KindAppend:
			steps = append(steps, &AppendStep{Source: sc.Source, Destination: sc.Destination})
		case config.KindFetch:
			steps = append(steps, &FetchStep{URL: sc.Source, Destination: sc.Destination})
		}
	}
	return steps, nil
}

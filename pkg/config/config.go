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

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind names what a step does
type Kind string

const (
	KindPrint      Kind = "print"       // read whole file, write it to the console
	KindPrintLines Kind = "print_lines" // read file line by line, write each line
	KindAppend     Kind = "append"      // read whole file, append it as one line to destination
	KindFetch      Kind = "fetch"       // GET a url, append the body as one line to destination
)

// Kinds lists every supported step kind in pipeline order
var Kinds = []Kind{KindPrint, KindPrintLines, KindAppend, KindFetch}

// 📦 Step configures one pipeline step
type Step struct {
	Kind        Kind   `json:"kind" yaml:"kind"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Steps           []Step `json:"steps" yaml:"steps"`
	ContinueOnError bool   `json:"continue_on_error,omitempty" yaml:"continue_on_error,omitempty"`

	location string
}

// 🎯 Default reproduces the built-in run: Input.txt to the console twice,
// then into Output.txt, then google.com into Google.txt
func Default() *Config {
	return &Config{
		Steps: []Step{
			{Kind: KindPrint, Source: "Input.txt"},
			{Kind: KindPrintLines, Source: "Input.txt"},
			{Kind: KindAppend, Source: "Input.txt", Destination: "Output.txt"},
			{Kind: KindFetch, Source: "https://www.google.com/", Destination: "Google.txt"},
		},
	}
}

// Location returns the file the config was loaded from, empty for the default
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Steps) == 0 {
		return errors.Errorf("at least one step is required")
	}

	for i, step := range cfg.Steps {
		if err := step.Validate(); err != nil {
			return errors.Errorf("steps[%d]: %w", i, err)
		}
	}

	return nil
}

// 🔍 Validate checks a single step
func (s Step) Validate() error {
	if s.Source == "" {
		return errors.Errorf("%s: source is required", s.Kind)
	}

	switch s.Kind {
	case KindPrint, KindPrintLines:
		if s.Destination != "" {
			return errors.Errorf("%s: destination is not used by this kind", s.Kind)
		}
	case KindAppend:
		if s.Destination == "" {
			return errors.Errorf("%s: destination is required", s.Kind)
		}
	case KindFetch:
		if s.Destination == "" {
			return errors.Errorf("%s: destination is required", s.Kind)
		}
		u, err := url.Parse(s.Source)
		if err != nil {
			return errors.Errorf("%s: parsing source url: %w", s.Kind, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return errors.Errorf("%s: source must be an absolute url, got %q", s.Kind, s.Source)
		}
	default:
		kinds := make([]string, len(Kinds))
		for i, k := range Kinds {
			kinds[i] = string(k)
		}
		return errors.Errorf("unknown kind %q, options: %s", s.Kind, strings.Join(kinds, ", "))
	}

	return nil
}

// 🔑 Hash returns a stable hash of the configuration
func (cfg *Config) Hash() string {
	data, _ := json.Marshal(struct {
		Steps           []Step `json:"steps"`
		ContinueOnError bool   `json:"continue_on_error"`
	}{cfg.Steps, cfg.ContinueOnError})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// 📝 String returns a string representation of a step
func (s Step) String() string {
	if s.Destination == "" {
		return fmt.Sprintf("%s %s", s.Kind, s.Source)
	}
	return fmt.Sprintf("%s %s -> %s", s.Kind, s.Source, s.Destination)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	parts := make([]string, len(cfg.Steps))
	for i, s := range cfg.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes; filename is used for diagnostics and relative values
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

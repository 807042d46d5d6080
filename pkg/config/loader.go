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
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DiscoveryPattern matches config files picked up without --config
const DiscoveryPattern = ".streamspike.{yaml,yml,json,hcl}"

// discoveryOrder breaks ties when more than one config file is present
var discoveryOrder = []string{".streamspike.yaml", ".streamspike.yml", ".streamspike.json", ".streamspike.hcl"}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	cfg.location = path
	return cfg, nil
}

// 🔍 Discover finds a config file in dir, returning "" when there is none
func Discover(ctx context.Context, dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), DiscoveryPattern)
	if err != nil {
		return "", errors.Errorf("searching %s for config: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}

	slices.SortFunc(matches, func(a, b string) int {
		return slices.Index(discoveryOrder, a) - slices.Index(discoveryOrder, b)
	})

	if len(matches) > 1 {
		zerolog.Ctx(ctx).Warn().Strs("found", matches).Str("using", matches[0]).Msg("multiple config files found")
	}

	return filepath.Join(dir, matches[0]), nil
}

// 🧭 Resolve picks the config for a run: an explicit path, else a discovered
// file in dir, else Default
func Resolve(ctx context.Context, explicit string, dir string) (*Config, error) {
	if explicit != "" {
		return Load(ctx, explicit)
	}

	found, err := Discover(ctx, dir)
	if err != nil {
		return nil, err
	}
	if found != "" {
		return Load(ctx, found)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

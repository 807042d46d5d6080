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

package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/streamspike/cmd/streamspike/opts"
	"github.com/walteh/streamspike/pkg/config"
	"github.com/walteh/streamspike/pkg/log"
	"github.com/walteh/streamspike/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long: `Run executes every configured step in order.
It will:
1. Resolve the config (--config, a discovered file, or the built-in steps)
2. Run each step once the previous one has finished
3. Stop at the first failure unless --continue-on-error is set
4. Print a summary of every step`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), o)
		},
	}

	return cmd
}

// 🏃 Run resolves the config and executes the pipeline
func Run(ctx context.Context, o *opts.RootOpts) error {
	logger := zerolog.Ctx(ctx)
	status := log.FromContext(ctx)

	cfg, err := config.Resolve(ctx, o.ConfigFile, o.WorkDir)
	if err != nil {
		return errors.Errorf("resolving config: %w", err)
	}

	location := cfg.Location()
	if location == "" {
		location = "built-in"
	}
	logger.Info().Str("config", location).Str("hash", cfg.Hash()).Msg("configuration resolved")

	steps, err := pipeline.Build(cfg, o.Console)
	if err != nil {
		return errors.Errorf("building pipeline: %w", err)
	}

	status.Header(fmt.Sprintf("running %d steps (%s)", len(steps), location))

	continueOnError := o.ContinueOnError || cfg.ContinueOnError
	if continueOnError {
		status.Warning("continue on error is set, failed steps will not stop the run")
	}

	runner := pipeline.NewRunner(
		pipeline.WithContinueOnError(continueOnError),
		pipeline.WithStatus(status),
	)

	results, err := runner.Run(ctx, steps)

	status.LogNewline()
	status.Summary(pipeline.Operations(results))

	if err != nil {
		return errors.Errorf("running pipeline: %w", err)
	}

	status.Successf("%d steps complete", len(steps))
	return nil
}

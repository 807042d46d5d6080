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

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/streamspike/cmd/streamspike/commands"
	"github.com/walteh/streamspike/cmd/streamspike/opts"
	"github.com/walteh/streamspike/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the root command; running it without a subcommand runs the pipeline
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{
		Console: stdout,
		Status:  log.New(stderr, zerolog.Nop()),
	}

	rootCmd := &cobra.Command{
		Use:   "streamspike",
		Short: "Run a sequential text pipeline over local files and remote resources",
		Long: `streamspike reads a text file, prints it whole and line by line, appends it
to a second file, then fetches a remote resource and appends its body to a third file.

Steps run one at a time in order. Without a config file the built-in pipeline runs
against Input.txt, Output.txt and Google.txt in the working directory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return newRootOpts(cmd, o, stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Run(cmd.Context(), o)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}

// newRootOpts finishes the shared options once flags are parsed
func newRootOpts(cmd *cobra.Command, o *opts.RootOpts, stderr io.Writer) error {
	logger := setupLogging(stderr, o.Debug)
	o.Status = log.New(stderr, logger)

	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Errorf("getting working directory: %w", err)
		}
		o.WorkDir = wd
	}

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(log.NewContext(ctx, o.Status))
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: discover .streamspike.{yaml,yml,json,hcl})")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.ContinueOnError, "continue-on-error", false, "run every step even after one fails")
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/streamspike/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 📋 Result records what happened to one step
type Result struct {
	Step     string
	Kind     string
	Duration time.Duration
	Err      error
	Skipped  bool // never executed because the run stopped first
}

// 🏃 Runner executes steps one after another on the calling goroutine
type Runner struct {
	continueOnError bool
	status          *log.Logger
}

// 🔧 Option configures a Runner
type Option func(*Runner)

// WithContinueOnError keeps running after a failed step and reports every failure at the end
func WithContinueOnError(v bool) Option {
	return func(r *Runner) {
		r.continueOnError = v
	}
}

// WithStatus sets where step progress is reported
func WithStatus(l *log.Logger) Option {
	return func(r *Runner) {
		r.status = l
	}
}

// 🏗️ NewRunner creates a new runner; by default the first failure stops the run
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		status: log.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// 🏃 Run executes steps in order. A step starts only after the previous one has
// returned. Results has one entry per step, including skipped ones.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]Result, error) {
	runID := uuid.New().String()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Int("steps", len(steps)).Bool("continue_on_error", r.continueOnError).Msg("starting run")

	results := make([]Result, len(steps))
	for i, step := range steps {
		results[i] = Result{Step: step.Name(), Kind: string(step.Kind()), Skipped: true}
	}

	var errs []error
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("run cancelled before step %d (%s): %w", i+1, step.Name(), err)
		}

		op := log.StepOperation{Index: i + 1, Total: len(steps), Name: step.Name(), Kind: string(step.Kind())}
		r.status.StepStarted(op)

		start := time.Now()
		err := r.runStep(ctx, step)
		op.Duration = time.Since(start)
		op.Err = err

		results[i].Skipped = false
		results[i].Duration = op.Duration
		results[i].Err = err

		r.status.StepFinished(op)

		if err != nil {
			err = errors.Errorf("step %d (%s): %w", i+1, step.Name(), err)
			if !r.continueOnError {
				return results, err
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}

	logger.Debug().Msg("run complete")
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	ctx = zerolog.Ctx(ctx).With().Str("step", step.Name()).Logger().WithContext(ctx)
	return step.Execute(ctx)
}

// 📊 Operations converts results for the status summary
func Operations(results []Result) []log.StepOperation {
	ops := make([]log.StepOperation, len(results))
	for i, res := range results {
		ops[i] = log.StepOperation{
			Index:    i + 1,
			Total:    len(results),
			Name:     res.Step,
			Kind:     res.Kind,
			Duration: res.Duration,
			Err:      res.Err,
			Skipped:  res.Skipped,
		}
	}
	return ops
}

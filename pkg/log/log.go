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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	stepIndent  = 4  // spaces to indent step entries
	nameWidth   = 35 // Base width for step name
	kindWidth   = 12 // Width for step kind
	statusWidth = 8  // Width for status text
)

const (
	statusRunning = "running"
	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// 🎯 StepOperation describes one pipeline step for display
type StepOperation struct {
	Index    int           // 1-based position in the run
	Total    int           // number of steps in the run
	Name     string        // Step name, e.g. "print Input.txt"
	Kind     string        // Step kind, e.g. "print_lines"
	Duration time.Duration // Set once the step finished
	Err      error         // Set when the step failed
	Skipped  bool          // Step never ran because the run stopped earlier
}

// 🎯 Logger writes human-readable status to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔇 Discard returns a logger that writes nowhere
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatStep formats a step for display
func (l *Logger) formatStep(op StepOperation, status string) string {
	var symbol rune
	var symbolColor color.Attribute
	switch status {
	case statusSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	case statusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case statusOK:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", stepIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, status))

	if status != statusRunning {
		line += color.New(color.Faint).Sprint(op.Duration.Round(time.Microsecond).String())
	}
	return line
}

// 📝 StepStarted logs the start of a step
func (l *Logger) StepStarted(op StepOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatStep(op, statusRunning))

	l.zlog.Debug().
		Int("index", op.Index).
		Int("total", op.Total).
		Str("step", op.Name).
		Str("kind", op.Kind).
		Msg("step started")
}

// 📝 StepFinished logs the outcome of a step
func (l *Logger) StepFinished(op StepOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := statusOK
	if op.Err != nil {
		status = statusFailed
	}
	fmt.Fprintln(l.console, l.formatStep(op, status))

	if op.Err != nil {
		l.zlog.Error().
			Err(op.Err).
			Int("index", op.Index).
			Str("step", op.Name).
			Str("kind", op.Kind).
			Dur("duration", op.Duration).
			Msg("step failed")
		return
	}

	l.zlog.Info().
		Int("index", op.Index).
		Str("step", op.Name).
		Str("kind", op.Kind).
		Dur("duration", op.Duration).
		Msg("step complete")
}

// 📊 Summary renders a table of every step in the run
func (l *Logger) Summary(ops []StepOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{{"#", "step", "kind", "status", "duration"}}
	failed := 0
	for _, op := range ops {
		status := statusOK
		switch {
		case op.Skipped:
			status = statusSkipped
		case op.Err != nil:
			status = statusFailed
			failed++
		}
		data = append(data, []string{
			fmt.Sprintf("%d", op.Index),
			op.Name,
			op.Kind,
			status,
			op.Duration.Round(time.Microsecond).String(),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		l.zlog.Warn().Err(err).Msg("rendering summary table")
		return
	}
	fmt.Fprintln(l.console, table)

	l.zlog.Info().Int("steps", len(ops)).Int("failed", failed).Msg("run summary")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("streamspike")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message along with its cause
func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fmt.Fprintf(l.console, "❌ %s: %s\n", color.New(color.FgRed).Sprint(msg), err)
		l.zlog.Error().Err(err).Msg(msg)
		return
	}
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

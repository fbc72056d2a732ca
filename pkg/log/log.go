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
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// 🎯 FileOperation is the result of one file triple
type FileOperation struct {
	Path      string            // Output path, relative to the output root in directory mode
	Status    status.FileStatus // Outcome
	Records   int               // Patch records applied
	Ops       int               // Edit operations applied
	Truncated int               // Chars truncated from the patch-target
	Padded    int               // Chars padded onto the patch-target
}

// 📦 BatchOperation describes one invocation
type BatchOperation struct {
	Source string
	Target string
	Patch  string
	Out    string
	Dirs   bool
}

// 🎯 Logger prints one console line per file and mirrors it to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	current    *BatchOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger when there is none
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func symbolFor(st status.FileStatus) (rune, color.Attribute) {
	switch st {
	case status.StatusNew:
		return '✓', color.FgGreen
	case status.StatusModified:
		return '⟳', color.FgBlue
	case status.StatusDeleted:
		return '✗', color.FgRed
	case status.StatusCopied:
		return '•', color.FgCyan
	case status.StatusFailed:
		return '!', color.FgRed
	default:
		return '-', color.FgYellow
	}
}

func detailFor(op FileOperation) string {
	switch op.Status {
	case status.StatusNew, status.StatusModified, status.StatusUnchanged:
	default:
		return ""
	}
	parts := []string{fmt.Sprintf("%d records, %d ops", op.Records, op.Ops)}
	if op.Truncated > 0 {
		parts = append(parts, fmt.Sprintf("truncated %d", op.Truncated))
	}
	if op.Padded > 0 {
		parts = append(parts, fmt.Sprintf("padded %d", op.Padded))
	}
	return strings.Join(parts, ", ")
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	symbol, symbolColor := symbolFor(op.Status)

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, op.Status.String())),
		color.New(color.Faint).Sprint(detailFor(op)))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Debug().
		Str("file", op.Path).
		Str("status", op.Status.String()).
		Int("records", op.Records).
		Int("ops", op.Ops).
		Int("truncated", op.Truncated).
		Int("padded", op.Padded).
		Msg("file operation")
}

// 📝 StartBatch starts a new batch of file operations
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[morphing %s]\n",
		color.New(color.FgCyan).Sprint(op.Out))

	fmt.Fprintf(l.console, "%s %s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("→"),
		color.New(color.Bold).Sprint(op.Target),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Patch))

	l.zlog.Debug().
		Str("source", op.Source).
		Str("target", op.Target).
		Str("patch", op.Patch).
		Str("out", op.Out).
		Bool("dirs", op.Dirs).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.zlog.Debug().
		Str("out", l.current.Out).
		Int("files", len(l.operations)).
		Msg("batch complete")

	l.current = nil
	l.operations = nil
}

// Operations returns the file operations logged in the current batch.
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
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
	name := color.New(color.Bold, color.FgCyan).Sprint("diffmorpher")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
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

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

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
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// 📄 InputOperation summarizes one input for logging
type InputOperation struct {
	Path      string // file path, "-" for stdin
	Lines     int    // lines read
	Processed int    // lines the script ran on
	Dropped   int    // lines not printed (None, empty, or --no-print)
}

// 🎯 Logger writes user-facing messages to the console and mirrors them to
// zerolog. Console output never goes to stdout, which carries data.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	current *InputOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🎨 AutoColor turns colors off when f is not a terminal.
func AutoColor(f *os.File) {
	color.NoColor = color.NoColor || !term.IsTerminal(int(f.Fd()))
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context. Without one it returns a
// logger that writes to stderr.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(os.Stderr, *zerolog.Ctx(ctx))
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartInput marks the start of an input
func (l *Logger) StartInput(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &InputOperation{Path: path}
	l.zlog.Debug().Str("input", path).Msg("reading input")
}

// 📝 Count records one line against the current input.
func (l *Logger) Count(processed, dropped bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}
	l.current.Lines++
	if processed {
		l.current.Processed++
	}
	if dropped {
		l.current.Dropped++
	}
}

// 📝 EndInput logs the summary of the current input and returns it
func (l *Logger) EndInput() InputOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return InputOperation{}
	}
	op := *l.current
	l.current = nil

	l.zlog.Debug().
		Str("input", op.Path).
		Int("lines", op.Lines).
		Int("processed", op.Processed).
		Int("dropped", op.Dropped).
		Msg("input complete")

	return op
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

// 📝 Detail prints an indented, dimmed block under the previous message,
// such as a script backtrace.
func (l *Logger) Detail(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, color.New(color.Faint).Sprint(text))
	l.zlog.Debug().Msg(text)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

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

package stream

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/pefan/pkg/log"
	"github.com/walteh/pefan/pkg/script"
	"github.com/walteh/pefan/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// readAhead bounds how many lines the reader may get ahead of the script.
const readAhead = 64

// 🔧 Options configures a Runner
type Options struct {
	Inputs []string  // already expanded, see ExpandInputs
	Stdin  io.Reader // defaults to os.Stdin
	Output io.Writer // printed lines; also the interpreter's print() target

	Split       bool
	SplitChar   string
	IgnoreEmpty bool
	Print       bool

	Timestamp       bool
	TimestampFormat string
	Clock           func() time.Time // defaults to time.Now

	Sample int // process every Nth line, values < 1 mean every line
}

// ✂️ Snippets are the lowered user snippets. Setup and Teardown may be nil.
type Snippets struct {
	Setup    *script.Snippet
	Main     *script.Snippet
	Teardown *script.Snippet
}

// 🏃 Runner drives the per-line loop: setup once, the main snippet for each
// sampled line, teardown once.
type Runner struct {
	opts     Options
	interp   *script.Interpreter
	env      *script.Env
	snippets Snippets

	seen int // lines read so far, across inputs
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options, interp *script.Interpreter, env *script.Env, snippets Snippets) *Runner {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sample < 1 {
		opts.Sample = 1
	}
	return &Runner{
		opts:     opts,
		interp:   interp,
		env:      env,
		snippets: snippets,
	}
}

// 🏃 Run executes setup, the line loop and teardown. Input is read on its
// own goroutine; scripts always run on the caller's.
func (r *Runner) Run(ctx context.Context) error {
	if r.snippets.Main == nil {
		return errors.Errorf("main snippet is required")
	}

	if err := r.exec(ctx, r.snippets.Setup); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make(chan Record, readAhead)
	rd := &reader{inputs: r.opts.Inputs, stdin: r.opts.Stdin}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(records)
		return rd.run(gctx, records)
	})

	// not gctx: lines already read still run after a read failure
	if err := r.process(ctx, records); err != nil {
		// the reader stops at its next send
		cancel()
		return err
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("reading input: %w", err)
	}

	if err := r.exec(ctx, r.snippets.Teardown); err != nil {
		return err
	}

	return r.flush()
}

func (r *Runner) exec(ctx context.Context, sn *script.Snippet) error {
	if sn == nil {
		return nil
	}
	// Exec names the snippet in its errors
	return r.interp.Exec(ctx, sn, r.env)
}

func (r *Runner) process(ctx context.Context, records <-chan Record) error {
	logger := log.FromContext(ctx)
	current := -1

	for rec := range records {
		if rec.Index != current {
			if current >= 0 {
				logger.EndInput()
			}
			logger.StartInput(rec.Input)
			current = rec.Index
		}

		processed, printed, err := r.handle(ctx, rec)
		if err != nil {
			return errors.Errorf("%s:%d: %w", rec.Input, rec.LineNo, err)
		}
		logger.Count(processed, processed && !printed)

		// flush whenever the reader has nothing queued, so interactive
		// pipes see output promptly
		if len(records) == 0 {
			if err := r.flush(); err != nil {
				return err
			}
		}
	}

	if current >= 0 {
		logger.EndInput()
	}
	return nil
}

// handle runs the main snippet on one record and prints the result.
func (r *Runner) handle(ctx context.Context, rec Record) (processed, printed bool, err error) {
	r.seen++
	if (r.seen-1)%r.opts.Sample != 0 {
		return false, false, nil
	}

	var fields []string
	if r.opts.Split {
		fields = text.Split(rec.Text, r.opts.SplitChar)
	}
	r.env.BindLine(rec.Text, fields, rec.Input, rec.LineNo)

	if err := r.exec(ctx, r.snippets.Main); err != nil {
		return true, false, err
	}

	line, ok := r.env.Line()
	if !ok || !r.opts.Print {
		return true, false, nil
	}

	line = text.Chomp(line)
	if r.opts.IgnoreEmpty && line == "" {
		return true, false, nil
	}

	if err := r.write(line); err != nil {
		return true, false, err
	}
	return true, true, nil
}

func (r *Runner) write(line string) error {
	if r.opts.Timestamp {
		line = r.opts.Clock().Format(r.opts.TimestampFormat) + " " + line
	}
	if _, err := io.WriteString(r.opts.Output, line+"\n"); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}

type flusher interface {
	Flush() error
}

func (r *Runner) flush() error {
	if f, ok := r.opts.Output.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Errorf("flushing output: %w", err)
		}
	}
	return nil
}

// 📝 Summary logs the configuration a run will use
func (o Options) Summary(ctx context.Context) {
	zerolog.Ctx(ctx).Debug().
		Strs("inputs", o.Inputs).
		Bool("split", o.Split).
		Str("split_char", o.SplitChar).
		Bool("print", o.Print).
		Bool("ignore_empty", o.IgnoreEmpty).
		Bool("timestamp", o.Timestamp).
		Int("sample", o.Sample).
		Msg("starting line loop")
}

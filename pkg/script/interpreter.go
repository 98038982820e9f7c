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

package script

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/pefan/pkg/braced"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"gitlab.com/tozd/go/errors"
)

// envVar is the predeclared dict the binding prologue reads from.
const envVar = "__pefan_env__"

// fileOptions enables the dialect snippets are written in: flat top-level
// code that loops, branches and reassigns its bindings.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// ✂️ Snippet is one user-supplied code string, lowered once.
type Snippet struct {
	Name    string // "script", "setup" or "teardown"
	Source  string // as typed on the command line
	Lowered string // indented form

	prog     *starlark.Program
	compiled []string // env names prog was compiled against
}

// 🏭 NewSnippet lowers src. Lowering never fails.
func NewSnippet(name, src string) *Snippet {
	return &Snippet{
		Name:    name,
		Source:  src,
		Lowered: braced.Transform(src),
	}
}

// program returns a compiled program whose prologue binds names.
func (s *Snippet) program(ctx context.Context, names []string, isPredeclared func(string) bool) (*starlark.Program, error) {
	if s.prog != nil && slices.Equal(names, s.compiled) {
		return s.prog, nil
	}

	zerolog.Ctx(ctx).Debug().
		Str("snippet", s.Name).
		Strs("bindings", names).
		Msg("compiling snippet")

	_, prog, err := starlark.SourceProgramOptions(fileOptions, s.Name, prologue(names)+s.Lowered, isPredeclared)
	if err != nil {
		return nil, errors.Errorf("compiling %s: %w", s.Name, err)
	}

	s.prog = prog
	s.compiled = slices.Clone(names)
	return prog, nil
}

// prologue is a single line, so error positions are off by exactly one
// when the environment is not empty.
func prologue(names []string) string {
	if len(names) == 0 {
		return ""
	}
	stmts := make([]string, len(names))
	for i, n := range names {
		stmts[i] = fmt.Sprintf("%s = %s[%q]", n, envVar, n)
	}
	return strings.Join(stmts, "; ") + "\n"
}

// 🔧 Options configures an Interpreter
type Options struct {
	Output   io.Writer           // print() target
	Globals  starlark.StringDict // imports and switches, bound once
	MaxSteps uint64              // per run, 0 is unlimited
}

// 🐍 Interpreter runs snippets against an Env on a single Starlark thread.
type Interpreter struct {
	thread   *starlark.Thread
	globals  starlark.StringDict
	maxSteps uint64
}

// 🏭 New creates an interpreter
func New(opts Options) *Interpreter {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	globals := starlark.StringDict{}
	for k, v := range opts.Globals {
		globals[k] = v
	}

	return &Interpreter{
		thread: &starlark.Thread{
			Name: "pefan",
			Print: func(_ *starlark.Thread, msg string) {
				fmt.Fprintln(out, msg)
			},
		},
		globals:  globals,
		maxSteps: opts.MaxSteps,
	}
}

// 🏃 Exec runs sn with env's bindings and writes the resulting globals back.
func (in *Interpreter) Exec(ctx context.Context, sn *Snippet, env *Env) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("running %s: %w", sn.Name, err)
	}

	predeclared := starlark.StringDict{envVar: env.dict()}
	for k, v := range in.globals {
		predeclared[k] = v
	}

	prog, err := sn.program(ctx, env.Names(), predeclared.Has)
	if err != nil {
		return err
	}

	if in.maxSteps > 0 {
		in.thread.SetMaxExecutionSteps(in.thread.ExecutionSteps() + in.maxSteps)
	}

	stop := context.AfterFunc(ctx, func() {
		in.thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	out, err := prog.Init(in.thread, predeclared)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			zerolog.Ctx(ctx).Debug().Str("snippet", sn.Name).Msg(evalErr.Backtrace())
		}
		return errors.Errorf("running %s: %w", sn.Name, err)
	}

	env.Merge(out)
	return nil
}

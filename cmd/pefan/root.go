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
	"bufio"
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pefan/cmd/pefan/commands"
	"github.com/walteh/pefan/cmd/pefan/opts"
	"github.com/walteh/pefan/pkg/config"
	"github.com/walteh/pefan/pkg/log"
	"github.com/walteh/pefan/pkg/script"
	"github.com/walteh/pefan/pkg/stream"
	"go.starlark.net/starlark"
	"gitlab.com/tozd/go/errors"
)

const usage = `pefan [flags] -e SCRIPT [FILE|GLOB|-]... [-- --switch[=value]...]`

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usage,
		Short: "Run a snippet of code on every input line",
		Long: `pefan runs a snippet once per input line, in the spirit of perl -pe.

Snippets are Starlark, written on one line with braces and semicolons:

    pefan -e 'if "error" in line { n += 1 } ' -s 'n = 0' -t 'print(n)' --no-print app.log

Each run sees "line" (the raw line), "file" (name and lineno) and, with
--split, "data" (the fields). Assign None to line to drop it. Arguments
after -- are bound as variables: "-- --limit=10" binds limit = "10".

An input file named like a subcommand (lower, version) must be given
with a path, such as ./lower, or it runs the subcommand.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), o))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, o, args)
		},
	}

	addRootFlags(cmd, o)

	cmd.SetIn(o.Streams.In)
	cmd.SetOut(o.Streams.Out)
	cmd.SetErr(o.Streams.Err)

	cmd.AddCommand(
		commands.NewLowerCmd(o),
		newVersionCmd(o),
	)

	return cmd
}

// addRootFlags adds the line-loop flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .yml or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")

	f := cmd.Flags()
	f.StringVarP(&o.Script, "script", "e", "", "the snippet to run for each line")
	f.StringVarP(&o.Setup, "setup", "s", "", "snippet run once, after imports and before any input")
	f.StringVarP(&o.Teardown, "teardown", "t", "", "snippet run once, after all input")
	f.BoolVarP(&o.Split, "split", "a", false, "split each line into the 'data' list")
	f.StringVarP(&o.SplitChar, "split-char", "F", "", "field delimiter, implies --split")
	f.BoolVarP(&o.IgnoreEmpty, "ignore-empty", "i", false, "do not print empty lines")
	f.VarP(&o.Imports, "import", "M", "import MODULE[:AS] or MODULE,NAME[:AS],... (repeatable)")
	f.VarP(&o.Imports, "module", "m", "same as --import")
	f.BoolVarP(&o.Iterate, "iterate", "n", true, "iterate over all input lines (always on)")
	f.BoolVarP(&o.Print, "print", "p", true, "print the resulting line")
	f.BoolVar(&o.NoPrint, "no-print", false, "do not print the resulting line, the snippet prints what it needs")
	f.BoolVar(&o.Timestamp, "timestamp", false, "prefix printed lines with the current time")
	f.StringVar(&o.TimestampFormat, "timestamp-format", config.DefaultTimestampFormat, "Go time layout for --timestamp")
	f.StringVarP(&o.Log, "log", "l", "", "also append printed lines to this file")
	f.IntVar(&o.Sample, "sample", 1, "process only every Nth line")
	f.IntVar(&o.MaxSteps, "max-steps", 0, "execution step budget for each snippet run, 0 for none")
}

// setupLogging configures zerolog based on flags and puts both loggers in
// the context. zerolog stays silent unless --debug is given; user-facing
// messages always go through the console logger.
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	if f, ok := o.Streams.Err.(*os.File); ok {
		log.AutoColor(f)
	}

	level := zerolog.Disabled
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: o.Streams.Err, NoColor: color.NoColor}).
		Level(level).
		With().Timestamp().Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(o.Streams.Err, zlog))
}

func runRoot(cmd *cobra.Command, o *opts.RootOpts, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg := config.Default()
	if o.ConfigFile != "" {
		loaded, err := config.Load(ctx, o.ConfigFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	cfg = o.Resolve(cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating options: %w", err)
	}
	logger.Debug().Str("config", cfg.String()).Msg("resolved options")

	files, switchArgs := args, []string(nil)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		files, switchArgs = args[:at], args[at:]
	}

	globals, err := script.ResolveImports(cfg.Imports)
	if err != nil {
		return errors.Errorf("resolving imports: %w", err)
	}
	switches, err := script.ParseSwitches(switchArgs)
	if err != nil {
		return errors.Errorf("parsing switches: %w", err)
	}
	for k, v := range switches {
		globals[k] = v
	}

	inputs, err := stream.ExpandInputs(files)
	if err != nil {
		return errors.Errorf("expanding inputs: %w", err)
	}

	out := io.Writer(o.Streams.Out)
	if cfg.Log != "" {
		mirror, err := os.OpenFile(cfg.Log, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Errorf("opening log file: %w", err)
		}
		defer mirror.Close()
		out = io.MultiWriter(out, mirror)
	}
	bw := bufio.NewWriter(out)
	// keep whatever was printed before a failure
	defer bw.Flush()

	interp := script.New(script.Options{
		Output:   bw,
		Globals:  globals,
		MaxSteps: uint64(cfg.MaxSteps),
	})

	runOpts := stream.Options{
		Inputs:          inputs,
		Stdin:           o.Streams.In,
		Output:          bw,
		Split:           cfg.Split,
		SplitChar:       cfg.SplitChar,
		IgnoreEmpty:     cfg.IgnoreEmpty,
		Print:           !cfg.NoPrint,
		Timestamp:       cfg.Timestamp,
		TimestampFormat: cfg.TimestampFormat,
		Sample:          cfg.Sample,
	}
	runOpts.Summary(ctx)

	runner := stream.NewRunner(runOpts, interp, script.NewEnv(), snippetsFor(cfg))
	return runner.Run(ctx)
}

func snippetsFor(cfg *config.Config) stream.Snippets {
	s := stream.Snippets{Main: script.NewSnippet("script", cfg.Script)}
	if cfg.Setup != "" {
		s.Setup = script.NewSnippet("setup", cfg.Setup)
	}
	if cfg.Teardown != "" {
		s.Teardown = script.NewSnippet("teardown", cfg.Teardown)
	}
	return s
}

// report prints a failed command's error, with the script backtrace when
// there is one.
func report(w io.Writer, err error) {
	logger := log.New(w, zerolog.Nop())
	logger.Error(err.Error())

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		logger.Detail(evalErr.Backtrace())
	}
}

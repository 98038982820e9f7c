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

package opts

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/walteh/pefan/pkg/config"
)

// 🔌 Streams are the process's standard files, swapped out in tests
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the real standard files.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// 🎛️ RootOpts holds the command line state shared by all commands
type RootOpts struct {
	Streams Streams

	ConfigFile string
	Debug      bool

	// flag values, folded into Config by Resolve
	Script          string
	Setup           string
	Teardown        string
	Split           bool
	SplitChar       string
	IgnoreEmpty     bool
	Imports         ImportList // -M and -m, in command line order
	Iterate         bool
	Print           bool
	NoPrint         bool
	Timestamp       bool
	TimestampFormat string
	Log             string
	Sample          int
	MaxSteps        int
}

// 🔄 Resolve folds the flags into cfg. Only flags set explicitly win over
// values from the config file.
func (o *RootOpts) Resolve(cfg *config.Config, flags *pflag.FlagSet) *config.Config {
	set := flags.Changed

	if set("script") {
		cfg.Script = o.Script
	}
	if set("setup") {
		cfg.Setup = o.Setup
	}
	if set("teardown") {
		cfg.Teardown = o.Teardown
	}
	if set("split") {
		cfg.Split = o.Split
	}
	if set("split-char") {
		cfg.SplitChar = o.SplitChar
	}
	if set("ignore-empty") {
		cfg.IgnoreEmpty = o.IgnoreEmpty
	}
	if set("import") || set("module") {
		cfg.Imports = append([]string{}, o.Imports...)
	}
	if set("no-print") {
		cfg.NoPrint = o.NoPrint
	}
	if set("print") {
		cfg.NoPrint = !o.Print
	}
	if set("timestamp") {
		cfg.Timestamp = o.Timestamp
	}
	if set("timestamp-format") {
		cfg.TimestampFormat = o.TimestampFormat
	}
	if set("log") {
		cfg.Log = o.Log
	}
	if set("sample") {
		cfg.Sample = o.Sample
	}
	if set("max-steps") {
		cfg.MaxSteps = o.MaxSteps
	}

	return cfg
}

// ImportList is a flag value that several flags may share. Every Set
// appends, so values keep their command line order across flag names.
type ImportList []string

var _ pflag.Value = (*ImportList)(nil)

func (l *ImportList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (l *ImportList) String() string { return "[" + strings.Join(*l, ",") + "]" }

func (l *ImportList) Type() string { return "stringArray" }

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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/pefan/cmd/pefan/opts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	o := &opts.RootOpts{Streams: opts.StdStreams()}
	err := execute(ctx, o, os.Args[1:])
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// execute runs the command line and reports any error on o's error stream.
func execute(ctx context.Context, o *opts.RootOpts, args []string) error {
	cmd := newRootCmd(o)
	// a nil slice makes cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))

	if err := cmd.ExecuteContext(ctx); err != nil {
		report(o.Streams.Err, err)
		return err
	}
	return nil
}

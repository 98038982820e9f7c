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

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/pefan/cmd/pefan/opts"
	"github.com/walteh/pefan/pkg/braced"
	"gitlab.com/tozd/go/errors"
)

// NewLowerCmd creates the lower command
func NewLowerCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower SNIPPET...",
		Short: "Show the indented form of brace snippets",
		Long: `Lower prints what each snippet turns into before it is run.
It is useful to check where a block opens and closes:

    pefan lower 'if x { y } else { z } '

A snippet whose braces do not balance is reported with the final indent.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if color.NoColor {
				pterm.DisableStyling()
			}

			section := pterm.DefaultSection.WithWriter(o.Streams.Out)
			warn := pterm.Warning.WithWriter(o.Streams.Out)

			for i, src := range args {
				res := braced.Lower(src)
				zerolog.Ctx(cmd.Context()).Debug().
					Int("snippet", i+1).
					Int("lines", len(res.Lines)).
					Int("indent", res.Indent).
					Stringer("state", res.FinalState).
					Msg("lowered snippet")

				section.Printfln("snippet %d", i+1)
				if _, err := fmt.Fprintln(o.Streams.Out, res.String()); err != nil {
					return errors.Errorf("writing snippet: %w", err)
				}
				if res.Indent != 0 {
					warn.Printfln("unbalanced braces: snippet %d ends at indent %d", i+1, res.Indent)
				}
			}

			return nil
		},
	}

	return cmd
}

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

package braced

import "strings"

const (
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth = 4

	// BlockMarker ends a line that opens a block.
	BlockMarker = ':'
)

// trim lengths, one per terminal state
const (
	lineSplitTrim  = 2 // "; "
	blockStartTrim = 3 // " { "
	blockEndTrim   = 3 // " } "
	danglingTrim   = 2 // " }" at end of input
)

// 📦 Result is the full outcome of one lowering pass.
type Result struct {
	Lines      []string // emitted lines, already indented
	Indent     int      // indent counter after the scan, may be negative
	FinalState State    // scanner state after the last character
}

// String joins the emitted lines.
func (r *Result) String() string {
	return strings.Join(r.Lines, "\n")
}

// 🔄 Transform rewrites brace/semicolon mini-syntax into indented blocks.
//
//	Transform("if x { a = 1; b = 2 } ") == "if x:\n    a = 1\n    b = 2\n"
//
// It never fails: input the table does not recognize passes through as
// ordinary code.
func Transform(input string) string {
	return Lower(input).String()
}

// 🔍 Lower runs the scanner and returns the emitted lines with the final
// scanner bookkeeping.
func Lower(input string) *Result {
	sc := &scanner{state: NormalCode}
	for _, c := range input {
		sc.step(c)
	}
	return sc.finish()
}

type scanner struct {
	state  State
	buf    []rune
	lines  []string
	indent int
}

func (sc *scanner) step(c rune) {
	sc.buf = append(sc.buf, c)
	sc.state = Next(sc.state, c)

	switch sc.state {
	case LineSplit:
		sc.flush(lineSplitTrim, "")
		sc.state = NormalCode
	case BlockStartGap:
		sc.flush(blockStartTrim, string(BlockMarker))
		sc.indent++
		sc.state = NormalCode
	case BlockEndGap:
		sc.flush(blockEndTrim, "")
		sc.indent--
		// a following '}' must close without seeing a space first
		sc.state = BlockProbe
	}
}

func (sc *scanner) flush(trim int, suffix string) {
	sc.truncate(trim)
	sc.lines = append(sc.lines, formatLine(sc.indent, string(sc.buf)+suffix))
	sc.buf = sc.buf[:0]
}

func (sc *scanner) truncate(n int) {
	if n > len(sc.buf) {
		n = len(sc.buf)
	}
	sc.buf = sc.buf[:len(sc.buf)-n]
}

func (sc *scanner) finish() *Result {
	if sc.state == BlockEndBrace {
		sc.truncate(danglingTrim)
	}
	if len(sc.buf) > 0 {
		sc.lines = append(sc.lines, formatLine(sc.indent, string(sc.buf)))
	} else {
		sc.lines = append(sc.lines, "")
	}
	return &Result{
		Lines:      sc.lines,
		Indent:     sc.indent,
		FinalState: sc.state,
	}
}

// formatLine pads text by indent levels. Negative levels get no padding.
func formatLine(indent int, text string) string {
	if indent <= 0 {
		return text
	}
	return strings.Repeat(" ", indent*IndentWidth) + text
}

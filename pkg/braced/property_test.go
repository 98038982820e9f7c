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

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
)

// program is a generated, well-formed snippet: statements and blocks with
// exactly the spacing the scanner expects.
type program struct {
	body []node
}

type node struct {
	text string // statement text, or block header when body is set
	body []node
}

func (n node) isBlock() bool { return n.body != nil }

var (
	statements = []string{"a = 1", "total += int(f)", "print(line)", "x = y * 2", "pass", "n = len(data)"}
	headers    = []string{"if x", "else", "for f in data", "while n > 0", "if line.startswith('#')", "elif y"}
)

func (program) Generate(r *rand.Rand, _ int) reflect.Value {
	depth := 1 + r.Intn(4)
	return reflect.ValueOf(program{body: genBody(r, depth)})
}

func genBody(r *rand.Rand, depth int) []node {
	n := 1 + r.Intn(4)
	body := make([]node, 0, n)
	for i := 0; i < n; i++ {
		if depth > 0 && r.Intn(3) == 0 {
			body = append(body, node{
				text: headers[r.Intn(len(headers))],
				body: genBody(r, depth-1),
			})
			continue
		}
		body = append(body, node{text: statements[r.Intn(len(statements))]})
	}
	return body
}

// source renders the mini-syntax: "; " between statements, " } " after a
// trailing statement, "} " after a trailing block.
func (p program) source() string {
	var sb strings.Builder
	writeBody(&sb, p.body)
	return sb.String()
}

func writeBody(sb *strings.Builder, body []node) {
	for i, n := range body {
		if n.isBlock() {
			sb.WriteString(n.text + " { ")
			writeBody(sb, n.body)
			if n.body[len(n.body)-1].isBlock() {
				sb.WriteString("} ")
			} else {
				sb.WriteString(" } ")
			}
			continue
		}
		sb.WriteString(n.text)
		if i < len(body)-1 {
			sb.WriteString("; ")
		}
	}
}

// expected is the reference model of the emitted lines.
func (p program) expected() []string {
	lines := modelBody(nil, p.body, 0)
	if p.body[len(p.body)-1].isBlock() {
		lines = append(lines, "")
	}
	return lines
}

func modelBody(lines []string, body []node, depth int) []string {
	pad := func(d int) string { return strings.Repeat(" ", d*IndentWidth) }
	for _, n := range body {
		if !n.isBlock() {
			lines = append(lines, pad(depth)+n.text)
			continue
		}
		lines = append(lines, pad(depth)+n.text+":")
		lines = modelBody(lines, n.body, depth+1)
		if n.body[len(n.body)-1].isBlock() {
			// the outer "} " closes with nothing left in the buffer
			lines = append(lines, pad(depth+1))
		}
	}
	return lines
}

type counts struct {
	splits, opens, closes int
}

func countBody(body []node) counts {
	var c counts
	for i, n := range body {
		if !n.isBlock() {
			if i < len(body)-1 {
				c.splits++
			}
			continue
		}
		c.opens++
		inner := countBody(n.body)
		c.splits += inner.splits
		c.opens += inner.opens
		c.closes += inner.closes
		if !n.body[len(n.body)-1].isBlock() {
			c.closes++
		}
	}
	return c
}

func nonEmpty(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}

func TestLowerMatchesModel(t *testing.T) {
	prop := func(p program) bool {
		got := Lower(p.source()).Lines
		if diff := cmp.Diff(p.expected(), got); diff != "" {
			t.Logf("source %q (-want +got):\n%s", p.source(), diff)
			return false
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestBalancedInputReturnsToZeroIndent(t *testing.T) {
	prop := func(p program) bool {
		return Lower(p.source()).Indent == 0
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

// Every non-empty line comes from a split, a block header, or the
// statement a closing brace terminates. A statement that runs to the end
// of input is the one extra.
func TestNonEmptyLineCount(t *testing.T) {
	prop := func(p program) bool {
		c := countBody(p.body)
		want := c.splits + c.opens + c.closes
		if !p.body[len(p.body)-1].isBlock() {
			want++
		}
		return nonEmpty(Lower(p.source()).Lines) == want
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestTransformNeverPanics(t *testing.T) {
	alphabet := []rune("ab;{}' \"\t:")
	prop := func(seed int64, n uint8) bool {
		r := rand.New(rand.NewSource(seed))
		var sb strings.Builder
		for i := 0; i < int(n); i++ {
			sb.WriteRune(alphabet[r.Intn(len(alphabet))])
		}
		res := Lower(sb.String())
		return len(res.Lines) > 0 && res.String() == Transform(sb.String())
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 1000}); err != nil {
		t.Error(err)
	}
}

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
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/pefan/pkg/log"
	"gitlab.com/tozd/go/errors"
)

const (
	// StdinName is the input argument that means standard input.
	StdinName = "-"

	// stdinLabel is what scripts see as file.name for standard input.
	stdinLabel = "<stdin>"
)

// 📄 Record is one raw input line, terminator included.
type Record struct {
	Input  string // file name, or "<stdin>"
	Index  int    // position of the input in the expanded list
	LineNo int    // 1-based within the input
	Text   string
}

// 🔍 ExpandInputs resolves glob patterns. No inputs means stdin. A pattern
// that matches nothing is kept as-is, so opening it reports the problem.
func ExpandInputs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{StdinName}, nil
	}

	var out []string
	for _, p := range patterns {
		if p == StdinName || !strings.ContainsAny(p, "*?[{") {
			out = append(out, p)
			continue
		}

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", p, err)
		}
		if len(matches) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

// reader sends every line of every input, in order. Inputs that cannot
// be opened are reported and skipped.
type reader struct {
	inputs []string
	stdin  io.Reader
}

func (r *reader) run(ctx context.Context, out chan<- Record) error {
	logger := log.FromContext(ctx)

	for i, name := range r.inputs {
		src, label, closer, err := r.open(name)
		if err != nil {
			logger.Warningf("could not open file %q: %s", name, rootCause(err))
			continue
		}

		lines, err := scan(ctx, src, func(lineNo int, text string) error {
			select {
			case out <- Record{Input: label, Index: i, LineNo: lineNo, Text: text}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if closer != nil {
			closer.Close()
		}
		switch {
		case err == nil:
		case lines == 0 && ctx.Err() == nil:
			// opened but not readable, such as a directory
			logger.Warningf("could not open file %q: %s", name, rootCause(err))
		default:
			return errors.Errorf("reading %s: %w", label, err)
		}
	}

	zerolog.Ctx(ctx).Debug().Int("inputs", len(r.inputs)).Msg("all inputs read")
	return nil
}

func (r *reader) open(name string) (io.Reader, string, io.Closer, error) {
	if name == StdinName {
		return r.stdin, stdinLabel, nil, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", nil, errors.Errorf("opening %s: %w", name, err)
	}
	return f, name, f, nil
}

// scan calls fn for each line, keeping the "\n". A final line without a
// terminator is still delivered. It returns how many lines were delivered.
func scan(ctx context.Context, src io.Reader, fn func(lineNo int, text string) error) (int, error) {
	br := bufio.NewReader(src)
	delivered := 0
	for lineNo := 1; ; lineNo++ {
		text, err := br.ReadString('\n')
		if text != "" {
			if ferr := fn(lineNo, text); ferr != nil {
				return delivered, ferr
			}
			delivered++
		}
		if err == io.EOF {
			return delivered, nil
		}
		if err != nil {
			return delivered, err
		}
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
	}
}

func rootCause(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

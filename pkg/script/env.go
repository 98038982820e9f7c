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
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Per-line binding names.
const (
	LineVar = "line"
	DataVar = "data"
	FileVar = "file"
)

// 🗂️ Env is the mutable binding environment shared by every snippet run.
// Names assigned by one run are visible to the next.
type Env struct {
	vars starlark.StringDict
}

// 🏭 NewEnv creates an empty environment
func NewEnv() *Env {
	return &Env{vars: starlark.StringDict{}}
}

func (e *Env) Set(name string, v starlark.Value) {
	e.vars[name] = v
}

func (e *Env) Get(name string) (starlark.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Env) Delete(name string) {
	delete(e.vars, name)
}

// Merge copies every binding in d into the environment.
func (e *Env) Merge(d starlark.StringDict) {
	for k, v := range d {
		e.vars[k] = v
	}
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *Env) dict() *starlark.Dict {
	d := starlark.NewDict(len(e.vars))
	for k, v := range e.vars {
		// string keys are always hashable
		_ = d.SetKey(starlark.String(k), v)
	}
	return d
}

// 📄 BindLine rebinds the per-line names. fields is nil when splitting is
// off, and then data is left to the script.
func (e *Env) BindLine(text string, fields []string, fileName string, lineNo int) {
	e.Set(LineVar, starlark.String(text))

	if fields != nil {
		elems := make([]starlark.Value, len(fields))
		for i, f := range fields {
			elems[i] = starlark.String(f)
		}
		e.Set(DataVar, starlark.NewList(elems))
	}

	e.Set(FileVar, starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"name":   starlark.String(fileName),
		"lineno": starlark.MakeInt(lineNo),
	}))
}

// 📤 Line reads back the line after a run. ok is false when the script set
// it to None, which means the line is dropped.
func (e *Env) Line() (text string, ok bool) {
	v, found := e.Get(LineVar)
	if !found || v == starlark.None {
		return "", false
	}
	if s, isStr := starlark.AsString(v); isStr {
		return s, true
	}
	return v.String(), true
}

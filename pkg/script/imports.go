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
	"regexp"
	"sort"
	"strings"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"gitlab.com/tozd/go/errors"
)

// 📚 modules are the importable modules, keyed by import name
var modules = map[string]*starlarkstruct.Module{
	"json": starjson.Module,
	"math": starmath.Module,
	"time": startime.Module,
}

// ModuleNames lists the importable modules.
func ModuleNames() []string {
	names := make([]string, 0, len(modules))
	for k := range modules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "load": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// 🔍 ValidName reports whether name can be bound in a script.
func ValidName(name string) bool {
	return identRe.MatchString(name) && !keywords[name]
}

// ImportName is one member pulled out of a module.
type ImportName struct {
	Name string
	As   string
}

// 📦 ImportSpec is a parsed MODULE[:AS][,NAME[:AS]...] import.
type ImportSpec struct {
	Module string
	As     string
	Names  []ImportName
}

// 🔍 ParseImportSpec parses MODULE, MODULE:AS or MODULE,NAME[:AS],...
func ParseImportSpec(spec string) (*ImportSpec, error) {
	moduleSpec, namesSpec, hasNames := strings.Cut(spec, ",")

	out := &ImportSpec{}
	out.Module, out.As = splitAlias(moduleSpec)
	if out.Module == "" {
		return nil, errors.Errorf("import %q: module name is empty", spec)
	}

	if !hasNames {
		if !ValidName(out.As) {
			return nil, errors.Errorf("import %q: %q is not a valid name", spec, out.As)
		}
		return out, nil
	}

	if out.As != out.Module {
		return nil, errors.Errorf("import %q: module alias cannot be combined with names", spec)
	}
	out.As = ""

	for _, nameSpec := range strings.Split(namesSpec, ",") {
		name, as := splitAlias(nameSpec)
		if name == "" {
			return nil, errors.Errorf("import %q: empty name", spec)
		}
		if !ValidName(as) {
			return nil, errors.Errorf("import %q: %q is not a valid name", spec, as)
		}
		out.Names = append(out.Names, ImportName{Name: name, As: as})
	}

	return out, nil
}

func splitAlias(s string) (name, as string) {
	name, as, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return name, name
	}
	return name, as
}

// 🔗 Bind resolves the import and adds its bindings to dst.
func (s *ImportSpec) Bind(dst starlark.StringDict) error {
	mod, ok := modules[s.Module]
	if !ok {
		return errors.Errorf("unknown module %q (available: %s)", s.Module, strings.Join(ModuleNames(), ", "))
	}

	if len(s.Names) == 0 {
		dst[s.As] = mod
		return nil
	}

	for _, n := range s.Names {
		v, ok := mod.Members[n.Name]
		if !ok {
			return errors.Errorf("module %q has no member %q", s.Module, n.Name)
		}
		dst[n.As] = v
	}
	return nil
}

// 📥 ResolveImports parses and binds every spec, in order.
func ResolveImports(specs []string) (starlark.StringDict, error) {
	out := starlark.StringDict{}
	for _, raw := range specs {
		spec, err := ParseImportSpec(raw)
		if err != nil {
			return nil, errors.Errorf("parsing import: %w", err)
		}
		if err := spec.Bind(out); err != nil {
			return nil, errors.Errorf("binding import %q: %w", raw, err)
		}
	}
	return out, nil
}

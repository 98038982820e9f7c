package script

import (
	"strings"

	"go.starlark.net/starlark"
	"gitlab.com/tozd/go/errors"
)

// 🚩 ParseSwitches turns free-form arguments into bindings.
//
//	--limit=10  -> limit = "10"
//	--dry-run   -> dry_run = True
//	mode=fast   -> mode = "fast"
func ParseSwitches(args []string) (starlark.StringDict, error) {
	out := starlark.StringDict{}
	for _, arg := range args {
		trimmed := strings.TrimLeft(arg, "-")
		dashed := trimmed != arg

		name, value, hasValue := strings.Cut(trimmed, "=")
		if !dashed && !hasValue {
			return nil, errors.Errorf("switch %q: expected --name, --name=value or name=value", arg)
		}

		name = strings.ReplaceAll(name, "-", "_")
		if !ValidName(name) {
			return nil, errors.Errorf("switch %q: %q is not a valid name", arg, name)
		}

		if hasValue {
			out[name] = starlark.String(value)
		} else {
			out[name] = starlark.True
		}
	}
	return out, nil
}

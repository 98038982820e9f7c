package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestParseImportSpec(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		want        *ImportSpec
		errContains string
	}{
		{
			name: "module",
			spec: "math",
			want: &ImportSpec{Module: "math", As: "math"},
		},
		{
			name: "module_alias",
			spec: "json:j",
			want: &ImportSpec{Module: "json", As: "j"},
		},
		{
			name: "names",
			spec: "math,sqrt,pi:PI",
			want: &ImportSpec{Module: "math", Names: []ImportName{{Name: "sqrt", As: "sqrt"}, {Name: "pi", As: "PI"}}},
		},
		{
			name:        "alias_with_names",
			spec:        "math:m,sqrt",
			errContains: "cannot be combined",
		},
		{
			name:        "empty_module",
			spec:        ",sqrt",
			errContains: "module name is empty",
		},
		{
			name:        "empty_name",
			spec:        "math,",
			errContains: "empty name",
		},
		{
			name:        "keyword_alias",
			spec:        "math:if",
			errContains: "not a valid name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImportSpec(tt.spec)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveImports(t *testing.T) {
	got, err := ResolveImports([]string{"json", "math,pi:PI", "time:t"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"json", "PI", "t"}, got.Keys())
	assert.Equal(t, starlark.Float(3.141592653589793), got["PI"])

	_, err = ResolveImports([]string{"os"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown module "os"`)
	assert.Contains(t, err.Error(), "json, math, time", "error should list what is available")

	_, err = ResolveImports([]string{"math,nothing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `has no member "nothing"`)
}

func TestParseSwitches(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		want        starlark.StringDict
		errContains string
	}{
		{
			name: "forms",
			args: []string{"--limit=10", "-v", "--dry-run", "mode=fast", "--empty="},
			want: starlark.StringDict{
				"limit":   starlark.String("10"),
				"v":       starlark.True,
				"dry_run": starlark.True,
				"mode":    starlark.String("fast"),
				"empty":   starlark.String(""),
			},
		},
		{
			name: "none",
			args: nil,
			want: starlark.StringDict{},
		},
		{
			name:        "bare_word",
			args:        []string{"verbose"},
			errContains: "expected --name",
		},
		{
			name:        "bad_name",
			args:        []string{"--1st=x"},
			errContains: "not a valid name",
		},
		{
			name:        "keyword",
			args:        []string{"--for"},
			errContains: "not a valid name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSwitches(tt.args)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

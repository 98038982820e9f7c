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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultTimestampFormat is used when timestamps are on and no layout is set.
const DefaultTimestampFormat = time.RFC3339

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds every pefan setting. Each field has a matching flag; a
// flag given on the command line wins over the file.
type Config struct {
	Script   string `json:"script,omitempty" yaml:"script,omitempty" hcl:"script,optional"`
	Setup    string `json:"setup,omitempty" yaml:"setup,omitempty" hcl:"setup,optional"`
	Teardown string `json:"teardown,omitempty" yaml:"teardown,omitempty" hcl:"teardown,optional"`

	Split       bool     `json:"split,omitempty" yaml:"split,omitempty" hcl:"split,optional"`
	SplitChar   string   `json:"split_char,omitempty" yaml:"split_char,omitempty" hcl:"split_char,optional"` // empty means whitespace
	IgnoreEmpty bool     `json:"ignore_empty,omitempty" yaml:"ignore_empty,omitempty" hcl:"ignore_empty,optional"`
	Imports     []string `json:"imports,omitempty" yaml:"imports,omitempty" hcl:"imports,optional"`
	NoPrint     bool     `json:"no_print,omitempty" yaml:"no_print,omitempty" hcl:"no_print,optional"`

	Timestamp       bool   `json:"timestamp,omitempty" yaml:"timestamp,omitempty" hcl:"timestamp,optional"`
	TimestampFormat string `json:"timestamp_format,omitempty" yaml:"timestamp_format,omitempty" hcl:"timestamp_format,optional"`
	Log             string `json:"log,omitempty" yaml:"log,omitempty" hcl:"log,optional"`
	Sample          int    `json:"sample,omitempty" yaml:"sample,omitempty" hcl:"sample,optional"`
	MaxSteps        int    `json:"max_steps,omitempty" yaml:"max_steps,omitempty" hcl:"max_steps,optional"`
}

// 🏭 Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		TimestampFormat: DefaultTimestampFormat,
		Sample:          1,
	}
}

// 🎯 Load reads a config file. It does not require a script, since the
// script usually comes from the command line; call Validate after applying
// flag overrides.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, filepath.Base(path), data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.check(); err != nil {
		return nil, errors.Errorf("checking config: %w", err)
	}

	return cfg, nil
}

// check validates the fields a file may set, without requiring a script.
func (cfg *Config) check() error {
	if cfg.Sample < 0 {
		return errors.Errorf("sample must be >= 1, got %d", cfg.Sample)
	}
	if cfg.MaxSteps < 0 {
		return errors.Errorf("max_steps must be >= 0, got %d", cfg.MaxSteps)
	}
	return nil
}

// 🔍 Validate checks the final configuration and fills in defaults.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Script) == "" {
		return errors.Errorf("script is required")
	}
	if err := cfg.check(); err != nil {
		return err
	}

	// Set defaults
	if cfg.Sample == 0 {
		cfg.Sample = 1
	}
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DefaultTimestampFormat
	}
	if cfg.SplitChar != "" {
		cfg.Split = true
	}
	if cfg.Log != "" {
		cfg.Log = filepath.Clean(cfg.Log)
	}

	return nil
}

// 📝 String returns a short summary for logs
func (cfg *Config) String() string {
	return fmt.Sprintf("script=%q setup=%t teardown=%t split=%t sample=%d", cfg.Script, cfg.Setup != "", cfg.Teardown != "", cfg.Split, cfg.Sample)
}

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
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/diff"
	"github.com/walteh/diffmorpher/pkg/morph"
	"github.com/walteh/diffmorpher/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes on top of Default()
	Parse(ctx context.Context, data []byte) (*Config, error)

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

// 📚 Config is everything one invocation needs
type Config struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty" hcl:"source,optional"`
	Target string `json:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`
	Patch  string `json:"patch,omitempty" yaml:"patch,omitempty" hcl:"patch,optional"`
	Out    string `json:"out,omitempty" yaml:"out,omitempty" hcl:"out,optional"`

	Auto   bool `json:"auto,omitempty" yaml:"auto,omitempty" hcl:"auto,optional"`
	Dirs   bool `json:"dirs,omitempty" yaml:"dirs,omitempty" hcl:"dirs,optional"`
	Ignore bool `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Force  bool `json:"force,omitempty" yaml:"force,omitempty" hcl:"force,optional"`

	Fill    string   `json:"fill,omitempty" yaml:"fill,omitempty" hcl:"fill,optional"`
	Engine  string   `json:"engine,omitempty" yaml:"engine,omitempty" hcl:"engine,optional"`
	Margin  int      `json:"margin" yaml:"margin" hcl:"margin,optional"`
	Timeout string   `json:"timeout,omitempty" yaml:"timeout,omitempty" hcl:"timeout,optional"`
	Jobs    int      `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Source:  "source.txt",
		Target:  "target.txt",
		Patch:   "patch.txt",
		Out:     "out.txt",
		Fill:    " ",
		Engine:  diff.EngineMyers,
		Margin:  patch.DefaultMargin,
		Timeout: "1s",
		Jobs:    1,
	}
}

// 🎯 Load reads a config file on top of Default()
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// FillRune returns the first rune of Fill, or a space when Fill is empty.
func (cfg *Config) FillRune() rune {
	r, size := utf8.DecodeRuneInString(cfg.Fill)
	if size == 0 {
		return ' '
	}
	return r
}

// TimeoutDuration parses Timeout. An empty Timeout disables the deadline.
func (cfg *Config) TimeoutDuration() (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, errors.Errorf("%w: invalid timeout %q", morph.ErrArgument, cfg.Timeout)
	}
	return d, nil
}

// MorphOptions returns the pipeline options for cfg. Call after Validate.
func (cfg *Config) MorphOptions() morph.Options {
	timeout, _ := cfg.TimeoutDuration()
	return morph.Options{
		Engine:  cfg.Engine,
		Margin:  cfg.Margin,
		Timeout: timeout,
		Force:   cfg.Force,
		Fill:    cfg.FillRune(),
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "file"
	if cfg.Dirs {
		mode = "dirs"
	}
	return fmt.Sprintf("%s: %s -> %s onto %s => %s", mode, cfg.Source, cfg.Target, cfg.Patch, cfg.Out)
}

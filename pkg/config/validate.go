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
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/diffmorpher/pkg/diff"
	"github.com/walteh/diffmorpher/pkg/morph"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Validate checks the option values and cleans the paths. Errors wrap morph.ErrArgument.
func (cfg *Config) Validate() error {
	if cfg.Fill == "" {
		return argError("fill character must not be empty")
	}

	switch cfg.Engine {
	case "":
		cfg.Engine = diff.EngineMyers
	case diff.EngineMyers, diff.EngineDMP:
	default:
		return argError("unknown diff engine %q", cfg.Engine)
	}

	if cfg.Margin < 0 {
		return argError("margin must not be negative, got %d", cfg.Margin)
	}
	if cfg.Jobs < 1 {
		return argError("jobs must be at least 1, got %d", cfg.Jobs)
	}

	if d, err := cfg.TimeoutDuration(); err != nil {
		return err
	} else if d < 0 {
		return argError("timeout must not be negative, got %s", cfg.Timeout)
	}

	for _, glob := range cfg.Exclude {
		if !doublestar.ValidatePattern(glob) {
			return argError("invalid exclude pattern %q", glob)
		}
	}

	for _, p := range []*string{&cfg.Source, &cfg.Target, &cfg.Patch, &cfg.Out} {
		if *p == "" {
			return argError("paths must not be empty")
		}
		*p = filepath.Clean(*p)
	}

	return nil
}

// CheckPaths verifies the four paths against the file system. In directory mode all four must
// be directories. In file mode source, target and patch must be readable files unless Auto is
// set, and out must be absent or a writable regular file.
func (cfg *Config) CheckPaths() error {
	if cfg.Dirs {
		for _, p := range []string{cfg.Source, cfg.Target, cfg.Patch, cfg.Out} {
			info, err := os.Stat(p)
			if err != nil || !info.IsDir() {
				return argError("%s is not a directory", p)
			}
		}
		return nil
	}

	if !cfg.Auto {
		for _, p := range []string{cfg.Source, cfg.Target, cfg.Patch} {
			if !readableFile(p) {
				return argError("%s is not a readable file", p)
			}
		}
	}

	info, err := os.Stat(cfg.Out)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return argError("checking %s: %s", cfg.Out, err)
	case !info.Mode().IsRegular():
		return argError("%s is not a regular file", cfg.Out)
	}

	f, err := os.OpenFile(cfg.Out, os.O_WRONLY, 0)
	if err != nil {
		return argError("%s is not writable", cfg.Out)
	}
	return f.Close()
}

func readableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func argError(format string, args ...any) error {
	return errors.Errorf("%w: "+format, append([]any{morph.ErrArgument}, args...)...)
}

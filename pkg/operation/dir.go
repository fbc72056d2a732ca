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

package operation

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📁 NewDirOperation creates the operation for four directory roots
func NewDirOperation(opts Options, roots Triple, exclude []string, jobs int) Operation {
	base := NewBaseOperation(opts)
	return &dirOperation{
		BaseOperation: base,
		roots:         roots,
		exclude:       exclude,
		runner:        NewRunner(base.Logger, jobs),
	}
}

type dirOperation struct {
	BaseOperation
	roots   Triple
	exclude []string
	runner  *OperationRunner
}

// 🏃 Execute runs one triple per relative path found under the source and target roots
func (op *dirOperation) Execute(ctx context.Context) error {
	logger := op.logger(ctx)

	files, err := Collect(ctx, op.exclude, op.roots.Source, op.roots.Target)
	if err != nil {
		return err
	}

	logger.Debug().Strs("files", files).Msg("handle files")

	ops := make([]Operation, 0, len(files))
	for _, rel := range files {
		native := filepath.FromSlash(rel)
		ops = append(ops, &progressOperation{
			Operation: NewTripleOperation(op.Options, Triple{
				Source: filepath.Join(op.roots.Source, native),
				Target: filepath.Join(op.roots.Target, native),
				Patch:  filepath.Join(op.roots.Patch, native),
				Out:    filepath.Join(op.roots.Out, native),
				Name:   rel,
			}),
			op: op,
		})
	}

	op.StatusMgr.StartOperation(ctx, len(ops))
	defer op.StatusMgr.FinishOperation(ctx)

	return op.runner.RunAll(ctx, ops)
}

type progressOperation struct {
	Operation
	op *dirOperation
}

func (p *progressOperation) Execute(ctx context.Context) error {
	defer p.op.StatusMgr.Advance(ctx)
	return p.Operation.Execute(ctx)
}

// 🔍 Collect returns the sorted union of the slash-separated relative file paths under roots.
// Hidden files and directories are skipped, as are paths matching an exclude pattern.
func Collect(ctx context.Context, exclude []string, roots ...string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	seen := map[string]struct{}{}

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if strings.HasPrefix(d.Name(), ".") || excluded(exclude, rel) {
				logger.Debug().Str("path", rel).Msg("skipping")
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.IsDir() {
				seen[rel] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walking %s: %w", root, err)
		}
	}

	files := make([]string, 0, len(seen))
	for rel := range seen {
		files = append(files, rel)
	}
	sort.Strings(files)
	return files, nil
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

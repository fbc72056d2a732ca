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

// Package morph projects the difference between a source and a target onto a patch-target.
package morph

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/diff"
	"github.com/walteh/diffmorpher/pkg/patch"
	"github.com/walteh/diffmorpher/pkg/reconcile"
	"github.com/walteh/diffmorpher/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📥 Input is one in-memory triple
type Input struct {
	Source []byte
	Target []byte
	Patch  []byte

	// Blank replaces every character of Patch except line endings with the fill rune before
	// reconciling. Set when the patch-target was substituted by the source.
	Blank bool
}

// ⚙️ Options configure the pipeline
type Options struct {
	Engine  string
	Margin  int
	Timeout time.Duration
	Force   bool
	Fill    rune
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Engine:  diff.EngineMyers,
		Margin:  patch.DefaultMargin,
		Timeout: time.Second,
		Fill:    reconcile.DefaultFill,
	}
}

// 📤 Result is the outcome of one Morph call
type Result struct {
	Output    []byte
	Copied    bool // binary or empty source, Output is the target verbatim
	Truncated int
	Padded    int
	Records   int
	Ops       int
}

// IsBinary reports whether in takes the full-copy path: an empty source, or a NUL byte in the
// sniffed prefix of any input.
func (in Input) IsBinary() bool {
	return len(in.Source) == 0 || text.IsBinary(in.Source) || text.IsBinary(in.Target) || text.IsBinary(in.Patch)
}

// 🔀 Morph applies the source→target difference to the patch-target of in.
//
// Returns ErrSizeMismatch when the patch-target length differs from the source and Force is off,
// and ErrLengthMismatch when the replayed buffer does not have the target length.
func Morph(ctx context.Context, in Input, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if in.IsBinary() {
		logger.Debug().Msg("binary or empty source detected, full target data copied")
		return &Result{Output: bytes.Clone(in.Target), Copied: true}, nil
	}

	source := text.Decode(in.Source)
	target := text.Decode(in.Target)
	working := text.Decode(in.Patch)

	fill := opts.Fill
	if fill == 0 {
		fill = reconcile.DefaultFill
	}

	if in.Blank {
		working = text.Blank(working, fill)
	}

	rec, err := reconcile.Reconcile(ctx, working, source.Len(), reconcile.Options{Force: opts.Force, Fill: fill})
	if err != nil {
		return nil, errors.Errorf("reconciling patch-target: %w", err)
	}

	differ, err := diff.New(opts.Engine, diff.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrArgument, err)
	}

	logger.Debug().
		Str("source", text.Preview(source.String(), text.PreviewWidth)).
		Int("source_len", source.Len()).
		Str("target", text.Preview(target.String(), text.PreviewWidth)).
		Int("target_len", target.Len()).
		Msg("diff")

	script := differ.Diff(ctx, source, target)
	records := patch.Builder{Margin: opts.Margin}.Build(script)
	out := patch.Apply(ctx, records, rec.Buffer)

	if out.Len() != target.Len() {
		return nil, errors.WithDetails(
			errors.Errorf("%w: target = %d, out = %d", ErrLengthMismatch, target.Len(), out.Len()),
			"target_len", target.Len(),
			"out_len", out.Len(),
		)
	}

	return &Result{
		Output:    out.Encode(),
		Truncated: rec.Truncated,
		Padded:    rec.Padded,
		Records:   len(records),
		Ops:       patch.CountOps(records),
	}, nil
}

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

// Package reconcile brings the patch-target buffer to the length of the source buffer.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrSizeMismatch is returned when the patch-target and source lengths differ and Force is off.
var ErrSizeMismatch = errors.Base("size mismatch")

// DefaultFill is the rune used for padding when none is configured.
const DefaultFill = ' '

// ⚙️ Options control how a length difference is handled
type Options struct {
	Force bool
	Fill  rune
}

// 📏 Result is a patch-target buffer of the source length
type Result struct {
	Buffer    text.Buffer
	Truncated int // runes removed from the end
	Padded    int // fill runes appended
}

// Reconcile returns patchTarget adjusted to sourceLen runes.
//
// Equal lengths pass through unchanged. Otherwise Force truncates or right-pads with Fill; without
// Force the result is an ErrSizeMismatch error carrying both lengths.
func Reconcile(ctx context.Context, patchTarget text.Buffer, sourceLen int, opts Options) (Result, error) {
	n := patchTarget.Len()
	if n == sourceLen {
		return Result{Buffer: patchTarget}, nil
	}

	if !opts.Force {
		return Result{}, errors.WithDetails(
			errors.Errorf("%w: patch-target has %d chars, source has %d chars", ErrSizeMismatch, n, sourceLen),
			"patch_len", n,
			"source_len", sourceLen,
		)
	}

	logger := zerolog.Ctx(ctx)

	if n > sourceLen {
		logger.Debug().Int("from", n).Int("to", sourceLen).Msgf("truncated %d chars", n-sourceLen)
		return Result{
			Buffer:    patchTarget[:sourceLen:sourceLen].Clone(),
			Truncated: n - sourceLen,
		}, nil
	}

	fill := opts.Fill
	if fill == 0 {
		fill = DefaultFill
	}

	out := make(text.Buffer, sourceLen)
	copy(out, patchTarget)
	for i := n; i < sourceLen; i++ {
		out[i] = fill
	}

	logger.Debug().Int("from", n).Int("to", sourceLen).Msgf("padded %d chars", sourceLen-n)
	return Result{Buffer: out, Padded: sourceLen - n}, nil
}

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

package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/diffmorpher/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name          string
		patchTarget   string
		sourceLen     int
		opts          Options
		want          string
		wantTruncated int
		wantPadded    int
		wantErr       bool
	}{
		{
			name:        "equal_lengths_pass_through",
			patchTarget: "HELLO",
			sourceLen:   5,
			want:        "HELLO",
		},
		{
			name:        "equal_lengths_ignore_force",
			patchTarget: "HELLO",
			sourceLen:   5,
			opts:        Options{Force: true, Fill: '#'},
			want:        "HELLO",
		},
		{
			name:        "longer_without_force",
			patchTarget: "HELLO WORLD",
			sourceLen:   5,
			wantErr:     true,
		},
		{
			name:        "shorter_without_force",
			patchTarget: "HI",
			sourceLen:   5,
			wantErr:     true,
		},
		{
			name:          "truncate_with_force",
			patchTarget:   "HELLO WORLD",
			sourceLen:     5,
			opts:          Options{Force: true},
			want:          "HELLO",
			wantTruncated: 6,
		},
		{
			name:        "pad_with_fill",
			patchTarget: "HI",
			sourceLen:   5,
			opts:        Options{Force: true, Fill: '.'},
			want:        "HI...",
			wantPadded:  3,
		},
		{
			name:        "pad_defaults_to_space",
			patchTarget: "HI",
			sourceLen:   4,
			opts:        Options{Force: true},
			want:        "HI  ",
			wantPadded:  2,
		},
		{
			name:        "pad_empty_patch_target",
			patchTarget: "",
			sourceLen:   3,
			opts:        Options{Force: true, Fill: '日'},
			want:        "日日日",
			wantPadded:  3,
		},
		{
			name:          "lengths_count_code_points",
			patchTarget:   "grüße",
			sourceLen:     4,
			opts:          Options{Force: true},
			want:          "grüß",
			wantTruncated: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := text.FromString(tt.patchTarget)
			got, err := Reconcile(context.Background(), input, tt.sourceLen, tt.opts)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSizeMismatch), "error should be a size mismatch")
				details := errors.AllDetails(err)
				assert.Equal(t, input.Len(), details["patch_len"])
				assert.Equal(t, tt.sourceLen, details["source_len"])
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Buffer.String())
			assert.Len(t, got.Buffer, tt.sourceLen)
			assert.Equal(t, tt.wantTruncated, got.Truncated)
			assert.Equal(t, tt.wantPadded, got.Padded)
			assert.Equal(t, tt.patchTarget, input.String(), "input should not be modified")
		})
	}
}

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
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/diffmorpher/pkg/log"
	"github.com/walteh/diffmorpher/pkg/morph"
	"github.com/walteh/diffmorpher/pkg/status"
	"github.com/walteh/diffmorpher/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func TestTripleOperation(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string // s, t, p and o are the four roles
		opts       func(o *Options)
		wantOut    string
		wantNoOut  bool
		wantStatus status.FileStatus
		wantErr    error
	}{
		{
			name:       "substitution",
			files:      map[string]string{"s": "abc", "t": "abd", "p": "abc"},
			wantOut:    "abd",
			wantStatus: status.StatusNew,
		},
		{
			name:       "insert_onto_patch_target",
			files:      map[string]string{"s": "hello world", "t": "hello there world", "p": "HELLO WORLD"},
			wantOut:    "HELLO there WORLD",
			wantStatus: status.StatusNew,
		},
		{
			name:       "overwrites_existing_output",
			files:      map[string]string{"s": "abc", "t": "abd", "p": "abc", "o": "old"},
			wantOut:    "abd",
			wantStatus: status.StatusModified,
		},
		{
			name:       "empty_source_with_absent_patch",
			files:      map[string]string{"s": "", "t": "new content"},
			opts:       func(o *Options) { o.Auto = true },
			wantOut:    "new content",
			wantStatus: status.StatusCopied,
		},
		{
			name:       "absent_source_under_auto",
			files:      map[string]string{"t": "fresh", "p": "whatever"},
			opts:       func(o *Options) { o.Auto = true },
			wantOut:    "fresh",
			wantStatus: status.StatusCopied,
		},
		{
			name:       "absent_target_removes_output",
			files:      map[string]string{"s": "abc", "p": "abc", "o": "stale"},
			opts:       func(o *Options) { o.Auto = true },
			wantNoOut:  true,
			wantStatus: status.StatusDeleted,
		},
		{
			name:       "absent_target_without_output",
			files:      map[string]string{"s": "abc", "p": "abc"},
			opts:       func(o *Options) { o.Auto = true },
			wantNoOut:  true,
			wantStatus: status.StatusSkipped,
		},
		{
			name:       "absent_patch_is_blanked_source",
			files:      map[string]string{"s": "ab\ncd", "t": "ab\ncX"},
			opts:       func(o *Options) { o.Auto = true; o.Morph.Fill = '.' },
			wantOut:    "..\n.X",
			wantStatus: status.StatusNew,
		},
		{
			name:       "size_mismatch_without_force",
			files:      map[string]string{"s": "abc", "t": "abd", "p": "abcdef"},
			wantNoOut:  true,
			wantStatus: status.StatusFailed,
			wantErr:    morph.ErrSizeMismatch,
		},
		{
			name:       "size_mismatch_with_force",
			files:      map[string]string{"s": "abc", "t": "abd", "p": "ab"},
			opts:       func(o *Options) { o.Morph.Force = true; o.Morph.Fill = '_' },
			wantOut:    "abd",
			wantStatus: status.StatusNew,
		},
		{
			name:       "missing_patch_without_auto",
			files:      map[string]string{"s": "abc", "t": "abd"},
			wantNoOut:  true,
			wantStatus: status.StatusFailed,
			wantErr:    morph.ErrUnreadableInput,
		},
		{
			name:       "ignore_identical_inputs",
			files:      map[string]string{"s": "same", "t": "same", "p": "SAME"},
			opts:       func(o *Options) { o.Ignore = true },
			wantNoOut:  true,
			wantStatus: status.StatusIgnored,
		},
		{
			name:       "identical_inputs_without_ignore",
			files:      map[string]string{"s": "same", "t": "same", "p": "SAME"},
			wantOut:    "SAME",
			wantStatus: status.StatusNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutils.WriteTree(t, dir, tt.files)

			mgr := status.New(dir, nil)
			opts := Options{Morph: morph.DefaultOptions(), StatusMgr: mgr}
			if tt.opts != nil {
				tt.opts(&opts)
			}

			triple := Triple{
				Source: filepath.Join(dir, "s"),
				Target: filepath.Join(dir, "t"),
				Patch:  filepath.Join(dir, "p"),
				Out:    filepath.Join(dir, "o"),
				Name:   "o",
			}

			err := NewTripleOperation(opts, triple).Execute(testutils.LoggerContext(t))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			got, exists := testutils.ReadFile(t, triple.Out)
			if tt.wantNoOut {
				if _, had := tt.files["o"]; !had || tt.wantStatus == status.StatusDeleted {
					assert.False(t, exists, "output should not exist")
				}
			} else {
				require.True(t, exists, "output should exist")
				assert.Equal(t, tt.wantOut, got)
			}

			files := mgr.ListFiles(context.Background())
			require.Len(t, files, 1)
			assert.Equal(t, "o", files[0].Path)
			assert.Equal(t, tt.wantStatus, files[0].Status)
		})
	}
}

func TestTripleOperationCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"s": "abc", "t": "abd", "p": "xyz"})

	out := filepath.Join(dir, "deep", "er", "out.txt")
	err := NewTripleOperation(Options{Morph: morph.DefaultOptions()}, Triple{
		Source: filepath.Join(dir, "s"),
		Target: filepath.Join(dir, "t"),
		Patch:  filepath.Join(dir, "p"),
		Out:    out,
	}).Execute(context.Background())
	require.NoError(t, err)

	got, exists := testutils.ReadFile(t, out)
	require.True(t, exists)
	assert.Equal(t, "xyd", got)
}

func TestTripleOperationLogsFileLine(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"s": "abc", "t": "abd", "p": "abc"})

	var console, events bytes.Buffer
	zlog := zerolog.New(&events).Level(zerolog.DebugLevel)
	ctx := zlog.WithContext(context.Background())
	ctx = log.NewContext(ctx, log.New(&console, zlog))

	err := NewTripleOperation(Options{Morph: morph.DefaultOptions()}, Triple{
		Source: filepath.Join(dir, "s"),
		Target: filepath.Join(dir, "t"),
		Patch:  filepath.Join(dir, "p"),
		Out:    filepath.Join(dir, "o"),
		Name:   "o",
	}).Execute(ctx)
	require.NoError(t, err)

	assert.Contains(t, console.String(), "✓ o ")
	assert.Contains(t, console.String(), "1 records, 3 ops")
	assert.Contains(t, events.String(), `"file":"o"`)
	assert.Contains(t, events.String(), `"message":"deleted 1 chars @2"`)
}

func TestTripleOperationTracesAbsentInputs(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"t": "fresh"})

	var events bytes.Buffer
	ctx := zerolog.New(&events).Level(zerolog.DebugLevel).WithContext(context.Background())

	err := NewTripleOperation(Options{Morph: morph.DefaultOptions(), Auto: true}, Triple{
		Source: filepath.Join(dir, "s"),
		Target: filepath.Join(dir, "t"),
		Patch:  filepath.Join(dir, "p"),
		Out:    filepath.Join(dir, "o"),
		Name:   "o",
	}).Execute(ctx)
	require.NoError(t, err)

	var absent []string
	for _, line := range strings.Split(strings.TrimSpace(events.String()), "\n") {
		if strings.Contains(line, `"message":"input absent"`) {
			absent = append(absent, line)
		}
	}
	require.Len(t, absent, 2, "source and patch should be traced as absent")
	for _, line := range absent {
		assert.Contains(t, line, `"file":"o"`)
	}
	assert.Contains(t, absent[0], filepath.Join(dir, "s"))
	assert.Contains(t, absent[1], filepath.Join(dir, "p"))
}

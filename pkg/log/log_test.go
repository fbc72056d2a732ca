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

package log

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/diffmorpher/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:    "test.txt",
					Status:  status.StatusNew,
					Records: 2,
					Ops:     5,
				})
			},
			wantLogs: []string{
				fmt.Sprintf("✓ %-35s %-10s %s", "test.txt", "new", "2 records, 5 ops"),
			},
		},
		{
			name: "log_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{
					Source: "src",
					Target: "tgt",
					Patch:  "patch",
					Out:    "out",
					Dirs:   true,
				})
				logger.EndBatch(context.Background())
			},
			wantLogs: []string{
				"[morphing out]",
				"◆ src → tgt • patch",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("morphing directories")
			},
			wantLogs: []string{
				"diffmorpher • morphing directories",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(&bytes.Buffer{}, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a discarding one")
	fallback.Info("dropped")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_file",
			op:   FileOperation{Path: "a.txt", Status: status.StatusNew, Records: 1, Ops: 3},
			want: fmt.Sprintf("✓ %-35s %-10s %s", "a.txt", "new", "1 records, 3 ops"),
		},
		{
			name: "modified_with_truncation",
			op:   FileOperation{Path: "a.txt", Status: status.StatusModified, Records: 1, Ops: 2, Truncated: 4},
			want: fmt.Sprintf("⟳ %-35s %-10s %s", "a.txt", "modified", "1 records, 2 ops, truncated 4"),
		},
		{
			name: "unchanged_with_padding",
			op:   FileOperation{Path: "a.txt", Status: status.StatusUnchanged, Padded: 2},
			want: fmt.Sprintf("- %-35s %-10s %s", "a.txt", "unchanged", "0 records, 0 ops, padded 2"),
		},
		{
			name: "removed_file",
			op:   FileOperation{Path: "gone.txt", Status: status.StatusDeleted},
			want: strings.TrimSpace(fmt.Sprintf("✗ %-35s %-10s", "gone.txt", "deleted")),
		},
		{
			name: "copied_file",
			op:   FileOperation{Path: "img.png", Status: status.StatusCopied},
			want: strings.TrimSpace(fmt.Sprintf("• %-35s %-10s", "img.png", "copied")),
		},
		{
			name: "ignored_file",
			op:   FileOperation{Path: "same.txt", Status: status.StatusIgnored},
			want: strings.TrimSpace(fmt.Sprintf("- %-35s %-10s", "same.txt", "ignored")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
			assert.Equal(t, []FileOperation{tt.op}, logger.Operations())
		})
	}
}

func TestLoggerMirrorsToZerolog(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var events bytes.Buffer
	logger := New(&bytes.Buffer{}, zerolog.New(&events).Level(zerolog.DebugLevel))

	logger.LogFileOperation(context.Background(), FileOperation{Path: "x.txt", Status: status.StatusNew, Records: 1, Ops: 2})

	assert.Contains(t, events.String(), `"file":"x.txt","status":"new","records":1,"ops":2`)
}

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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/morph"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the outcome of processing one output file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // Output did not exist and was written
	StatusModified             // Output existed with different content
	StatusUnchanged            // Output existed with the same content
	StatusDeleted              // Target absent, output removed
	StatusIgnored              // Source and target identical, nothing written
	StatusCopied               // Binary or empty source, target copied verbatim
	StatusSkipped              // Target absent and no output to remove
	StatusFailed               // Processing failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusDeleted:
		return "deleted"
	case StatusIgnored:
		return "ignored"
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains the result for one output file
type FileInfo struct {
	Path      string     // Path relative to the manager base directory
	Status    FileStatus // Outcome
	Size      int64      // Bytes written
	Checksum  string     // SHA-256 of the written content
	Records   int        // Patch records applied
	Ops       int        // Edit operations applied
	Truncated int        // Chars truncated from the patch-target
	Padded    int        // Chars padded onto the patch-target
	Error     error      // Any error associated with this file
}

// 💾 FileManager handles output file system operations
type FileManager interface {
	WriteFile(ctx context.Context, path string, content []byte) (FileStatus, error)
	DeleteFile(ctx context.Context, path string) error
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	Advance(ctx context.Context)
	FinishOperation(ctx context.Context)
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string          // Base directory for relative paths
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

// 🏭 New creates a new status manager. Relative paths are resolved against baseDir; absolute
// paths are used as given.
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// 🔒 getAbsPath returns the path on disk for a given path
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// WriteFile writes content atomically, creating parent directories first. The returned status
// compares the new content with what was on disk.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) (FileStatus, error) {
	absPath := m.getAbsPath(path)

	if err := m.CreateDir(ctx, filepath.Dir(absPath)); err != nil {
		return StatusFailed, err
	}

	st := StatusNew
	if prev, err := os.ReadFile(absPath); err == nil {
		st = StatusModified
		if Checksum(prev) == Checksum(content) {
			st = StatusUnchanged
		}
	}

	if err := m.WriteFileAtomic(ctx, absPath, content); err != nil {
		return StatusFailed, err
	}

	return st, nil
}

// WriteFileAtomic writes content to a uniquely named hidden temp file next to path and renames
// it into place. The temp file is removed on any failure.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*")
	if err != nil {
		return writeFailure(absPath, "creating temp file", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return writeFailure(absPath, "writing temp file", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return writeFailure(absPath, "setting temp file mode", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return writeFailure(absPath, "closing temp file", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return writeFailure(absPath, "renaming temp file", err)
	}

	m.logger.Debug().Str("path", absPath).Int("bytes", len(content)).Msg("file written")
	return nil
}

func (m *Manager) DeleteFile(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)
	if err := os.Remove(absPath); err != nil {
		return writeFailure(absPath, "failed to remove", err)
	}
	m.logger.Debug().Str("path", absPath).Msg("file removed")
	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// CreateDir creates path and any missing parents.
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	absPath := m.getAbsPath(path)
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return writeFailure(absPath, "failed to create dir", err)
	}
	m.logger.Debug().Str("path", absPath).Msg("dir created")
	return nil
}

func writeFailure(path, msg string, err error) error {
	return errors.WithDetails(
		errors.Errorf("%w: %s %s: %s", morph.ErrWriteFailure, msg, path, err),
		"path", path,
	)
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	msg := m.formatter.FormatFileOperation(info.Path, info.Status)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().Str("path", info.Path).Str("status", info.Status.String()).Msg(msg)
}

// ListFiles returns the tracked files sorted by path.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Summary counts the tracked files per status.
func (m *Manager) Summary(ctx context.Context) map[FileStatus]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[FileStatus]int)
	for _, info := range m.files {
		out[info.Status]++
	}
	return out
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

// Advance marks one more file as processed.
func (m *Manager) Advance(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Progress returns the processed and total counts.
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

// Package testutils holds helpers shared by the package tests.
package testutils

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// WriteTree writes each slash-separated relative path with its content below dir, creating
// parent directories as needed.
func WriteTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent of %s", name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing %s", name)
	}
}

// ReadTree returns the content of every regular file below dir keyed by slash-separated
// relative path. A missing dir yields an empty map.
func ReadTree(t testing.TB, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return out
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err, "reading tree %s", dir)
	return out
}

// ReadFile returns the content of path and whether it exists.
func ReadFile(t testing.TB, path string) (string, bool) {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(t, err, "reading %s", path)
	return string(data), true
}

// LoggerContext returns a context carrying a debug level logger that writes to the test log.
func LoggerContext(t testing.TB) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

package doublon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file with the given content under dir and returns its
// path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// mustRecord stats path into a record, failing the test on error.
func mustRecord(t *testing.T, path string) *Record {
	t.Helper()

	rec, err := NewRecord(path)
	require.NoError(t, err)

	return rec
}

// touch sets both timestamps of path.
func touch(t *testing.T, path string, when time.Time) {
	t.Helper()

	require.NoError(t, os.Chtimes(path, when, when))
}

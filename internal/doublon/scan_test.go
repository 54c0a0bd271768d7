package doublon

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFindsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "aaa")
	writeFile(t, dir, "nested/deep/file.txt", "bbbb")
	writeFile(t, dir, "nested/other.md", "ccccc")

	records, err := Scan(context.Background(), dir, ScanOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	}), "records must be sorted by path")

	byName := make(map[string]*Record, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}

	require.Contains(t, byName, "file.txt")
	assert.Equal(t, int64(4), byName["file.txt"].Size)
	assert.False(t, byName["file.txt"].ModTime.IsZero())
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), ScanOptions{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accessing path")
}

func TestScanRootIsNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "f.txt", "x")

	_, err := Scan(context.Background(), file, ScanOptions{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestScanExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kept.txt", "x")
	writeFile(t, dir, ".git/config", "x")
	writeFile(t, dir, "node_modules/pkg/index.js", "x")
	writeFile(t, dir, "build/out.log", "x")

	records, err := Scan(context.Background(), dir, ScanOptions{
		Excludes: []string{`.*\.git/.*`, `.*node_modules/.*`, `.*build/.*`},
	}, nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "kept.txt", records[0].Name)
}

func TestScanInvalidExcludePattern(t *testing.T) {
	_, err := Scan(context.Background(), t.TempDir(), ScanOptions{Excludes: []string{"("}}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling exclusion pattern")
}

func TestScanMinSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.txt", "123")
	writeFile(t, dir, "large.txt", "1234567890")

	records, err := Scan(context.Background(), dir, ScanOptions{MinSize: 5}, nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "large.txt", records[0].Name)
}

func TestScanEmptyRoot(t *testing.T) {
	records, err := Scan(context.Background(), t.TempDir(), ScanOptions{}, nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, dir, ScanOptions{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

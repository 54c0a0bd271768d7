package doublon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveDuplicates(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "keep.txt", "content")
	dup1 := mustRecord(t, writeFile(t, dir, "dup1.txt", "content"))
	dup2 := mustRecord(t, writeFile(t, dir, "dup2.txt", "content"))

	res := RemoveDuplicates([]*Record{dup1, dup2})

	assert.Equal(t, []string{dup1.Path, dup2.Path}, res.Removed)
	assert.Empty(t, res.Failed)

	assert.NoFileExists(t, dup1.Path)
	assert.NoFileExists(t, dup2.Path)
	assert.FileExists(t, keep)
}

func TestRemoveDuplicatesContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	failing := mustRecord(t, writeFile(t, dir, "failing.txt", "content"))
	ok := mustRecord(t, writeFile(t, dir, "ok.txt", "content"))

	orig := removeFunc
	t.Cleanup(func() { removeFunc = orig })

	removeFunc = func(path string) error {
		if path == failing.Path {
			return errors.New("permission denied")
		}

		return os.Remove(path)
	}

	res := RemoveDuplicates([]*Record{failing, ok})

	assert.Equal(t, []string{ok.Path}, res.Removed)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, failing.Path, res.Failed[0].Path)
	assert.Contains(t, res.Failed[0].Reason, "permission denied")
	assert.FileExists(t, failing.Path)
}

func TestRepatriateCopiesUniques(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	unique := mustRecord(t, writeFile(t, dir2, "fresh.txt", "new content"))

	res := Repatriate(dir1, []*Record{unique}, nil)

	want := filepath.Join(dir1, "fresh.txt")
	assert.Equal(t, []string{want}, res.Copied)
	assert.Empty(t, res.Kept)
	assert.Empty(t, res.Failed)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestRepatriateNewerSourceWinsConflict(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	old := writeFile(t, dir1, "report.txt", "january version")
	touch(t, old, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	fresh := writeFile(t, dir2, "report.txt", "june version!!!")
	touch(t, fresh, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	existing := mustRecord(t, old)
	unique := mustRecord(t, fresh)

	res := Repatriate(dir1, []*Record{unique}, []*Record{existing})

	require.Len(t, res.Copied, 1)
	assert.Empty(t, res.Kept)

	data, err := os.ReadFile(filepath.Join(dir1, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "june version!!!", string(data))
}

func TestRepatriateOlderSourceLosesConflict(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	fresh := writeFile(t, dir1, "report.txt", "june version!!!")
	touch(t, fresh, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	old := writeFile(t, dir2, "report.txt", "january version")
	touch(t, old, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	existing := mustRecord(t, fresh)
	unique := mustRecord(t, old)

	res := Repatriate(dir1, []*Record{unique}, []*Record{existing})

	assert.Empty(t, res.Copied)
	assert.Equal(t, []string{unique.Path}, res.Kept)

	data, err := os.ReadFile(filepath.Join(dir1, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "june version!!!", string(data))
}

func TestRepatriateEqualTimestampsKeepDestination(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	when := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	dst := writeFile(t, dir1, "report.txt", "destination")
	touch(t, dst, when)

	src := writeFile(t, dir2, "report.txt", "source.....")
	touch(t, src, when)

	res := Repatriate(dir1, []*Record{mustRecord(t, src)}, []*Record{mustRecord(t, dst)})

	assert.Empty(t, res.Copied)
	assert.Len(t, res.Kept, 1)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "destination", string(data))
}

func TestRepatriateSameNameUniquesResolveByRecency(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	// Two uniques share a base name; dir1 has no file of that name. The
	// newer one must hold the destination regardless of batch order.
	fresh := writeFile(t, dir2, "a/report.txt", "june version!!!")
	touch(t, fresh, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	old := writeFile(t, dir2, "b/report.txt", "january version")
	touch(t, old, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	// Newer first: the older unique must not overwrite it.
	res := Repatriate(dir1, []*Record{mustRecord(t, fresh), mustRecord(t, old)}, nil)

	assert.Equal(t, []string{filepath.Join(dir1, "report.txt")}, res.Copied)
	assert.Equal(t, []string{old}, res.Kept)

	data, err := os.ReadFile(filepath.Join(dir1, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "june version!!!", string(data))

	// Older first: the newer unique must win the name back.
	other := t.TempDir()
	res = Repatriate(other, []*Record{mustRecord(t, old), mustRecord(t, fresh)}, nil)

	assert.Empty(t, res.Kept)
	assert.Len(t, res.Copied, 2)

	data, err = os.ReadFile(filepath.Join(other, "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "june version!!!", string(data))
}

func TestRepatriateContinuesOnFailure(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	failing := mustRecord(t, writeFile(t, dir2, "failing.txt", "a"))
	ok := mustRecord(t, writeFile(t, dir2, "ok.txt", "b"))

	orig := copyFunc
	t.Cleanup(func() { copyFunc = orig })

	copyFunc = func(src, dst string) error {
		if src == failing.Path {
			return errors.New("disk full")
		}

		return copyFile(src, dst)
	}

	res := Repatriate(dir1, []*Record{failing, ok}, nil)

	assert.Equal(t, []string{filepath.Join(dir1, "ok.txt")}, res.Copied)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, failing.Path, res.Failed[0].Path)
	assert.Contains(t, res.Failed[0].Reason, "disk full")
}

func TestActionErrorExtraction(t *testing.T) {
	err := &ActionError{Op: "delete", Path: "/x", Err: os.ErrPermission}

	assert.True(t, IsActionError(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, IsActionError(os.ErrNotExist))
}

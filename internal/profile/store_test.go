package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStore_ListFiltersEntries(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "balanced.conf"), "A=1")
	writeFile(t, filepath.Join(dir, "quiet.conf"), "A=2")
	writeFile(t, filepath.Join(dir, "notes.txt"), "A=3")
	writeFile(t, filepath.Join(dir, "backup.conf.bak"), "A=4")
	writeFile(t, filepath.Join(dir, ".conf"), "A=5")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.conf"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "quiet.conf"), filepath.Join(dir, "linked.conf")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling.conf")))

	set, err := NewStore(dir, "").List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"balanced", "linked", "quiet"}, set.IDs())

	d, ok := set.Find("quiet")
	require.True(t, ok)
	assert.Equal(t, "quiet", d.DisplayName)
	assert.Equal(t, filepath.Join(dir, "quiet.conf"), d.SourcePath)

	_, ok = set.Find("notes")
	assert.False(t, ok)
}

func TestStore_ListSortsWithCollation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Zebra", "apple", "banana", "Äpfel"} {
		writeFile(t, filepath.Join(dir, name+".conf"), "A=1")
	}

	set, err := NewStore(dir, "").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Äpfel", "apple", "banana", "Zebra"}, set.IDs(), "root collation ignores case and accents at the primary level")

	set, err = NewStore(dir, "sv").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "Zebra", "Äpfel"}, set.IDs(), "Swedish sorts Ä after Z")
}

func TestStore_ListCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profiles")

	set, err := NewStore(dir, "").List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on the second call.
	_, err = NewStore(dir, "").List(context.Background())
	assert.NoError(t, err)
}

func TestStore_ListDirectoryUnavailable(t *testing.T) {
	// A regular file where the directory should be cannot be created or read.
	path := filepath.Join(t.TempDir(), "profiles")
	writeFile(t, path, "not a directory")

	set, err := NewStore(path, "").List(context.Background())
	require.Error(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set)
	assert.Equal(t, KindDirectoryUnavailable, KindOf(err))
}

func TestStore_ListCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := NewStore(t.TempDir(), "").List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, set)
}

func TestStore_InvalidLocaleFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.conf"), "A=1")
	writeFile(t, filepath.Join(dir, "a.conf"), "A=1")

	set, err := NewStore(dir, "!!").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.IDs())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindNone, KindOf(os.ErrNotExist))

	err := &Error{Kind: KindApplyFailed, Err: os.ErrPermission}
	assert.Equal(t, KindApplyFailed, KindOf(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "ApplyFailed: permission denied", err.Error())
}

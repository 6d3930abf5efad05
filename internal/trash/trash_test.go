package trash

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Override(t *testing.T) {
	tr, err := New("/tmp/custom-trash")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-trash", tr.Dir)
	assert.Empty(t, tr.InfoDir)
}

func TestNew_XDG(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("freedesktop layout is not used on macOS")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)
	tr, err := New("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Trash", "files"), tr.Dir)
	assert.Equal(t, filepath.Join(base, "Trash", "info"), tr.InfoDir)
}

func TestMoveToTrash_Directory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "combined")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.mp4"), []byte("a"), 0o644))

	tr := &Trash{Dir: filepath.Join(root, "trash")}
	dst, err := tr.MoveToTrash(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "trash", "combined"), dst)
	assert.NoDirExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "a.mp4"))
}

func TestMoveToTrash_NameCollision(t *testing.T) {
	root := t.TempDir()
	trashDir := filepath.Join(root, "trash")
	require.NoError(t, os.MkdirAll(filepath.Join(trashDir, "combined"), 0o755))

	src := filepath.Join(root, "combined")
	require.NoError(t, os.MkdirAll(src, 0o755))

	tr := &Trash{Dir: trashDir}
	dst, err := tr.MoveToTrash(src)
	require.NoError(t, err)

	assert.NotEqual(t, filepath.Join(trashDir, "combined"), dst)
	assert.True(t, strings.HasPrefix(filepath.Base(dst), "combined "), dst)
	assert.DirExists(t, dst)
}

func TestMoveToTrash_WritesTrashInfo(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "my clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	tr := &Trash{
		Dir:     filepath.Join(root, "Trash", "files"),
		InfoDir: filepath.Join(root, "Trash", "info"),
		now:     func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) },
	}
	_, err := tr.MoveToTrash(src)
	require.NoError(t, err)

	info, err := os.ReadFile(filepath.Join(root, "Trash", "info", "my clip.mp4.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "[Trash Info]\n")
	assert.Contains(t, string(info), "my%20clip.mp4\n")
	assert.Contains(t, string(info), "DeletionDate=2026-10-17T09:30:00\n")
}

func TestMoveToTrash_Missing(t *testing.T) {
	tr := &Trash{Dir: t.TempDir()}
	_, err := tr.MoveToTrash(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

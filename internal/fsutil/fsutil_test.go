package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "a.mp4"), UniquePath(dir, "a.mp4"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), nil, 0o644))
	got := UniquePath(dir, "a.mp4")
	assert.NotEqual(t, filepath.Join(dir, "a.mp4"), got)
	assert.True(t, strings.HasPrefix(filepath.Base(got), "a "))
	assert.Equal(t, ".mp4", filepath.Ext(got))
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.mp4"), []byte("bb"), 0o644))

	dst := filepath.Join(root, "dst")
	require.NoError(t, copyTree(src, dst))
	b, err := os.ReadFile(filepath.Join(dst, "nested", "b.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "bb", string(b))
}

func TestMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.mp4")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	dst := filepath.Join(root, "combined", "a.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	require.NoError(t, Move(src, dst))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	assert.Error(t, Move(src, dst), "moving a missing file fails")
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in.mp4")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	dst := filepath.Join(root, "out.mp4")
	require.NoError(t, os.WriteFile(dst, []byte("old content that is longer"), 0o644))

	require.NoError(t, CopyFile(src, dst, 0o644))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))
}

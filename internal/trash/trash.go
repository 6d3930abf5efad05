// Package trash moves files and directories to the user's trash instead of
// deleting them: ~/.Trash on macOS, the freedesktop.org trash elsewhere.
package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/backmassage/vconcat/internal/fsutil"
)

// Mover moves a path to the trash and returns where it ended up.
type Mover interface {
	MoveToTrash(path string) (string, error)
}

// Trash is a trash location. When InfoDir is set (freedesktop layout) a
// .trashinfo file is written next to every trashed entry so desktop file
// managers can restore it.
type Trash struct {
	Dir     string
	InfoDir string
	now     func() time.Time
}

// New returns the trash for the current platform, or a plain directory
// when override is non-empty.
func New(override string) (*Trash, error) {
	if override != "" {
		return &Trash{Dir: override, now: time.Now}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "locate home directory")
	}
	if runtime.GOOS == "darwin" {
		return &Trash{Dir: filepath.Join(home, ".Trash"), now: time.Now}, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(home, ".local", "share")
	}
	return &Trash{
		Dir:     filepath.Join(base, "Trash", "files"),
		InfoDir: filepath.Join(base, "Trash", "info"),
		now:     time.Now,
	}, nil
}

// MoveToTrash moves path into the trash. A name already present in the
// trash gets a short unique suffix.
func (t *Trash) MoveToTrash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", path)
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", errors.Wrapf(err, "trash %s", path)
	}
	if err := os.MkdirAll(t.Dir, 0o700); err != nil {
		return "", errors.Wrap(err, "create trash directory")
	}
	dst := fsutil.UniquePath(t.Dir, filepath.Base(abs))

	if t.InfoDir != "" {
		if err := t.writeInfo(abs, filepath.Base(dst)); err != nil {
			return "", err
		}
	}
	if err := fsutil.Move(abs, dst); err != nil {
		if t.InfoDir != "" {
			os.Remove(filepath.Join(t.InfoDir, filepath.Base(dst)+".trashinfo"))
		}
		return "", err
	}
	return dst, nil
}

func (t *Trash) writeInfo(original, name string) error {
	if err := os.MkdirAll(t.InfoDir, 0o700); err != nil {
		return errors.Wrap(err, "create trash info directory")
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: original}).EscapedPath(),
		now().Format("2006-01-02T15:04:05"))
	path := filepath.Join(t.InfoDir, name+".trashinfo")
	if err := os.WriteFile(path, []byte(info), 0o600); err != nil {
		return errors.Wrap(err, "write trash info")
	}
	return nil
}

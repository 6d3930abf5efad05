package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"github.com/samber/lo"

	"github.com/backmassage/vconcat/internal/config"
)

// Discover lists the regular files directly inside dir whose extension is
// ext (case-insensitive, without the dot) and returns their absolute paths
// in the requested order. Subdirectories are not searched.
func Discover(dir, ext string, order config.SortMode) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	want := "." + config.NormalizeExt(ext)
	var files []string
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), want) {
			continue
		}
		path := filepath.Join(abs, e.Name())
		// Stat follows symlinks so linked clips are picked up.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	if order == config.SortNatural {
		natsort.Sort(files)
	} else {
		sort.Strings(files)
	}
	return files, nil
}

// Exclude drops every path in skip from files. Empty entries in skip are
// ignored. Paths are compared after filepath.Clean.
func Exclude(files []string, skip ...string) []string {
	skip = lo.FilterMap(skip, func(p string, _ int) (string, bool) {
		return filepath.Clean(p), p != ""
	})
	if len(skip) == 0 {
		return files
	}
	return lo.Without(files, skip...)
}

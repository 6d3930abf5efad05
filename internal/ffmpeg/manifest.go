package ffmpeg

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// FormatConcatList renders the concat demuxer manifest: one
// "file '<path>'" line per entry. Single quotes inside a path are closed,
// escaped and reopened ('\'') as the demuxer's quoting rules require.
func FormatConcatList(files []string) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(f, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// WriteConcatList writes the manifest for files to path.
func WriteConcatList(path string, files []string) error {
	if len(files) == 0 {
		return errors.New("concat list is empty")
	}
	if err := os.WriteFile(path, []byte(FormatConcatList(files)), 0o644); err != nil {
		return errors.Wrap(err, "write concat list")
	}
	return nil
}

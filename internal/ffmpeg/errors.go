package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg output into a short hint for
// the log. Checked in order by [Hint]; the first match wins.
var hintRules = []struct {
	re   *regexp.Regexp
	hint string
}{
	{regexp.MustCompile(`No such file or directory`),
		"an input file is missing or unreadable"},
	{regexp.MustCompile(`Invalid data found when processing input|moov atom not found`),
		"an input is not a readable media file"},
	{regexp.MustCompile(`No such filter|Filter not found`),
		"this ffmpeg build lacks a required filter (run --check)"},
	{regexp.MustCompile(`Unknown encoder|Encoder not found`),
		"this ffmpeg build lacks the configured encoder (run --check)"},
	{regexp.MustCompile(`Stream specifier '[^']*' in filtergraph description .* matches no streams|matches no streams`),
		"an input has no stream of the requested type (e.g. no audio)"},
	{regexp.MustCompile(`Unsafe file name`),
		"the concat manifest contains a path ffmpeg refuses"},
	{regexp.MustCompile(`(?i)Non-monotonous DTS|non monotonically increasing dts`),
		"inputs have inconsistent timestamps; try --concat-mode=reencode"},
	{regexp.MustCompile(`(?i)Could not find tag for codec|codec not currently supported in container`),
		"the output container cannot hold these codecs; change --dest extension"},
}

// Hint returns a one-line explanation for a failed ffmpeg run, or "" when
// the output matches no known failure.
func Hint(output string) string {
	for _, r := range hintRules {
		if r.re.MatchString(output) {
			return r.hint
		}
	}
	return ""
}

// Tail returns the last n non-empty lines of output.
func Tail(output string, n int) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

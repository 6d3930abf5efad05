// Package config holds runtime configuration: defaults, CLI flag parsing,
// environment and config-file overrides, and validation.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// --- Enum types for validated string fields ---

// AudioMode selects how an external audio file is combined with the video.
type AudioMode string

const (
	AudioMix   AudioMode = "mix"   // Mix with the existing track (default).
	AudioForce AudioMode = "force" // Replace the existing track.
)

// ConcatMode selects how the concat demuxer output is written.
type ConcatMode string

const (
	ConcatCopy     ConcatMode = "copy"     // Stream copy (default).
	ConcatReencode ConcatMode = "reencode" // Re-encode video and audio.
)

// SortMode selects the input ordering.
type SortMode string

const (
	SortName    SortMode = "name"    // Lexicographic by file name (default).
	SortNatural SortMode = "natural" // Natural order: clip2 before clip10.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultFadeSeconds is used when --fadeout is given without a value.
const DefaultFadeSeconds = 3.0

// Config holds all runtime settings. It is populated by [DefaultConfig],
// [LoadEnv], [ParseFlags] and [LoadFile] before being passed (by pointer)
// to packages that need it.
type Config struct {
	// Inputs and output.
	SrcDir  string // Default: ".".
	Target  string // File extension without dot. Default: "mp4".
	Dest    string // Default: "concat.mp4".
	WorkDir string // Default: "temp_concat_work".

	// Per-file and trailer processing.
	Strict  string // "WxH"; empty disables resizing.
	Inpose  string // Transparent overlay image.
	Trailer string // Video appended after the inputs.

	// Audio.
	Audio     string
	AudioMode AudioMode // Default: "mix".
	Shortest  bool

	// Post-processing.
	Normalize   bool
	FadeSeconds float64 // 0 disables the fade-out.

	// Cleanup.
	Remove bool
	Clean  bool

	// Behavior.
	ConcatMode ConcatMode // Default: "copy".
	SortMode   SortMode   // Default: "name".
	DryRun     bool
	FailFast   bool

	// Encoder settings used whenever a stage re-encodes.
	VideoCodec   string // Default: "libx264".
	CRF          int    // Default: 20.
	Preset       string // Default: "medium".
	PixFmt       string // Default: "yuv420p".
	AudioCodec   string // Default: "aac".
	AudioBitrate string // Default: "192k".

	// Loudness targets for --normalize (EBU R128 defaults).
	LoudnessI   float64 // Default: -23 LUFS.
	LoudnessLRA float64 // Default: 7 LU.
	LoudnessTP  float64 // Default: -2 dBTP.

	// External tools and locations.
	FFmpegBin  string // Default: "ffmpeg". Env: VCONCAT_FFMPEG.
	FFprobeBin string // Default: "ffprobe". Env: VCONCAT_FFPROBE.
	TrashDir   string // Optional override. Env: VCONCAT_TRASH_DIR.

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string
	ConfigFile string
	CheckOnly  bool
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SrcDir:       ".",
		Target:       "mp4",
		Dest:         "concat.mp4",
		WorkDir:      "temp_concat_work",
		AudioMode:    AudioMix,
		ConcatMode:   ConcatCopy,
		SortMode:     SortName,
		VideoCodec:   "libx264",
		CRF:          20,
		Preset:       "medium",
		PixFmt:       "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		LoudnessI:    -23,
		LoudnessLRA:  7,
		LoudnessTP:   -2,
		FFmpegBin:    "ffmpeg",
		FFprobeBin:   "ffprobe",
		ColorMode:    ColorAuto,
	}
}

// Validate checks enum fields, the --strict resolution and numeric ranges.
// It also canonicalizes Target (lowercase, no leading dot).
func (c *Config) Validate() error {
	switch c.AudioMode {
	case AudioMix, AudioForce:
	default:
		return errors.Newf("invalid audio mode %q (use 'mix' or 'force')", c.AudioMode)
	}

	switch c.ConcatMode {
	case ConcatCopy, ConcatReencode:
	default:
		return errors.Newf("invalid concat mode %q (use 'copy' or 'reencode')", c.ConcatMode)
	}

	switch c.SortMode {
	case SortName, SortNatural:
	default:
		return errors.Newf("invalid sort mode %q (use 'name' or 'natural')", c.SortMode)
	}

	c.Target = NormalizeExt(c.Target)
	if c.Target == "" {
		return errors.New("target extension must not be empty")
	}
	if c.Strict != "" {
		if _, _, err := ParseResolution(c.Strict); err != nil {
			return err
		}
	}
	if c.FadeSeconds < 0 || math.IsNaN(c.FadeSeconds) || math.IsInf(c.FadeSeconds, 0) {
		return errors.Newf("fade-out duration must be a non-negative number (got %g)", c.FadeSeconds)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return errors.Newf("crf must be between 0 and 51 (got %d)", c.CRF)
	}
	if c.Dest == "" {
		return errors.New("destination must not be empty")
	}
	if c.WorkDir == "" {
		return errors.New("work directory must not be empty")
	}
	return nil
}

// NormalizeExt lowercases an extension and strips a leading dot, so that
// "--target=.MP4" and "--target=mp4" select the same files.
func NormalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ParseResolution splits "WxH" into positive width and height.
func ParseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.Newf("invalid resolution %q (use WxH, e.g. 1920x1080)", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.Newf("invalid resolution %q (use WxH, e.g. 1920x1080)", s)
	}
	return w, h, nil
}

// LoudnormSpec returns the loudnorm parameters as "I=..:LRA=..:TP=..".
func (c *Config) LoudnormSpec() string {
	return fmt.Sprintf("I=%s:LRA=%s:TP=%s",
		formatNum(c.LoudnessI), formatNum(c.LoudnessLRA), formatNum(c.LoudnessTP))
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

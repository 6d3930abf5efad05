package config

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadEnv.
const (
	EnvFFmpeg   = "VCONCAT_FFMPEG"
	EnvFFprobe  = "VCONCAT_FFPROBE"
	EnvWorkDir  = "VCONCAT_WORK_DIR"
	EnvTrashDir = "VCONCAT_TRASH_DIR"
)

// LoadEnv reads envFiles (a missing file is not an error) and then applies
// the VCONCAT_* variables to cfg. Variables already set in the process
// environment win over .env entries.
func LoadEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		cfg.FFmpegBin = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		cfg.FFprobeBin = v
	}
	if v := os.Getenv(EnvWorkDir); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv(EnvTrashDir); v != "" {
		cfg.TrashDir = v
	}
	return nil
}

// FileConfig is the YAML config file. Pointer fields distinguish "absent"
// from zero values; keys mirror the long flag names.
type FileConfig struct {
	SrcDir     *string  `yaml:"src-dir"`
	Target     *string  `yaml:"target"`
	Dest       *string  `yaml:"dest"`
	WorkDir    *string  `yaml:"work-dir"`
	Strict     *string  `yaml:"strict"`
	Inpose     *string  `yaml:"inpose"`
	Trailer    *string  `yaml:"trailer"`
	Audio      *string  `yaml:"audio"`
	AudioMode  *string  `yaml:"audio-mode"`
	Shortest   *bool    `yaml:"shortest"`
	Normalize  *bool    `yaml:"normalize"`
	Fadeout    *float64 `yaml:"fadeout"`
	Remove     *bool    `yaml:"remove"`
	Clean      *bool    `yaml:"clean"`
	ConcatMode *string  `yaml:"concat-mode"`
	Sort       *string  `yaml:"sort"`
	FailFast   *bool    `yaml:"fail-fast"`
	Verbose    *bool    `yaml:"verbose"`
	Log        *string  `yaml:"log"`

	// Settings without a flag.
	FFmpeg       *string  `yaml:"ffmpeg"`
	FFprobe      *string  `yaml:"ffprobe"`
	VideoCodec   *string  `yaml:"video_codec"`
	CRF          *int     `yaml:"crf"`
	Preset       *string  `yaml:"preset"`
	PixFmt       *string  `yaml:"pix_fmt"`
	AudioCodec   *string  `yaml:"audio_codec"`
	AudioBitrate *string  `yaml:"audio_bitrate"`
	LoudnessI    *float64 `yaml:"loudness_i"`
	LoudnessLRA  *float64 `yaml:"loudness_lra"`
	LoudnessTP   *float64 `yaml:"loudness_tp"`
}

// LoadFile parses a YAML config file. Unknown keys are rejected so typos
// surface instead of being silently ignored. An empty file sets nothing.
func LoadFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	return &fc, nil
}

// Apply copies every present field into cfg unless changed reports that
// the matching flag was given on the command line.
func (fc *FileConfig) Apply(cfg *Config, changed func(flag string) bool) {
	setString(&cfg.SrcDir, fc.SrcDir, "src-dir", changed)
	setString(&cfg.Target, fc.Target, "target", changed)
	setString(&cfg.Dest, fc.Dest, "dest", changed)
	setString(&cfg.WorkDir, fc.WorkDir, "work-dir", changed)
	setString(&cfg.Strict, fc.Strict, "strict", changed)
	setString(&cfg.Inpose, fc.Inpose, "inpose", changed)
	setString(&cfg.Trailer, fc.Trailer, "trailer", changed)
	setString(&cfg.Audio, fc.Audio, "audio", changed)
	setBool(&cfg.Shortest, fc.Shortest, "shortest", changed)
	setBool(&cfg.Normalize, fc.Normalize, "normalize", changed)
	setBool(&cfg.Remove, fc.Remove, "remove", changed)
	setBool(&cfg.Clean, fc.Clean, "clean", changed)
	setBool(&cfg.FailFast, fc.FailFast, "fail-fast", changed)
	setBool(&cfg.Verbose, fc.Verbose, "verbose", changed)
	setString(&cfg.LogFile, fc.Log, "log", changed)

	if fc.Fadeout != nil && !changed("fadeout") {
		cfg.FadeSeconds = *fc.Fadeout
	}
	// Enum values are checked later by Validate.
	if fc.AudioMode != nil && !changed("audio-mode") {
		cfg.AudioMode = AudioMode(*fc.AudioMode)
	}
	if fc.ConcatMode != nil && !changed("concat-mode") {
		cfg.ConcatMode = ConcatMode(*fc.ConcatMode)
	}
	if fc.Sort != nil && !changed("sort") {
		cfg.SortMode = SortMode(*fc.Sort)
	}

	never := func(string) bool { return false }
	setString(&cfg.FFmpegBin, fc.FFmpeg, "", never)
	setString(&cfg.FFprobeBin, fc.FFprobe, "", never)
	setString(&cfg.VideoCodec, fc.VideoCodec, "", never)
	setString(&cfg.Preset, fc.Preset, "", never)
	setString(&cfg.PixFmt, fc.PixFmt, "", never)
	setString(&cfg.AudioCodec, fc.AudioCodec, "", never)
	setString(&cfg.AudioBitrate, fc.AudioBitrate, "", never)
	if fc.CRF != nil {
		cfg.CRF = *fc.CRF
	}
	if fc.LoudnessI != nil {
		cfg.LoudnessI = *fc.LoudnessI
	}
	if fc.LoudnessLRA != nil {
		cfg.LoudnessLRA = *fc.LoudnessLRA
	}
	if fc.LoudnessTP != nil {
		cfg.LoudnessTP = *fc.LoudnessTP
	}
}

func setString(dst *string, v *string, flag string, changed func(string) bool) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool, flag string, changed func(string) bool) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}

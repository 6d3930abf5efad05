package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "mp4", "mp4"},
		{"upper", "MP4", "mp4"},
		{"leading dot", ".mkv", "mkv"},
		{"spaces", " mov ", "mov"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExt(tt.in))
		})
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1920x1080", 1920, 1080, false},
		{"1280X720", 1280, 720, false},
		{"1920", 0, 0, true},
		{"0x1080", 0, 0, true},
		{"-1x10", 0, 0, true},
		{"axb", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseResolution(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"force mode", func(c *Config) { c.AudioMode = AudioForce }, false},
		{"unknown audio mode", func(c *Config) { c.AudioMode = "blend" }, true},
		{"unknown concat mode", func(c *Config) { c.ConcatMode = "fast" }, true},
		{"unknown sort", func(c *Config) { c.SortMode = "mtime" }, true},
		{"bad strict", func(c *Config) { c.Strict = "big" }, true},
		{"good strict", func(c *Config) { c.Strict = "1920x1080" }, false},
		{"negative fade", func(c *Config) { c.FadeSeconds = -1 }, true},
		{"NaN fade", func(c *Config) { c.FadeSeconds = math.NaN() }, true},
		{"infinite fade", func(c *Config) { c.FadeSeconds = math.Inf(1) }, true},
		{"empty target", func(c *Config) { c.Target = "." }, true},
		{"crf out of range", func(c *Config) { c.CRF = 60 }, true},
		{"empty dest", func(c *Config) { c.Dest = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestValidate_CanonicalizesTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = ".MOV"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "mov", cfg.Target)
}

func TestLoudnormSpec(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "I=-23:LRA=7:TP=-2", cfg.LoudnormSpec())
	cfg.LoudnessI = -16
	cfg.LoudnessTP = -1.5
	assert.Equal(t, "I=-16:LRA=7:TP=-1.5", cfg.LoudnormSpec())
}

func TestParseFlags_NoArgsPrintsUsage(t *testing.T) {
	cfg := DefaultConfig()
	var out bytes.Buffer
	err := ParseFlags(&cfg, nil, "1.0.0", &out)
	assert.True(t, errors.Is(err, ErrHelp))
	assert.Contains(t, out.String(), "--src-dir=DIR")
	assert.Contains(t, out.String(), "ffmpeg and ffprobe must be installed")
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg := DefaultConfig()
	args := []string{
		"--src-dir=clips", "--target", "MOV", "--dest=out/all.mp4",
		"--strict=1280x720", "--inpose", "logo.png", "--trailer=end.mov",
		"--audio=bgm.mp3", "--audio-mode=force", "--remove", "--normalize",
		"--shortest", "--fadeout=5", "--concat-mode=reencode", "--sort=natural",
		"--dry-run", "--no-color",
	}
	require.NoError(t, ParseFlags(&cfg, args, "1.0.0", &bytes.Buffer{}))

	assert.Equal(t, "clips", cfg.SrcDir)
	assert.Equal(t, "MOV", cfg.Target)
	assert.Equal(t, "out/all.mp4", cfg.Dest)
	assert.Equal(t, "1280x720", cfg.Strict)
	assert.Equal(t, "logo.png", cfg.Inpose)
	assert.Equal(t, "end.mov", cfg.Trailer)
	assert.Equal(t, "bgm.mp3", cfg.Audio)
	assert.Equal(t, AudioForce, cfg.AudioMode)
	assert.True(t, cfg.Remove)
	assert.True(t, cfg.Normalize)
	assert.True(t, cfg.Shortest)
	assert.Equal(t, 5.0, cfg.FadeSeconds)
	assert.Equal(t, ConcatReencode, cfg.ConcatMode)
	assert.Equal(t, SortNatural, cfg.SortMode)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestParseFlags_BareFadeoutUsesDefault(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--fadeout", "--normalize"}, "1.0.0", &bytes.Buffer{}))
	assert.Equal(t, DefaultFadeSeconds, cfg.FadeSeconds)
	assert.True(t, cfg.Normalize)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad audio mode", []string{"--audio-mode=blend"}},
		{"unknown flag", []string{"--bogus"}},
		{"positional", []string{"--remove", "extra"}},
		{"detached fadeout value", []string{"--fadeout", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, ParseFlags(&cfg, tt.args, "1.0.0", &bytes.Buffer{}))
		})
	}
}

func TestParseFlags_Version(t *testing.T) {
	cfg := DefaultConfig()
	var out bytes.Buffer
	err := ParseFlags(&cfg, []string{"--version"}, "1.2.3", &out)
	assert.True(t, errors.Is(err, ErrVersion))
	assert.Equal(t, "vconcat v1.2.3\n", out.String())
}

func TestParseFlags_ConfigFileYieldsToFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vconcat.yaml")
	writeFile(t, path, `
src-dir: from-file
dest: file.mp4
normalize: true
audio-mode: force
fadeout: 2.5
crf: 18
loudness_i: -16
ffmpeg: /opt/ffmpeg/bin/ffmpeg
`)

	cfg := DefaultConfig()
	args := []string{"--config=" + path, "--dest=flag.mp4"}
	require.NoError(t, ParseFlags(&cfg, args, "1.0.0", &bytes.Buffer{}))

	assert.Equal(t, "from-file", cfg.SrcDir)
	assert.Equal(t, "flag.mp4", cfg.Dest, "flag must win over file")
	assert.True(t, cfg.Normalize)
	assert.Equal(t, AudioForce, cfg.AudioMode)
	assert.Equal(t, 2.5, cfg.FadeSeconds)
	assert.Equal(t, 18, cfg.CRF)
	assert.Equal(t, -16.0, cfg.LoudnessI)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegBin)
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "normalise: true\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")
	fc, err := LoadFile(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	fc.Apply(&cfg, func(string) bool { return false })
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseFlags_NaNFadeoutFailsValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--fadeout=NaN"}, "1.0.0", &bytes.Buffer{}))
	assert.Error(t, cfg.Validate())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "VCONCAT_FFPROBE=/env-file/ffprobe\n")

	t.Setenv(EnvFFmpeg, "/custom/ffmpeg")
	t.Setenv(EnvWorkDir, "/tmp/vconcat-work")
	t.Setenv(EnvFFprobe, "")
	os.Unsetenv(EnvFFprobe)

	cfg := DefaultConfig()
	require.NoError(t, LoadEnv(&cfg, envPath, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "/custom/ffmpeg", cfg.FFmpegBin)
	assert.Equal(t, "/env-file/ffprobe", cfg.FFprobeBin)
	assert.Equal(t, "/tmp/vconcat-work", cfg.WorkDir)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

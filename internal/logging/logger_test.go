package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/vconcat/internal/config"
	"github.com/backmassage/vconcat/internal/term"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "vconcat.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewWriterLogger(&buf, true).Debug("shown %d", 1)
	assert.Contains(t, buf.String(), "[DEBUG] shown 1")
}

func TestQuoteArgs(t *testing.T) {
	got := QuoteArgs([]string{"ffmpeg", "-i", "my clip.mp4", "-vf", "pad=1:2:(ow-iw)/2", "it's.mp4", ""})
	assert.Equal(t, `ffmpeg -i 'my clip.mp4' -vf 'pad=1:2:(ow-iw)/2' 'it'\''s.mp4' ''`, got)
}

func TestCommand_DimmedOnlyWithColors(t *testing.T) {
	t.Cleanup(func() { term.Configure(config.ColorNever) })
	args := []string{"ffmpeg", "-i", "a.mp4"}

	term.Configure(config.ColorAlways)
	var colored bytes.Buffer
	NewWriterLogger(&colored, false).Command(args)
	assert.Contains(t, colored.String(), term.Paint(term.Magenta, "[CMD]")+" "+term.Dim+"ffmpeg -i a.mp4"+term.NC)

	term.Configure(config.ColorNever)
	var plain bytes.Buffer
	NewWriterLogger(&plain, false).Command(args)
	assert.Contains(t, plain.String(), "[CMD] ffmpeg -i a.mp4\n")
}

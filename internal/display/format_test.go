package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical clip 700 MiB", 734003200, "700.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name string
		sec  float64
		want string
	}{
		{"zero", 0, "0:00"},
		{"rounds", 59.6, "1:00"},
		{"minutes", 125, "2:05"},
		{"hours", 3723, "1:02:03"},
		{"negative", -4, "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSeconds(tt.sec))
		})
	}
}

func TestProgress_DisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, "Preparing", false)
	p.Describe("x")
	p.Step()
	p.Clear()
	p.Finish()
	assert.Empty(t, buf.String())
}

func TestProgress_EnabledWrites(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Preparing", true)
	p.Step()
	p.Step()
	p.Finish()
	assert.NotEmpty(t, buf.String())
}

package display

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Progress is a counter bar for sequential per-file work. A disabled
// Progress (non-TTY output, verbose mode) accepts every call as a no-op so
// callers never branch on it.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress returns a bar of total steps written to w, or a disabled
// Progress when enabled is false.
func NewProgress(w io.Writer, total int, description string, enabled bool) *Progress {
	if !enabled || total <= 0 {
		return &Progress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
	return &Progress{bar: bar}
}

// Describe changes the text shown before the bar.
func (p *Progress) Describe(description string) {
	if p.bar != nil {
		p.bar.Describe(description)
	}
}

// Step advances the bar by one.
func (p *Progress) Step() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Clear erases the bar so a log line can be printed cleanly.
func (p *Progress) Clear() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

package pipeline

import "time"

// RunStats summarizes one run.
type RunStats struct {
	Total        int // Source files found (trailer excluded).
	Prepared     int // Sources that went through resize/overlay.
	FailedStages int // ffmpeg stages that failed without aborting the run.
	OutputBytes  int64
	Elapsed      time.Duration
}

// OK reports whether every stage succeeded.
func (s *RunStats) OK() bool { return s.FailedStages == 0 }

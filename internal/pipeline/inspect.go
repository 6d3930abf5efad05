package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/backmassage/vconcat/internal/display"
	"github.com/backmassage/vconcat/internal/probe"
)

// sourceRow holds the probed data of one source for the inspection table.
type sourceRow struct {
	Name       string
	Resolution string
	VideoCodec string
	AudioCodec string
	Duration   float64
}

// Inspection is the result of probing every source before a stream-copy
// concat.
type Inspection struct {
	Rows       []sourceRow
	Skipped    []string // Files ffprobe could not read.
	Mismatches []string // Human-readable reasons the copy concat may break.
}

// TotalDuration sums the known source durations.
func (in *Inspection) TotalDuration() float64 {
	return lo.SumBy(in.Rows, func(r sourceRow) float64 { return r.Duration })
}

// Inspect probes files and reports properties that differ between them.
// The concat demuxer with -c copy needs identical resolution and codecs;
// differences are only reported, the caller decides what to do.
func Inspect(ctx context.Context, p probe.Prober, files []string) *Inspection {
	in := &Inspection{}
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		pr, err := p.Probe(ctx, path)
		if err != nil {
			in.Skipped = append(in.Skipped, filepath.Base(path))
			continue
		}
		in.Rows = append(in.Rows, sourceRow{
			Name:       filepath.Base(path),
			Resolution: pr.Resolution(),
			VideoCodec: pr.VideoCodec(),
			AudioCodec: pr.AudioCodec(),
			Duration:   pr.Duration(),
		})
	}

	check := func(label string, get func(sourceRow) string) {
		values := lo.Uniq(lo.Map(in.Rows, func(r sourceRow, _ int) string { return get(r) }))
		if len(values) > 1 {
			in.Mismatches = append(in.Mismatches, fmt.Sprintf("%s differ: %s", label, strings.Join(values, ", ")))
		}
	}
	check("resolutions", func(r sourceRow) string { return r.Resolution })
	check("video codecs", func(r sourceRow) string { return r.VideoCodec })
	check("audio codecs", func(r sourceRow) string { return r.AudioCodec })
	return in
}

// printSourceTable writes one aligned row per probed source.
func printSourceTable(w io.Writer, rows []sourceRow) {
	nameW := len("File")
	resW := len("Resolution")
	vcW := len("Video")
	acW := len("Audio")
	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
		resW = max(resW, len(r.Resolution))
		vcW = max(vcW, len(r.VideoCodec))
		acW = max(acW, len(r.AudioCodec))
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %s",
		nameW, "File", resW, "Resolution", vcW, "Video", acW, "Audio", "Duration")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))
	for _, r := range rows {
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}
		dur := "unknown"
		if r.Duration > 0 {
			dur = display.FormatSeconds(r.Duration)
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %-*s  %s\n",
			nameW, name, resW, r.Resolution, vcW, r.VideoCodec, acW, r.AudioCodec, dur)
	}
	fmt.Fprintln(w)
}

package planner

import "github.com/samber/lo"

// Item is one source video and the work files it passes through.
// Resized and Overlaid are empty when the matching step is disabled.
type Item struct {
	Index    int
	Source   string
	Resized  string
	Overlaid string
}

// Final returns the file that goes into the concat manifest: the output of
// the last enabled step, or the source itself.
func (it Item) Final() string {
	switch {
	case it.Overlaid != "":
		return it.Overlaid
	case it.Resized != "":
		return it.Resized
	default:
		return it.Source
	}
}

// Plan holds every path of a run. All paths are absolute.
type Plan struct {
	WorkDir     string
	CombinedDir string // Holds the originals before they go to the trash.
	ListPath    string // concat_list.txt

	Items []Item

	Trailer    string // Original trailer, empty when none.
	TrailerFit string // Re-encoded trailer, empty unless resizing.

	Concatenated string // output_temp.<ext>
	AudioOut     string // output_audio.<ext>
	Normalized   string // output_normalized.<ext>
	Faded        string // output_faded.<ext>
	Dest         string
}

// Sources returns the original input files in processing order.
func (p *Plan) Sources() []string {
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.Source
	}
	return out
}

// ConcatInputs returns the manifest entries: every item's final file,
// followed by the trailer (re-encoded when available).
func (p *Plan) ConcatInputs() []string {
	out := make([]string, 0, len(p.Items)+1)
	for _, it := range p.Items {
		out = append(out, it.Final())
	}
	switch {
	case p.TrailerFit != "":
		out = append(out, p.TrailerFit)
	case p.Trailer != "":
		out = append(out, p.Trailer)
	}
	return out
}

// WorkFiles returns every file the run may write inside WorkDir, in
// creation order. Sources, the original trailer and Dest are never listed.
func (p *Plan) WorkFiles() []string {
	var out []string
	for _, it := range p.Items {
		out = append(out, it.Resized, it.Overlaid)
	}
	out = append(out, p.TrailerFit, p.ListPath, p.Concatenated, p.AudioOut, p.Normalized, p.Faded)
	return lo.Without(lo.Compact(out), p.Dest)
}

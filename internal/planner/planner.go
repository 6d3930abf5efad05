package planner

import (
	"fmt"
	"path/filepath"

	"github.com/backmassage/vconcat/internal/config"
)

// Fixed names inside the working directory.
const (
	CombinedDirName = "combined"
	ListFileName    = "concat_list.txt"
)

// BuildPlan lays out a run for files (absolute, already sorted, trailer
// excluded) under workDir (absolute). trailer and dest must be absolute;
// trailer may be empty.
//
// Per-file work files keep the source extension (cfg.Target); files after
// the concat step take dest's extension so the final copy needs no remux.
func BuildPlan(cfg *config.Config, workDir string, files []string, trailer, dest string) *Plan {
	ext := cfg.Target
	outExt := OutputExt(dest)

	p := &Plan{
		WorkDir:      workDir,
		CombinedDir:  filepath.Join(workDir, CombinedDirName),
		ListPath:     filepath.Join(workDir, ListFileName),
		Trailer:      trailer,
		Concatenated: filepath.Join(workDir, "output_temp."+outExt),
		AudioOut:     filepath.Join(workDir, "output_audio."+outExt),
		Normalized:   filepath.Join(workDir, "output_normalized."+outExt),
		Faded:        filepath.Join(workDir, "output_faded."+outExt),
		Dest:         dest,
	}

	for i, f := range files {
		it := Item{Index: i, Source: f}
		if cfg.Strict != "" {
			it.Resized = filepath.Join(workDir, fmt.Sprintf("work_%03d.%s", i, ext))
		}
		if cfg.Inpose != "" {
			it.Overlaid = filepath.Join(workDir, fmt.Sprintf("overlaid_%03d.%s", i, ext))
		}
		p.Items = append(p.Items, it)
	}

	if trailer != "" && cfg.Strict != "" {
		p.TrailerFit = filepath.Join(workDir, "trailer_fit."+ext)
	}
	return p
}

// OutputExt returns the extension (without dot) of dest, or "mp4" when dest
// has none.
func OutputExt(dest string) string {
	if ext := config.NormalizeExt(filepath.Ext(dest)); ext != "" {
		return ext
	}
	return "mp4"
}

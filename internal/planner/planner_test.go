package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/vconcat/internal/config"
)

func TestBuildPlan_NoProcessing(t *testing.T) {
	cfg := config.DefaultConfig()
	p := BuildPlan(&cfg, "/work", []string{"/src/a.mp4", "/src/b.mp4"}, "", "/out/concat.mp4")

	assert.Equal(t, "/work/combined", p.CombinedDir)
	assert.Equal(t, "/work/concat_list.txt", p.ListPath)
	assert.Equal(t, "/work/output_temp.mp4", p.Concatenated)
	assert.Equal(t, "/work/output_audio.mp4", p.AudioOut)
	assert.Equal(t, "/work/output_normalized.mp4", p.Normalized)
	assert.Equal(t, "/work/output_faded.mp4", p.Faded)
	assert.Equal(t, []string{"/src/a.mp4", "/src/b.mp4"}, p.ConcatInputs())
	assert.Equal(t, []string{"/src/a.mp4", "/src/b.mp4"}, p.Sources())
}

func TestBuildPlan_ResizeAndOverlay(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Target = "mov"
	cfg.Strict = "1920x1080"
	cfg.Inpose = "/img/logo.png"
	p := BuildPlan(&cfg, "/work", []string{"/src/a.mov", "/src/b.mov"}, "/src/trailer.mov", "/out/final.mkv")

	assert.Equal(t, Item{Index: 1, Source: "/src/b.mov",
		Resized: "/work/work_001.mov", Overlaid: "/work/overlaid_001.mov"}, p.Items[1])
	assert.Equal(t, "/work/trailer_fit.mov", p.TrailerFit)
	assert.Equal(t, "/work/output_temp.mkv", p.Concatenated, "post-concat files follow dest's extension")
	assert.Equal(t, []string{
		"/work/overlaid_000.mov", "/work/overlaid_001.mov", "/work/trailer_fit.mov",
	}, p.ConcatInputs())
}

func TestBuildPlan_TrailerWithoutResize(t *testing.T) {
	cfg := config.DefaultConfig()
	p := BuildPlan(&cfg, "/work", []string{"/src/a.mp4"}, "/extra/end.mp4", "/out/concat.mp4")

	assert.Empty(t, p.TrailerFit)
	assert.Equal(t, []string{"/src/a.mp4", "/extra/end.mp4"}, p.ConcatInputs())
}

func TestOutputExt(t *testing.T) {
	assert.Equal(t, "mp4", OutputExt("/out/concat.mp4"))
	assert.Equal(t, "mkv", OutputExt("out/final.MKV"))
	assert.Equal(t, "mp4", OutputExt("out/final"))
}

func TestBuildPlan_ExtensionFollowsDestArgument(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dest = "ignored.mp4"
	p := BuildPlan(&cfg, "/work", []string{"/src/a.mp4"}, "", "/out/final.mov")

	assert.Equal(t, "/work/output_temp.mov", p.Concatenated)
	assert.Equal(t, "/work/output_faded.mov", p.Faded)
}

func TestPlanWorkFiles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Strict = "1280x720"
	p := BuildPlan(&cfg, "/work", []string{"/src/a.mp4"}, "/src/end.mp4", "/work/output_faded.mp4")

	assert.Equal(t, []string{
		"/work/work_000.mp4", "/work/trailer_fit.mp4", "/work/concat_list.txt",
		"/work/output_temp.mp4", "/work/output_audio.mp4", "/work/output_normalized.mp4",
	}, p.WorkFiles(), "dest is kept even when it shares a work file name")
	assert.NotContains(t, p.WorkFiles(), "/src/a.mp4")
}

func TestItemFinal(t *testing.T) {
	assert.Equal(t, "s", Item{Source: "s"}.Final())
	assert.Equal(t, "r", Item{Source: "s", Resized: "r"}.Final())
	assert.Equal(t, "o", Item{Source: "s", Resized: "r", Overlaid: "o"}.Final())
	assert.Equal(t, "o", Item{Source: "s", Overlaid: "o"}.Final())
}

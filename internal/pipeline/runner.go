package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/backmassage/vconcat/internal/config"
	"github.com/backmassage/vconcat/internal/display"
	"github.com/backmassage/vconcat/internal/ffmpeg"
	"github.com/backmassage/vconcat/internal/fsutil"
	"github.com/backmassage/vconcat/internal/logging"
	"github.com/backmassage/vconcat/internal/planner"
	"github.com/backmassage/vconcat/internal/probe"
	"github.com/backmassage/vconcat/internal/term"
	"github.com/backmassage/vconcat/internal/trash"
)

// Errors returned by Run. Every one of them ends the process with status 1.
var (
	ErrNoInputs        = errors.New("no input files")
	ErrMissingInput    = errors.New("input file not found")
	ErrConcatFailed    = errors.New("concat produced no output")
	ErrNormalizeFailed = errors.New("loudness normalization produced no output")
	ErrStageFailed     = errors.New("ffmpeg stage failed")
)

// tailLines is how much ffmpeg output is shown for a failed stage.
const tailLines = 5

// Runner executes one run. Build it with NewRunner; the zero value is not
// usable.
type Runner struct {
	cfg    *config.Config
	log    *logging.Logger
	exec   ffmpeg.Executor
	prober probe.Prober
	trash  trash.Mover // nil disables --remove.

	out          io.Writer // Progress bar and inspection table.
	showProgress bool

	paths runPaths
	bar   *display.Progress
	stats RunStats
}

// runPaths holds the absolute forms of the user-supplied paths.
type runPaths struct {
	src, work, dest        string
	trailer, inpose, audio string
}

// NewRunner wires a Runner. mover may be nil when --remove is off.
func NewRunner(cfg *config.Config, log *logging.Logger, exec ffmpeg.Executor, prober probe.Prober, mover trash.Mover) *Runner {
	return &Runner{
		cfg:          cfg,
		log:          log,
		exec:         exec,
		prober:       prober,
		trash:        mover,
		out:          os.Stdout,
		showProgress: term.IsTerminal(os.Stdout) && !cfg.Verbose && !cfg.DryRun,
		bar:          display.NewProgress(nil, 0, "", false),
	}
}

// Run is the top-level entry point: it wires the real ffmpeg, ffprobe and
// trash and runs the whole pipeline.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var tee io.Writer
	if cfg.Verbose {
		tee = os.Stderr
	}
	var mover trash.Mover
	if cfg.Remove {
		tr, err := trash.New(cfg.TrashDir)
		if err != nil {
			log.Warn("Trash unavailable, sources will be kept: %v", err)
		} else {
			mover = tr
		}
	}
	r := NewRunner(cfg, log, &ffmpeg.CommandExecutor{Tee: tee}, probe.NewFFprobe(cfg.FFprobeBin), mover)
	return r.Run(ctx)
}

// Run executes every enabled stage in order and returns the run stats.
// A stage that fails is logged and skipped (the next stage works on the
// previous file) unless --fail-fast is set. A failed concat, a missing
// normalized file and an interrupted context always end the run.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	err := r.run(ctx)
	r.stats.Elapsed = time.Since(start)
	if err == nil {
		r.logSummary()
	}
	return r.stats, err
}

func (r *Runner) run(ctx context.Context) error {
	if err := r.resolvePaths(); err != nil {
		return err
	}

	files, err := Discover(r.paths.src, r.cfg.Target, r.cfg.SortMode)
	if err != nil {
		return errors.Wrapf(err, "read source directory %s", r.cfg.SrcDir)
	}
	files = Exclude(files, r.paths.trailer, r.paths.dest)
	r.stats.Total = len(files)
	if len(files) == 0 {
		r.log.Error("No .%s files found in %s", r.cfg.Target, r.paths.src)
		return ErrNoInputs
	}

	plan := planner.BuildPlan(r.cfg, r.paths.work, files, r.paths.trailer, r.paths.dest)
	created := plan.WorkFiles() // Taken before failed stages clear their paths.
	r.logHeader(plan)

	if !r.cfg.DryRun {
		if err := os.MkdirAll(plan.CombinedDir, 0o755); err != nil {
			return errors.Wrap(err, "create working directory")
		}
	}

	r.inspect(ctx, plan)

	if err := r.prepare(ctx, plan); err != nil {
		return err
	}
	if err := r.prepareTrailer(ctx, plan); err != nil {
		return err
	}
	if err := r.concat(ctx, plan); err != nil {
		return err
	}

	current := plan.Concatenated
	if current, err = r.addAudio(ctx, plan, current); err != nil {
		return err
	}
	if current, err = r.normalize(ctx, plan, current); err != nil {
		return err
	}
	if current, err = r.fadeout(ctx, plan, current); err != nil {
		return err
	}
	if err := r.deliver(current, plan.Dest); err != nil {
		return err
	}

	r.removeSources(plan)
	r.cleanWorkDir(plan, created)
	return nil
}

// resolvePaths makes every path absolute and checks that the optional
// inputs exist.
func (r *Runner) resolvePaths() error {
	abs := func(p string) (string, error) {
		if p == "" {
			return "", nil
		}
		return filepath.Abs(p)
	}
	targets := []struct {
		dst  *string
		src  string
		flag string
	}{
		{&r.paths.src, r.cfg.SrcDir, "--src-dir"},
		{&r.paths.work, r.cfg.WorkDir, "--work-dir"},
		{&r.paths.dest, r.cfg.Dest, "--dest"},
		{&r.paths.trailer, r.cfg.Trailer, "--trailer"},
		{&r.paths.inpose, r.cfg.Inpose, "--inpose"},
		{&r.paths.audio, r.cfg.Audio, "--audio"},
	}
	for _, t := range targets {
		p, err := abs(t.src)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", t.flag)
		}
		*t.dst = p
	}

	for _, t := range targets[3:] {
		if *t.dst == "" {
			continue
		}
		if _, err := os.Stat(*t.dst); err != nil {
			return errors.Wrapf(ErrMissingInput, "%s %s", t.flag, t.src)
		}
	}
	return nil
}

// execStage runs one ffmpeg stage. A failure is returned in the result and
// counted; the returned error is non-nil only when the run must stop
// (interrupt or --fail-fast). In dry-run mode the command is only logged.
func (r *Runner) execStage(ctx context.Context, label string, args []string) (ffmpeg.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return ffmpeg.ExecResult{Err: err}, errors.Wrap(err, "interrupted")
	}
	if r.cfg.DryRun || r.log.Verbose() {
		r.bar.Clear()
		r.log.Command(args)
	}
	if r.cfg.DryRun {
		return ffmpeg.ExecResult{}, nil
	}

	// A stale file from an earlier run must not pass for this stage's output.
	if out := ffmpeg.OutputOf(args); out != "" {
		_ = os.Remove(out)
	}

	res := r.exec.Execute(ctx, args)
	if res.Err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, errors.Wrap(ctx.Err(), "interrupted")
	}

	r.stats.FailedStages++
	r.bar.Clear()
	r.log.Warn("%s failed: %v", label, res.Err)
	if hint := errors.FlattenHints(res.Err); hint != "" {
		r.log.Warn("  Hint: %s", hint)
	}
	if !r.log.Verbose() {
		for _, l := range ffmpeg.Tail(res.Output, tailLines) {
			r.log.Warn("  %s", l)
		}
	}
	if r.cfg.FailFast {
		return res, errors.Wrapf(ErrStageFailed, "%s", label)
	}
	return res, nil
}

// inspect probes the sources before a stream-copy concat of untouched
// files and warns when they differ.
func (r *Runner) inspect(ctx context.Context, plan *planner.Plan) {
	if r.cfg.ConcatMode != config.ConcatCopy || r.cfg.Strict != "" || r.prober == nil {
		return
	}
	files := plan.Sources()
	if plan.Trailer != "" {
		files = append(files, plan.Trailer)
	}

	in := Inspect(ctx, r.prober, files)
	for _, name := range in.Skipped {
		r.log.Warn("Cannot probe %s", name)
	}
	if r.log.Verbose() && len(in.Rows) > 0 {
		printSourceTable(r.out, in.Rows)
	}
	if d := in.TotalDuration(); d > 0 {
		r.log.Info("Total input duration: %s", display.FormatSeconds(d))
	}
	if len(in.Mismatches) == 0 {
		return
	}
	for _, m := range in.Mismatches {
		r.log.Warn("Inputs %s", m)
	}
	r.log.Warn("Stream-copy concat may fail or play back incorrectly; consider --strict=WxH or --concat-mode=reencode")
}

// prepare resizes and overlays every source as configured. A source whose
// step fails goes into the concat as it was before that step.
func (r *Runner) prepare(ctx context.Context, plan *planner.Plan) error {
	if r.cfg.Strict == "" && r.cfg.Inpose == "" {
		return nil
	}
	r.bar = display.NewProgress(r.out, len(plan.Items), "Preparing", r.showProgress)
	defer func() {
		r.bar.Finish()
		r.bar = display.NewProgress(nil, 0, "", false)
	}()

	for i := range plan.Items {
		it := &plan.Items[i]
		name := filepath.Base(it.Source)
		r.bar.Describe(name)

		if it.Resized != "" {
			res, err := r.execStage(ctx, "Resize "+name, ffmpeg.ResizeArgs(r.cfg, it.Source, it.Resized))
			if err != nil {
				return err
			}
			if res.Err != nil {
				it.Resized = ""
			}
		}
		if it.Overlaid != "" {
			src := it.Source
			if it.Resized != "" {
				src = it.Resized
			}
			res, err := r.execStage(ctx, "Overlay "+name, ffmpeg.OverlayArgs(r.cfg, src, r.paths.inpose, it.Overlaid))
			if err != nil {
				return err
			}
			if res.Err != nil {
				it.Overlaid = ""
			}
		}
		r.stats.Prepared++
		r.bar.Step()
	}
	return nil
}

// prepareTrailer fits the trailer to the --strict resolution.
func (r *Runner) prepareTrailer(ctx context.Context, plan *planner.Plan) error {
	if plan.TrailerFit == "" {
		return nil
	}
	r.log.Info("Resizing trailer to %s", r.cfg.Strict)
	res, err := r.execStage(ctx, "Resize trailer", ffmpeg.ResizeArgs(r.cfg, plan.Trailer, plan.TrailerFit))
	if err != nil {
		return err
	}
	if res.Err != nil {
		plan.TrailerFit = ""
	}
	return nil
}

// concat writes the manifest and joins every prepared file. Without its
// output there is nothing to deliver, so a failure always ends the run.
func (r *Runner) concat(ctx context.Context, plan *planner.Plan) error {
	entries := plan.ConcatInputs()
	if r.cfg.DryRun {
		r.log.Info("Would write %s:", plan.ListPath)
		for _, l := range strings.Split(strings.TrimSpace(ffmpeg.FormatConcatList(entries)), "\n") {
			r.log.Info("  %s", l)
		}
	} else if err := ffmpeg.WriteConcatList(plan.ListPath, entries); err != nil {
		return err
	}

	r.log.Info("Concatenating %d files (%s)", len(entries), r.cfg.ConcatMode)
	res, err := r.execStage(ctx, "Concat", ffmpeg.ConcatArgs(r.cfg, plan.ListPath, plan.Concatenated))
	if err != nil {
		return err
	}
	if res.Err != nil {
		return errors.Wrap(ErrConcatFailed, plan.Concatenated)
	}
	return nil
}

// ResolveAudioMode returns the mode to use when adding audio to video. A
// mix needs an audio track in video: when there is none, or video cannot
// be probed, force is returned together with the reason.
func ResolveAudioMode(ctx context.Context, p probe.Prober, video string, mode config.AudioMode) (config.AudioMode, string) {
	if mode != config.AudioMix {
		return mode, ""
	}
	if p == nil {
		return config.AudioForce, "Cannot probe video (ffprobe unavailable)"
	}
	pr, err := p.Probe(ctx, video)
	if err != nil {
		return config.AudioForce, fmt.Sprintf("Cannot probe video (%v)", err)
	}
	if !pr.HasAudio() {
		return config.AudioForce, "No audio stream detected in video"
	}
	return config.AudioMix, ""
}

func (r *Runner) addAudio(ctx context.Context, plan *planner.Plan, current string) (string, error) {
	if r.paths.audio == "" {
		return current, nil
	}
	mode := r.cfg.AudioMode
	if r.cfg.DryRun {
		r.log.Debug("Audio mode is checked against the concatenated file at run time")
	} else {
		var reason string
		mode, reason = ResolveAudioMode(ctx, r.prober, current, mode)
		if reason != "" {
			r.log.Warn("%s. Switching to --audio-mode=force.", reason)
		}
	}

	r.log.Info("Adding audio (%s): %s", mode, filepath.Base(r.paths.audio))
	res, err := r.execStage(ctx, "Audio "+string(mode), ffmpeg.AudioArgs(r.cfg, current, r.paths.audio, mode, plan.AudioOut))
	if err != nil {
		return "", err
	}
	if res.Err != nil {
		return current, nil
	}
	return plan.AudioOut, nil
}

// normalize runs single-pass loudnorm. A missing output file is fatal and
// the full ffmpeg output is logged.
func (r *Runner) normalize(ctx context.Context, plan *planner.Plan, current string) (string, error) {
	if !r.cfg.Normalize {
		return current, nil
	}
	r.log.Info("Normalizing loudness (%s)", r.cfg.LoudnormSpec())
	res, err := r.execStage(ctx, "Normalize", ffmpeg.NormalizeArgs(r.cfg, current, plan.Normalized))
	if err != nil && !errors.Is(err, ErrStageFailed) {
		return "", err
	}
	if r.cfg.DryRun {
		return plan.Normalized, nil
	}
	// Checked before --fail-fast so the full output is always shown.
	if _, statErr := os.Stat(plan.Normalized); statErr != nil {
		r.log.Error("Failed to normalize audio. ffmpeg output:")
		for _, l := range strings.Split(strings.TrimSpace(res.Output), "\n") {
			r.log.Error("  %s", l)
		}
		return "", ErrNormalizeFailed
	}
	if err != nil {
		return "", err
	}
	return plan.Normalized, nil
}

// fadeout fades video and audio over the last FadeSeconds. The length of
// current is probed; when it is unknown the stage is skipped.
func (r *Runner) fadeout(ctx context.Context, plan *planner.Plan, current string) (string, error) {
	fade := r.cfg.FadeSeconds
	if fade <= 0 {
		return current, nil
	}
	if r.cfg.DryRun {
		r.log.Info("Would fade out the last %gs (start resolved from the final duration)", fade)
		return plan.Faded, nil
	}
	if r.prober == nil {
		r.log.Warn("Cannot probe %s; skipping fade-out", filepath.Base(current))
		return current, nil
	}
	pr, err := r.prober.Probe(ctx, current)
	if err != nil || pr.Duration() <= 0 {
		r.log.Warn("Cannot determine the duration of %s; skipping fade-out", filepath.Base(current))
		return current, nil
	}
	duration := pr.Duration()
	if fade > duration {
		r.log.Warn("Fade-out of %gs is longer than the video (%s); fading the whole video", fade, display.FormatSeconds(duration))
	}

	r.log.Info("Fading out the last %gs", min(fade, duration))
	res, err := r.execStage(ctx, "Fade-out", ffmpeg.FadeoutArgs(r.cfg, current, plan.Faded, duration, fade, pr.HasAudio()))
	if err != nil {
		return "", err
	}
	if res.Err != nil {
		return current, nil
	}
	return plan.Faded, nil
}

// deliver copies the last produced file to dest.
func (r *Runner) deliver(current, dest string) error {
	if r.cfg.DryRun {
		r.log.Info("Would copy %s -> %s", filepath.Base(current), dest)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	if err := fsutil.CopyFile(current, dest, 0o644); err != nil {
		return errors.Wrap(err, "copy output")
	}
	if fi, err := os.Stat(dest); err == nil {
		r.stats.OutputBytes = fi.Size()
	}
	return nil
}

// removeSources moves the sources and the trailer into the combined
// directory and sends that directory to the trash.
func (r *Runner) removeSources(plan *planner.Plan) {
	if !r.cfg.Remove {
		return
	}
	files := plan.Sources()
	if plan.Trailer != "" {
		files = append(files, plan.Trailer)
	}
	if r.cfg.DryRun {
		r.log.Info("Would move %d files to the trash", len(files))
		return
	}
	if r.trash == nil {
		r.log.Warn("Trash unavailable; keeping source files")
		return
	}

	moved := 0
	for _, src := range files {
		dst := fsutil.UniquePath(plan.CombinedDir, filepath.Base(src))
		if err := fsutil.Move(src, dst); err != nil {
			r.log.Warn("Cannot move %s: %v", filepath.Base(src), err)
			continue
		}
		moved++
	}
	if moved == 0 {
		return
	}

	where, err := r.trash.MoveToTrash(plan.CombinedDir)
	if err != nil {
		r.log.Warn("Could not move %s to the trash: %v", plan.CombinedDir, err)
		return
	}
	r.log.Success("Cleaned up and moved to trash: %s", where)
}

// cleanWorkDir deletes the files the run wrote into the working directory,
// then the combined and working directories if nothing else is left in
// them. Files it did not create (sources, dest, anything else the user
// keeps there) stay.
func (r *Runner) cleanWorkDir(plan *planner.Plan, created []string) {
	if !r.cfg.Clean || r.cfg.DryRun {
		return
	}
	for _, p := range created {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("Cannot remove %s: %v", p, err)
		}
	}
	for _, dir := range []string{plan.CombinedDir, plan.WorkDir} {
		if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.log.Debug("Keeping %s: %v", dir, err)
			continue
		}
		r.log.Debug("Removed %s", dir)
	}
}

// --- Logging helpers ---

func (r *Runner) logHeader(plan *planner.Plan) {
	r.log.Info("Found %d .%s files in %s", len(plan.Items), r.cfg.Target, r.paths.src)
	r.log.Info("Processing files:")
	for _, it := range plan.Items {
		r.log.Info("  - %s", filepath.Base(it.Source))
	}
	if plan.Trailer != "" {
		r.log.Info("Trailer: %s", filepath.Base(plan.Trailer))
	}
	if r.cfg.Strict != "" {
		r.log.Info("Resolution: %s (scale + pad)", r.cfg.Strict)
	}
	if r.cfg.Inpose != "" {
		r.log.Info("Overlay: %s", filepath.Base(r.paths.inpose))
	}
	if r.cfg.Audio != "" {
		shortest := ""
		if r.cfg.Shortest {
			shortest = ", shortest"
		}
		r.log.Info("Audio: %s (%s%s)", filepath.Base(r.paths.audio), r.cfg.AudioMode, shortest)
	}
	if r.cfg.Normalize {
		r.log.Info("Loudness: %s", ffmpeg.LoudnormFilter(r.cfg))
	}
	if r.cfg.FadeSeconds > 0 {
		r.log.Info("Fade-out: %gs", r.cfg.FadeSeconds)
	}
	r.log.Debug("Working directory: %s", plan.WorkDir)
	if r.cfg.DryRun {
		r.log.Info("Dry run: ffmpeg commands are printed, nothing is written")
	}
}

func (r *Runner) logSummary() {
	r.log.Info("==============================")
	if r.cfg.DryRun {
		r.log.Info("Dry run finished: %d files, output would be %s", r.stats.Total, r.paths.dest)
		return
	}
	if r.stats.FailedStages > 0 {
		r.log.Warn("%d ffmpeg stage(s) failed; the output may be incomplete", r.stats.FailedStages)
	}
	r.log.Success("Done! Output saved to: %s (%s in %s)",
		r.paths.dest,
		display.FormatBytes(r.stats.OutputBytes),
		display.FormatSeconds(r.stats.Elapsed.Seconds()))
}

// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the encoders
// and filters the pipeline relies on.
package check

import (
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/backmassage/vconcat/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// requiredFilters are the filters the stages may use.
var requiredFilters = []string{"scale", "pad", "overlay", "amix", "loudnorm", "fade", "afade"}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, the configured encoders and the filters the pipeline uses.
// Returns false when anything required is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkVersion(cfg.FFmpegBin, "ffmpeg", log)
	if !checkVersion(cfg.FFprobeBin, "ffprobe", log) {
		ok = false
	}
	if !ok {
		return false
	}

	encoders, err := listOutput(cfg.FFmpegBin, "-hide_banner", "-encoders")
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}
	for _, enc := range []string{cfg.VideoCodec, cfg.AudioCodec} {
		if HasEntry(encoders, enc) {
			log.Success("encoder %s: available", enc)
		} else {
			log.Error("encoder %s: missing", enc)
			ok = false
		}
	}

	filters, err := listOutput(cfg.FFmpegBin, "-hide_banner", "-filters")
	if err != nil {
		log.Warn("Could not list filters: %v", err)
		return false
	}
	for _, f := range requiredFilters {
		if HasEntry(filters, f) {
			log.Success("filter %s: available", f)
		} else {
			log.Error("filter %s: missing", f)
			ok = false
		}
	}
	return ok
}

// checkVersion verifies bin is on PATH and logs its version string.
func checkVersion(bin, label string, log Logger) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found (%s)", label, bin)
		return false
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", label, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", label, firstLine)
	return true
}

// CheckDeps is the pre-pipeline validation: ffmpeg must be on PATH
// (ErrFfmpegNotFound otherwise). A missing ffprobe is reported with
// ErrFfprobeNotFound; callers treat it as a warning because only the
// audio-mix fallback and the fade-out need it.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegBin); err != nil {
		return errors.Wrap(ErrFfmpegNotFound, cfg.FFmpegBin)
	}
	if _, err := exec.LookPath(cfg.FFprobeBin); err != nil {
		return errors.Wrap(ErrFfprobeNotFound, cfg.FFprobeBin)
	}
	return nil
}

// HasEntry reports whether a "ffmpeg -encoders"/"-filters" listing names
// entry in its second column.
func HasEntry(listing, entry string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == entry {
			return true
		}
	}
	return false
}

func listOutput(bin string, args ...string) (string, error) {
	out, err := exec.Command(bin, args...).Output()
	if err != nil {
		return "", errors.Wrapf(err, "%s %s", bin, strings.Join(args, " "))
	}
	return string(out), nil
}

package ffmpeg

import (
	"fmt"
	"math"
	"strconv"

	"github.com/backmassage/vconcat/internal/config"
)

// preamble returns the arguments shared by every invocation.
func preamble(cfg *config.Config) []string {
	level := "error"
	if cfg.Verbose {
		level = "info"
	}
	return []string{cfg.FFmpegBin, "-hide_banner", "-nostdin", "-y", "-loglevel", level}
}

// videoEncodeArgs are used by every stage that has to re-encode video.
func videoEncodeArgs(cfg *config.Config) []string {
	return []string{
		"-c:v", cfg.VideoCodec,
		"-crf", strconv.Itoa(cfg.CRF),
		"-preset", cfg.Preset,
		"-pix_fmt", cfg.PixFmt,
	}
}

func audioEncodeArgs(cfg *config.Config) []string {
	return []string{"-c:a", cfg.AudioCodec, "-b:a", cfg.AudioBitrate}
}

// ResizeFilter scales to fit inside w x h keeping the aspect ratio, then
// pads to exactly w x h with the picture centered.
func ResizeFilter(w, h int) string {
	return fmt.Sprintf(
		"scale=w=%d:h=%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		w, h, w, h)
}

// ResizeArgs re-encodes src to the cfg.Strict resolution, copying audio.
// The caller must have validated cfg (Strict parses).
func ResizeArgs(cfg *config.Config, src, dst string) []string {
	w, h, _ := config.ParseResolution(cfg.Strict)
	args := preamble(cfg)
	args = append(args, "-i", src, "-vf", ResizeFilter(w, h))
	args = append(args, videoEncodeArgs(cfg)...)
	args = append(args, "-c:a", "copy", dst)
	return args
}

// OverlayArgs draws image over src at the top-left corner, copying audio.
func OverlayArgs(cfg *config.Config, src, image, dst string) []string {
	args := preamble(cfg)
	args = append(args, "-i", src, "-i", image, "-filter_complex", "overlay=0:0")
	args = append(args, videoEncodeArgs(cfg)...)
	args = append(args, "-c:a", "copy", dst)
	return args
}

// ConcatArgs runs the concat demuxer over the manifest at list. In copy
// mode streams are copied; in reencode mode video and audio are encoded
// with the configured codecs.
func ConcatArgs(cfg *config.Config, list, dst string) []string {
	args := preamble(cfg)
	args = append(args, "-f", "concat", "-safe", "0", "-i", list)
	if cfg.ConcatMode == config.ConcatReencode {
		args = append(args, videoEncodeArgs(cfg)...)
		args = append(args, audioEncodeArgs(cfg)...)
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, dst)
}

// AudioArgs combines the external audio file with src.
//
// Force replaces the video's audio with the first audio stream of audio.
// Mix blends both tracks with amix. With cfg.Shortest the output ends with
// the shortest input; otherwise mix keeps the video's length and force keeps
// both streams whole.
func AudioArgs(cfg *config.Config, src, audio string, mode config.AudioMode, dst string) []string {
	args := preamble(cfg)
	args = append(args, "-i", src, "-i", audio)

	if mode == config.AudioForce {
		args = append(args, "-map", "0:v:0", "-map", "1:a:0", "-c:v", "copy")
		args = append(args, audioEncodeArgs(cfg)...)
	} else {
		duration := "first"
		if cfg.Shortest {
			duration = "shortest"
		}
		args = append(args,
			"-filter_complex", "[0:a][1:a]amix=inputs=2:duration="+duration+"[aout]",
			"-map", "0:v:0", "-map", "[aout]",
			"-c:v", "copy",
		)
		args = append(args, audioEncodeArgs(cfg)...)
	}
	if cfg.Shortest {
		args = append(args, "-shortest")
	}
	return append(args, dst)
}

// LoudnormFilter returns the single-pass loudnorm filter for cfg's targets.
func LoudnormFilter(cfg *config.Config) string {
	return "loudnorm=" + cfg.LoudnormSpec()
}

// NormalizeArgs applies loudness normalization to the audio of src.
// loudnorm resamples to 192 kHz internally, so the output rate is pinned
// back to 48 kHz.
func NormalizeArgs(cfg *config.Config, src, dst string) []string {
	args := preamble(cfg)
	args = append(args, "-i", src, "-filter:a", LoudnormFilter(cfg), "-ar", "48000", "-c:v", "copy")
	args = append(args, audioEncodeArgs(cfg)...)
	return append(args, dst)
}

// FadeStart returns where a fade of length fade must start so that it ends
// at duration. Never negative.
func FadeStart(duration, fade float64) float64 {
	return math.Max(0, duration-fade)
}

// FadeoutArgs fades video (and audio when hasAudio) to black/silence over
// the last fade seconds of a file that lasts duration seconds.
func FadeoutArgs(cfg *config.Config, src, dst string, duration, fade float64, hasAudio bool) []string {
	start := FadeStart(duration, fade)
	if fade > duration && duration > 0 {
		fade = duration
	}
	spec := fmt.Sprintf("t=out:st=%s:d=%s", formatSeconds(start), formatSeconds(fade))

	args := preamble(cfg)
	args = append(args, "-i", src, "-vf", "fade="+spec)
	if hasAudio {
		args = append(args, "-af", "afade="+spec)
	}
	args = append(args, videoEncodeArgs(cfg)...)
	if hasAudio {
		args = append(args, audioEncodeArgs(cfg)...)
	}
	return append(args, dst)
}

// formatSeconds prints seconds with at most millisecond precision.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(math.Round(s*1000)/1000, 'f', -1, 64)
}

// OutputOf returns the output path of an argument list built by this
// package (always the last element).
func OutputOf(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

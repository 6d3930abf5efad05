package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into input/output, processing, audio, behavior, display and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
)

// Sentinel results of ParseFlags that are not failures: the caller prints
// nothing more and exits 0.
var (
	ErrHelp    = errors.New("help requested")
	ErrVersion = errors.New("version requested")
)

// ParseFlags parses args (without the program name) into cfg. With no
// arguments at all, or with --help, the usage text is written to out and
// ErrHelp is returned; --version prints the version and returns ErrVersion.
// A --config file fills in every setting not given on the command line.
func ParseFlags(cfg *Config, args []string, version string, out io.Writer) error {
	fs := pflag.NewFlagSet("vconcat", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(out, version) }

	if len(args) == 0 {
		printUsage(out, version)
		return ErrHelp
	}

	var negated negatedFlags

	defineIOFlags(fs, cfg)
	defineProcessingFlags(fs, cfg)
	defineAudioFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if negated.showHelp {
		printUsage(out, version)
		return ErrHelp
	}
	if negated.showVersion {
		fmt.Fprintln(out, "vconcat v"+version)
		return ErrVersion
	}
	if fs.NArg() > 0 {
		return errors.Newf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return err
		}
		fc.Apply(cfg, fs.Changed)
	}

	applyNegatedFlags(cfg, &negated)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineIOFlags registers --src-dir, --target, --dest, --work-dir.
func defineIOFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SrcDir, "src-dir", cfg.SrcDir, "Source directory")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "File extension to process")
	fs.StringVar(&cfg.Dest, "dest", cfg.Dest, "Output path")
	fs.StringVar(&cfg.WorkDir, "work-dir", cfg.WorkDir, "Working directory for intermediate files")
}

// defineProcessingFlags registers --strict, --inpose, --trailer, --normalize, --fadeout.
func defineProcessingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Strict, "strict", cfg.Strict, "Enforce resolution WxH (scale + pad)")
	fs.StringVar(&cfg.Inpose, "inpose", cfg.Inpose, "Overlay transparent PNG image")
	fs.StringVar(&cfg.Trailer, "trailer", cfg.Trailer, "Append trailer video at the end")
	fs.BoolVar(&cfg.Normalize, "normalize", cfg.Normalize, "Apply loudness normalization")
	fs.Float64Var(&cfg.FadeSeconds, "fadeout", cfg.FadeSeconds, "Fade out the last N seconds")
	fs.Lookup("fadeout").NoOptDefVal = formatNum(DefaultFadeSeconds)
}

// defineAudioFlags registers --audio, --audio-mode, --shortest.
func defineAudioFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Audio, "audio", cfg.Audio, "External audio file to mix or force replace")
	fs.Var(&audioModeValue{&cfg.AudioMode}, "audio-mode", "Audio mode: mix | force")
	fs.BoolVar(&cfg.Shortest, "shortest", cfg.Shortest, "End output with the shortest input")
}

// defineBehaviorFlags registers cleanup, concat mode, sort, dry-run and fail-fast.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Remove, "remove", cfg.Remove, "Move processed inputs to trash after done")
	fs.BoolVar(&cfg.Clean, "clean", cfg.Clean, "Delete the working directory after success")
	fs.Var(&concatModeValue{&cfg.ConcatMode}, "concat-mode", "Concat mode: copy | reencode")
	fs.Var(&sortModeValue{&cfg.SortMode}, "sort", "Input order: name | natural")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "Print ffmpeg commands without running them")
	fs.BoolVar(&cfg.FailFast, "fail-fast", cfg.FailFast, "Abort on the first failed ffmpeg stage")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log, --config.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVarP(&n.showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&n.showHelp, "help", "h", false, "Show this help and exit")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(out io.Writer, version string) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vconcat v" + version + " - video concatenation tool with ffmpeg"},
		{"", ""},
		{"  vconcat [OPTIONS]", ""},
		{"", ""},
		{"Input & output", ""},
		{"  --src-dir=DIR", "Source directory (default: current directory)"},
		{"  --target=EXT", "File extension to process (default: mp4)"},
		{"  --dest=FILE", "Output path (default: ./concat.mp4)"},
		{"  --work-dir=DIR", "Intermediate files (default: temp_concat_work)"},
		{"", ""},
		{"Processing", ""},
		{"  --strict=WxH", "Enforce resolution (e.g., 1920x1080)"},
		{"  --inpose=FILE", "Overlay transparent PNG image"},
		{"  --trailer=FILE", "Append trailer video at the end"},
		{"  --concat-mode=MODE", "\"copy\" (default) or \"reencode\""},
		{"  --sort=ORDER", "\"name\" (default) or \"natural\""},
		{"", ""},
		{"Audio", ""},
		{"  --audio=FILE", "External audio file to mix or force replace"},
		{"  --audio-mode=MODE", "\"mix\" (default) or \"force\""},
		{"  --shortest", "End output with the shortest input"},
		{"  --normalize", "Apply audio loudness normalization (-23 LUFS)"},
		{"  --fadeout[=SECONDS]", "Fade out video and audio (default: 3s; value needs '=')"},
		{"", ""},
		{"Behavior", ""},
		{"  --remove", "Move processed inputs to trash after done"},
		{"  --clean", "Delete the working directory after success"},
		{"  -n, --dry-run", "Print ffmpeg commands without running them"},
		{"  --fail-fast", "Abort on the first failed ffmpeg stage"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config=FILE", "YAML config file (flags take precedence)"},
		{"  -l, --log=FILE", "Append logs to file"},
		{"  --check", "System diagnostics (ffmpeg, ffprobe, encoders, filters)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Dependencies", ""},
		{"  ffmpeg and ffprobe must be installed and on PATH.", ""},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(out)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(out, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(out, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(out, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// pflag.Value adapters so we can use enum types with fs.Var.

type audioModeValue struct{ p *AudioMode }

func (a *audioModeValue) String() string { return string(*a.p) }
func (a *audioModeValue) Type() string   { return "mode" }
func (a *audioModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "mix":
		*a.p = AudioMix
	case "force":
		*a.p = AudioForce
	default:
		return errors.Newf("invalid audio mode %q (use 'mix' or 'force')", s)
	}
	return nil
}

type concatModeValue struct{ p *ConcatMode }

func (c *concatModeValue) String() string { return string(*c.p) }
func (c *concatModeValue) Type() string   { return "mode" }
func (c *concatModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "copy":
		*c.p = ConcatCopy
	case "reencode", "re-encode":
		*c.p = ConcatReencode
	default:
		return errors.Newf("invalid concat mode %q (use 'copy' or 'reencode')", s)
	}
	return nil
}

type sortModeValue struct{ p *SortMode }

func (s *sortModeValue) String() string { return string(*s.p) }
func (s *sortModeValue) Type() string   { return "order" }
func (s *sortModeValue) Set(v string) error {
	switch strings.ToLower(v) {
	case "name":
		*s.p = SortName
	case "natural":
		*s.p = SortNatural
	default:
		return errors.Newf("invalid sort order %q (use 'name' or 'natural')", v)
	}
	return nil
}

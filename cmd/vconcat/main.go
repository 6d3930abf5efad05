// Command vconcat is the CLI entrypoint for the vconcat video concatenation
// tool.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the concat pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/backmassage/vconcat/internal/check"
	"github.com/backmassage/vconcat/internal/config"
	"github.com/backmassage/vconcat/internal/display"
	"github.com/backmassage/vconcat/internal/logging"
	"github.com/backmassage/vconcat/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg, ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "vconcat: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, os.Args[1:], version, os.Stdout); err != nil {
		if errors.Is(err, config.ErrHelp) || errors.Is(err, config.ErrVersion) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "vconcat: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'vconcat --help' for usage.")
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vconcat: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vconcat: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Debug("vconcat v%s (%s)", version, commit)

	// ffmpeg is required; without ffprobe the run continues with the
	// audio-mix fallback and the fade-out degraded.
	if err := check.CheckDeps(&cfg); err != nil {
		if errors.Is(err, check.ErrFfprobeNotFound) {
			log.Warn("%v; --audio-mode=mix falls back to force and --fadeout is skipped", err)
		} else {
			log.Error("%v", err)
			log.Error("Install ffmpeg and make sure it is on PATH (or set %s)", config.EnvFFmpeg)
			return 1
		}
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// running ffmpeg is killed and no further stage starts.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		cancel()
	}()

	// Phase 4: Run pipeline.
	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		if !errors.Is(err, pipeline.ErrNoInputs) && !errors.Is(err, pipeline.ErrNormalizeFailed) {
			log.Error("%v", err)
			if hint := errors.FlattenHints(err); hint != "" {
				log.Error("Hint: %s", hint)
			}
		}
		return 1
	}
	return 0
}

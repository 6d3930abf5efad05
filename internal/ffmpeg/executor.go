package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Output string // Combined stdout and stderr.
	Err    error
}

// Executor runs one external command. The pipeline only talks to ffmpeg
// through this interface.
type Executor interface {
	Execute(ctx context.Context, args []string) ExecResult
}

// CommandExecutor runs commands with os/exec. When Tee is non-nil the
// combined output is also streamed to it in real time; otherwise it is
// captured silently for error reporting.
type CommandExecutor struct {
	Tee io.Writer
}

// Execute runs args[0] with args[1:] and blocks until it exits or ctx is
// cancelled (the process is killed).
func (e *CommandExecutor) Execute(ctx context.Context, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: errors.New("empty command")}
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var buf bytes.Buffer
	var w io.Writer = &buf
	if e.Tee != nil {
		w = io.MultiWriter(&buf, e.Tee)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	if err != nil {
		err = errors.Wrapf(err, "%s", filepath.Base(args[0]))
		if hint := Hint(buf.String()); hint != "" {
			err = errors.WithHint(err, hint)
		}
	}
	return ExecResult{Output: buf.String(), Err: err}
}

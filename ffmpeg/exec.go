package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Runner executes ffmpeg with the given arguments and returns its stderr.
// A non-nil error means the process did not exit successfully.
type Runner interface {
	Run(ctx context.Context, args []string) (stderr string, err error)
}

// ExecRunner runs a real ffmpeg binary.
type ExecRunner struct {
	Binary string // defaults to "ffmpeg"
}

// Run starts the binary and blocks until it exits.
func (r ExecRunner) Run(ctx context.Context, args []string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// Outcome describes a successful run.
type Outcome struct {
	Stderr       string
	UsedFallback bool
}

// RunWithFallback runs the primary arguments once. When that fails with an
// audio-related diagnostic it runs FallbackArgs exactly once and returns
// that result. Any other failure is returned without a retry.
//
// A cancelled ctx is never retried: the context error is returned wrapped so
// callers can tell an interrupt from an ffmpeg failure.
func RunWithFallback(ctx context.Context, r Runner, c Command) (Outcome, error) {
	slog.Debug("running ffmpeg", "command", c.String())

	stderr, err := r.Run(ctx, c.Args())
	if err == nil {
		return Outcome{Stderr: stderr}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Outcome{}, fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
	}
	if !IsAudioFailure(stderr) {
		return Outcome{}, &ExecError{Stderr: stderr, Err: err}
	}

	slog.Warn("audio copy failed, retrying with AAC encoding", "input", c.Input)

	stderr, err = r.Run(ctx, c.FallbackArgs())
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return Outcome{}, fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
	}
	if err != nil {
		return Outcome{}, &ExecError{Stderr: stderr, Fallback: true, Err: err}
	}
	return Outcome{Stderr: stderr, UsedFallback: true}, nil
}

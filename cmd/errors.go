package cmd

import (
	"context"
	"errors"

	"github.com/user/video-clip-cli/clip"
	"github.com/user/video-clip-cli/deps"
	"github.com/user/video-clip-cli/ffmpeg"
	"github.com/user/video-clip-cli/pkg/timeutil"
	"github.com/user/video-clip-cli/tui"
)

// Exit codes.
const (
	ExitGeneral    = 1
	ExitValidation = 2
	ExitToolAbsent = 3
	ExitToolFailed = 4
	ExitInterrupt  = 130
)

// exitCode maps an error to the process exit status so scripts can tell
// "ffmpeg is not installed" apart from "this clip failed".
func exitCode(err error) int {
	switch {
	case errors.Is(err, tui.ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupt
	case errors.Is(err, timeutil.ErrInvalidFormat),
		errors.Is(err, timeutil.ErrInvalidRange),
		errors.Is(err, clip.ErrFileNotFound),
		errors.Is(err, clip.ErrInvalidPath):
		return ExitValidation
	case errors.Is(err, deps.ErrNotInstalled):
		return ExitToolAbsent
	case errors.Is(err, ffmpeg.ErrFailed):
		return ExitToolFailed
	default:
		return ExitGeneral
	}
}

package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFailed matches any *ExecError.
var ErrFailed = errors.New("ffmpeg execution failed")

// ExecError carries the diagnostic output of a failed ffmpeg run.
type ExecError struct {
	Stderr   string
	Fallback bool // the failure came from the AAC fallback attempt
	Err      error
}

func (e *ExecError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if e.Fallback {
		return fmt.Sprintf("ffmpeg failed even with fallback: %s", detail)
	}
	return fmt.Sprintf("ffmpeg failed: %s", detail)
}

func (e *ExecError) Is(target error) bool { return target == ErrFailed }

func (e *ExecError) Unwrap() error { return e.Err }

// audioFailurePhrases are matched case-insensitively against stderr.
var audioFailurePhrases = []string{
	"codec not currently supported in container",
	"could not find codec parameters for stream",
	"invalid codec tag",
	"audio codec",
	"stream copy",
	"does not support codec",
}

// IsAudioFailure reports whether stderr looks like an audio stream that
// could not be copied into the output container.
func IsAudioFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, phrase := range audioFailurePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

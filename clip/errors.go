package clip

import (
	"errors"

	"github.com/user/video-clip-cli/deps"
)

var (
	// ErrFileNotFound indicates the input video does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath indicates the input path has no usable file name.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrToolNotFound indicates the ffmpeg version probe failed.
	ErrToolNotFound = deps.ErrNotInstalled
)

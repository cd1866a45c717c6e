package mpv

import (
	"os/exec"

	"github.com/user/video-clip-cli/deps"
)

// Launch starts mpv with the specified video file and IPC socket enabled,
// so a loop range marked in the player can later be read with GetLoopRange.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func Launch(videoPath, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--keep-open=yes",
		videoPath,
	)

	// Start the process (non-blocking)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}

// Preview plays a finished clip in a loop and blocks until mpv exits.
func Preview(clipPath string) error {
	if err := deps.CheckMpv(); err != nil {
		return err
	}
	return exec.Command("mpv", "--loop-file=inf", clipPath).Run()
}

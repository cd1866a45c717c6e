package deps

import (
	"errors"
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// ErrNotInstalled matches any *DependencyError.
var ErrNotInstalled = errors.New("dependency not installed")

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
	Optional   bool // only some commands need it
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not installed or not in PATH. Install from: %s", e.Name, e.InstallURL)
}

func (e *DependencyError) Is(target error) bool { return target == ErrNotInstalled }

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	_, err := exec.LookPath("mpv")
	if err != nil {
		return &DependencyError{
			Name:       "mpv",
			InstallURL: MpvInstallURL,
			Optional:   true,
		}
	}
	return nil
}

// CheckFfmpeg probes the ffmpeg binary by running "<binary> -version".
// An empty binary means "ffmpeg" from PATH.
func CheckFfmpeg(binary string) error {
	if binary == "" {
		binary = "ffmpeg"
	}
	if err := exec.Command(binary, "-version").Run(); err != nil {
		return &DependencyError{
			Name:       binary,
			InstallURL: FfmpegInstallURL,
		}
	}
	return nil
}

// CheckAll checks ffmpeg then mpv and returns a *DependencyError for each
// one that is missing.
func CheckAll(ffmpegBinary string) []error {
	var missing []error

	if err := CheckFfmpeg(ffmpegBinary); err != nil {
		missing = append(missing, err)
	}

	if err := CheckMpv(); err != nil {
		missing = append(missing, err)
	}

	return missing
}

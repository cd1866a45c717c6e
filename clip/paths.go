package clip

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/video-clip-cli/pkg/timeutil"
)

// OutputPath computes the output file for a clip of input.
// Filename format: {stem}_clip_{MM-SS}_to_{MM-SS}.mp4
func OutputPath(dir, input string, start, end float64) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "clip"
	}

	filename := fmt.Sprintf("%s_clip_%s_to_%s.mp4", stem, timeutil.FormatCompact(start), timeutil.FormatCompact(end))
	return filepath.Join(dir, filename)
}

// resolveInput returns the first existing candidate for input: the path as
// given, then the same file name inside outputDir.
func resolveInput(input, outputDir string, exists func(string) bool) (string, error) {
	base := filepath.Base(input)
	if strings.TrimSpace(input) == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, input)
	}

	candidates := []string{input}
	if outputDir != "" {
		candidates = append(candidates, filepath.Join(outputDir, base))
	}
	for _, c := range candidates {
		if exists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, input)
}

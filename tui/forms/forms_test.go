package forms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/video-clip-cli/tui/styles"
)

func TestValidateTime(t *testing.T) {
	for _, ok := range []string{"", "90", "1:30", "1h30m"} {
		if err := ValidateTime(ok); err != nil {
			t.Errorf("ValidateTime(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"abc:30", "h30m", "1:2:3:4"} {
		if err := ValidateTime(bad); err == nil {
			t.Errorf("ValidateTime(%q) = nil, want error", bad)
		}
	}
}

func TestValidateEnd(t *testing.T) {
	if err := ValidateEnd("  "); err == nil {
		t.Error("ValidateEnd(blank) = nil, want error")
	}
	if err := ValidateEnd("3:00"); err != nil {
		t.Errorf("ValidateEnd(3:00) = %v", err)
	}
}

func TestValidateInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "match.mp4")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateInput(`"` + file + `"`); err != nil {
		t.Errorf("quoted existing file: %v", err)
	}
	if err := ValidateInput(""); err == nil {
		t.Error("empty path accepted")
	}
	if err := ValidateInput(dir); err == nil {
		t.Error("directory accepted")
	}
	if err := ValidateInput(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestNewClipForm_OnlyAsksMissing(t *testing.T) {
	full := &ClipFormResult{Input: "a.mp4", Start: "0", End: "10"}
	if NewClipForm(full) != nil {
		t.Error("NewClipForm should return nil when every field is set")
	}

	partial := &ClipFormResult{Input: "a.mp4"}
	input, start, end := partial.Missing()
	if input || !start || !end {
		t.Errorf("Missing() = %v %v %v, want false true true", input, start, end)
	}
	if NewClipForm(partial) == nil {
		t.Error("NewClipForm returned nil with missing fields")
	}
}

func TestCleanPath(t *testing.T) {
	if got := CleanPath(`  '/videos/my match.mp4' `); got != "/videos/my match.mp4" {
		t.Errorf("CleanPath = %q", got)
	}
}

func TestTheme_FollowsOutputStyles(t *testing.T) {
	th := theme()
	if th.Focused.Title.GetForeground() != styles.Header.GetForeground() {
		t.Error("focused title should use the header colour")
	}
	if th.Blurred.Title.GetForeground() != styles.Muted.GetForeground() {
		t.Error("blurred title should be muted")
	}
	if th.Focused.SelectSelector.Value() != "› " {
		t.Errorf("select selector = %q", th.Focused.SelectSelector.Value())
	}
}

// Package forms provides huh-based prompts for collecting clip requests.
package forms

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/video-clip-cli/ffmpeg"
	"github.com/user/video-clip-cli/pkg/timeutil"
	"github.com/user/video-clip-cli/tui/styles"
)

// theme styles prompts with the clip output styles. Only input, select and
// confirm fields are covered.
func theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(styles.Cyan)
	t.Focused.Title = styles.Header
	t.Focused.Description = styles.Muted
	t.Focused.ErrorIndicator = styles.Warning.SetString(" ✗")
	t.Focused.ErrorMessage = styles.Warning.UnsetBold()

	t.Focused.TextInput.Prompt = styles.Notice
	t.Focused.TextInput.Cursor = styles.Notice
	t.Focused.TextInput.Text = styles.Value
	t.Focused.TextInput.Placeholder = styles.Muted

	t.Focused.SelectSelector = styles.Notice.SetString("› ")
	t.Focused.SelectedOption = styles.Value
	t.Focused.Option = lipgloss.NewStyle().Foreground(styles.LightLavender)

	t.Focused.FocusedButton = lipgloss.NewStyle().Padding(0, 2).Background(styles.Cyan).Foreground(styles.DeepPurple).Bold(true)
	t.Focused.BlurredButton = lipgloss.NewStyle().Padding(0, 2).Foreground(styles.Lavender)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = styles.Muted
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("  ")
	t.Blurred.TextInput.Prompt = styles.Muted

	return t
}

// ClipFormResult holds the values collected by the clip form. Fields that
// were already supplied on the command line are pre-filled and not asked.
type ClipFormResult struct {
	Input string
	Start string
	End   string
}

// Missing reports which fields still need to be asked.
func (r *ClipFormResult) Missing() (input, start, end bool) {
	return r.Input == "", r.Start == "", r.End == ""
}

// NewClipForm creates a huh form asking for whichever of input, start and
// end are empty in result. Returns nil when nothing is missing.
func NewClipForm(result *ClipFormResult) *huh.Form {
	askInput, askStart, askEnd := result.Missing()
	var fields []huh.Field

	if askInput {
		fields = append(fields, huh.NewInput().
			Title("Video file path").
			Description("The file must be accessible from this machine").
			Value(&result.Input).
			Validate(ValidateInput))
	}
	if askStart {
		fields = append(fields, huh.NewInput().
			Title("Start time").
			Description("e.g. 36:07, 2167 or 36m7s (empty = 0)").
			Value(&result.Start).
			Validate(ValidateTime))
	}
	if askEnd {
		fields = append(fields, huh.NewInput().
			Title("End time").
			Description("e.g. 37:19, 2239 or 37m19s").
			Value(&result.End).
			Validate(ValidateEnd))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(theme())
}

// NewAudioCodecForm creates a select for the audio policy.
func NewAudioCodecForm(codec *ffmpeg.AudioCodec) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ffmpeg.AudioCodec]().
				Title("Audio").
				Options(
					huh.NewOption("auto (copy, re-encode to AAC if needed)", ffmpeg.AudioAuto),
					huh.NewOption("copy", ffmpeg.AudioCopy),
					huh.NewOption("aac", ffmpeg.AudioAAC),
					huh.NewOption("mp3", ffmpeg.AudioMP3),
				).
				Value(codec),
		),
	).WithTheme(theme())
}

// NewConfirmOverwriteForm asks before replacing an existing output file.
func NewConfirmOverwriteForm(path string, overwrite *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing clip?").
				Description(path).
				Affirmative("Yes, overwrite").
				Negative("No, cancel").
				Value(overwrite),
		),
	).WithTheme(theme())
}

// CleanPath strips whitespace and the quotes terminals add around dragged-in paths.
func CleanPath(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// ValidateInput requires a path to an existing regular file.
func ValidateInput(s string) error {
	p := CleanPath(s)
	if p == "" {
		return errors.New("file path is required")
	}
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("file not found: %s", p)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a video file: %s", p)
	}
	return nil
}

// ValidateTime accepts anything timeutil.Parse accepts, including empty.
func ValidateTime(s string) error {
	_, err := timeutil.Parse(s)
	return err
}

// ValidateEnd is ValidateTime but rejects empty input.
func ValidateEnd(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("end time is required")
	}
	return ValidateTime(s)
}

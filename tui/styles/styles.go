// Package styles provides Lipgloss styles for terminal output using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// DeepPurple is the main background colour (Ciapre background)
	DeepPurple = lipgloss.Color("#191C27")
	// Purple is the border/dim accent colour (Ciapre ANSI 6 brown)
	Purple = lipgloss.Color("#5C4F4B")
	// BrightPurple is used for highlights and focus states (Ciapre ANSI 5 magenta)
	BrightPurple = lipgloss.Color("#724D7C")
	// Lavender is a secondary text colour (Ciapre foreground)
	Lavender = lipgloss.Color("#AEA47A")
	// LightLavender is the primary text colour (Ciapre ANSI 14 cream)
	LightLavender = lipgloss.Color("#F3DBB2")
	// Pink is an accent colour for headers (Ciapre ANSI 13 bright magenta)
	Pink = lipgloss.Color("#D33061")
	// Cyan is used for paths and values (Ciapre ANSI 12 bright blue)
	Cyan = lipgloss.Color("#3097C6")
	// Amber is a warm accent for notices (Ciapre derived)
	Amber = lipgloss.Color("#CC8B3F")
	// Red is used for errors (Ciapre ANSI 1)
	Red = lipgloss.Color("#AC3835")
	// Green is used for success messages (Ciapre ANSI 2)
	Green = lipgloss.Color("#A6A75D")
)

// Banner frames the program title.
var Banner = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder(), true, false).
	BorderForeground(Cyan).
	Foreground(Pink).
	Bold(true).
	Padding(0, 2)

// Header is used for section headings such as "Creating clip:".
var Header = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true)

// Label is the style for the left column of key/value lines.
var Label = lipgloss.NewStyle().
	Foreground(Lavender).
	Width(10)

// Value is the style for values and paths.
var Value = lipgloss.NewStyle().
	Foreground(Cyan)

// Muted is for secondary detail like the full ffmpeg command.
var Muted = lipgloss.NewStyle().
	Foreground(Purple)

// Notice is for non-fatal warnings.
var Notice = lipgloss.NewStyle().
	Foreground(Amber)

// Warning is the style for error messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// KeyValue renders an aligned "label value" line.
func KeyValue(label, value string) string {
	return "   " + Label.Render(label) + " " + Value.Render(value)
}

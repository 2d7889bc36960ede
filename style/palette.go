package style

import "github.com/charmbracelet/lipgloss"

// Colors of the interactive views. Command line output uses the terminal's
// own ANSI colors from the color package instead.
var (
	Base = lipgloss.Color("#1e1e2e")
	Text = lipgloss.Color("#cdd6f4")

	AccentColor  = lipgloss.Color("#cba6f7")
	SuccessColor = lipgloss.Color("#a6e3a1")
	WarningColor = lipgloss.Color("#f9e2af")
	ErrorColor   = lipgloss.Color("#f38ba8")
	// HiRed frames failure reports.
	HiRed = ErrorColor
)

// Package color holds the terminal colors used by the command line output.
package color

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/reelbox/reelbox/player"
)

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, so output follows the terminal theme.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiPurple = New("13")
	Orange   = New("#ffb703")
)

// ForState colors a controller state.
func ForState(s player.State) lipgloss.Color {
	switch s {
	case player.Playing:
		return Green
	case player.Stopping:
		return Yellow
	case player.Uninitialized:
		return Red
	default:
		return Blue
	}
}

// ForEvent colors a lifecycle event. Failures are red, anything that ends
// playback without failing is yellow.
func ForEvent(kind player.EventKind) lipgloss.Color {
	switch kind {
	case player.Started:
		return Green
	case player.Restarted:
		return Cyan
	case player.RestartFailed:
		return Red
	default:
		return Yellow
	}
}

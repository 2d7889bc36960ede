// Package style composes the lipgloss styles shared by the command line and the TUI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/reelbox/reelbox/color"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a function rendering its argument in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

// Truncate returns a function cutting its argument to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a view heading.
var Title = banner(color.New("62"))

// ErrorTitle renders the heading of an error view.
var ErrorTitle = banner(color.Red)

func banner(bg lipgloss.Color) func(string) string {
	return func(s string) string {
		return New().Foreground(color.New("230")).Background(bg).Padding(0, 1).Render(s)
	}
}

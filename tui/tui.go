// Package tui provides the terminal status view of the player.
package tui

import (
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// Library lists the playable clips on the mounted volume.
type Library interface {
	Clips(exts ...string) ([]storage.Entry, error)
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Player  player.Player
	Library Library
	Exts    []string

	// Subscribe, when set, feeds controller events into the notification line.
	Subscribe func(player.EventCallback) (unsubscribe func())
}

// Run executes the Bubble Tea program until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer bubble.close()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

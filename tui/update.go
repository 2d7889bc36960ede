package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelbox/reelbox/internal/ui"
	"github.com/reelbox/reelbox/player"
)

var errNothingToReplay = errors.New("nothing to replay")

// invalidator is implemented by libraries that cache their listing.
type invalidator interface {
	Invalidate()
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if b.state == loadingState {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			cmds = append(cmds, cmd)
		}
	case clipsMsg:
		cmds = append(cmds, b.setClips(msg))
		if b.state == loadingState {
			b.setState(clipsState)
		}
	case statusMsg:
		b.status = player.Status(msg)
		b.markCurrent()
		cmds = append(cmds, b.pollStatus())
	case eventMsg:
		cmds = append(cmds, ui.Notify(ui.Describe(player.Event(msg))), b.waitForEvent())
	case commandMsg:
		if msg.err != nil {
			cmds = append(cmds, ui.Notify(msg.err.Error()))
		}
		b.status = b.player.Status()
		b.markCurrent()
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
		cmds = append(cmds, b.handleKey(msg))
	}

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch b.state {
	case errorState:
		switch {
		case key.Matches(msg, b.keymap.back):
			return b.back()
		case key.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
		return nil
	case loadingState:
		return nil
	}

	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.play):
		path, ok := b.selectedPath()
		if !ok {
			return nil
		}
		return b.run(func(ctx context.Context) error { return b.player.Play(ctx, path) })
	case key.Matches(msg, b.keymap.stop):
		return b.run(b.player.Stop)
	case key.Matches(msg, b.keymap.replay):
		path := b.status.Path
		if path == "" {
			return ui.Notify(errNothingToReplay.Error())
		}
		return b.run(func(ctx context.Context) error { return b.player.Play(ctx, path) })
	case key.Matches(msg, b.keymap.loop):
		b.player.SetLoop(!b.player.Status().Loop)
		b.status = b.player.Status()
		return nil
	case key.Matches(msg, b.keymap.refresh):
		if l, ok := b.library.(invalidator); ok {
			l.Invalidate()
		}
		return b.loadClips()
	}

	var cmd tea.Cmd
	b.clipsC, cmd = b.clipsC.Update(msg)
	return cmd
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/style"
)

// statefulKeymap holds every binding and shows those of the current view in help.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	play, stop, replay, loop, refresh,
	back,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func newStatefulKeymap() *statefulKeymap {
	accent := style.Fg(color.Orange)

	return &statefulKeymap{
		quit:      bind("q", "quit", "q"),
		forceQuit: bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),
		play:      bind(accent("enter"), accent("play"), "enter"),
		stop:      bind("s", "stop", "s"),
		replay:    bind("r", "replay", "r"),
		loop:      bind("l", "toggle loop", "l"),
		refresh:   bind("ctrl+r", "rescan volume", "ctrl+r"),
		back:      bind("esc", "back", "esc"),
		up:        bind("↑", "up", "up", "k"),
		down:      bind("↓", "down", "down", "j"),
		left:      bind("←", "prev page", "left", "h"),
		right:     bind("→", "next page", "right"),
		top:       bind("g", "first clip", "g"),
		bottom:    bind("G", "last clip", "G"),
		showHelp:  bind("?", "help", "?"),
	}
}

// help lists the bindings of the current view, the transport keys first.
func (k *statefulKeymap) help() (short, full []key.Binding) {
	switch k.state {
	case loadingState:
		return []key.Binding{k.forceQuit}, []key.Binding{k.forceQuit}
	case clipsState:
		transport := []key.Binding{k.play, k.stop, k.replay, k.loop}
		return transport, append(transport[:len(transport):len(transport)], k.refresh, k.quit)
	case errorState:
		return []key.Binding{k.back, k.quit}, []key.Binding{k.back, k.quit}
	default:
		return nil, nil
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.play,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

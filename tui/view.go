package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/util"
)

const (
	// statusLines is the height reserved below the clip list.
	statusLines   = 4
	maxErrorWidth = 100
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case clipsState:
		output = b.viewClips()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(paddingStyle.Render(output))
}

func (b *statefulBubble) viewLoading() string {
	return strings.Join([]string{
		style.Title("Loading"),
		"",
		b.spinnerC.View() + " scanning volume",
	}, "\n")
}

func (b *statefulBubble) viewClips() string {
	return strings.Join([]string{
		b.clipsC.View(),
		"",
		b.viewStatus(),
		b.helpC.View(b.keymap),
	}, "\n")
}

func (b *statefulBubble) viewStatus() string {
	st := b.status

	state := icon.Get(icon.ForState(st.State)) + " " + st.State.String()
	switch st.State {
	case player.Playing:
		state = style.Fg(style.SuccessColor)(state + " " + st.Path)
	case player.Stopping:
		state = style.Fg(style.WarningColor)(state)
	default:
		state = style.Faint(state)
	}

	loop := style.Faint("loop off")
	if st.Loop {
		loop = style.Fg(style.AccentColor)(icon.Get(icon.Loop) + " loop on")
	}

	frames := style.Faint(fmt.Sprintf("%d video / %d audio frames", st.VideoFrames, st.AudioFrames))
	return strings.Join([]string{state, loop, frames}, "  ")
}

func (b *statefulBubble) viewError() string {
	width := b.width
	if width <= 0 {
		width = 80
	}
	width = util.Clamp(width-4, 20, maxErrorWidth)

	msg := "unknown error"
	if b.lastError != nil {
		msg = b.lastError.Error()
	}

	return strings.Join([]string{
		style.ErrorTitle("Error"),
		"",
		style.Fg(color.Red)(icon.Get(icon.Fail) + " " + wrap.String(msg, width)),
		"",
		b.helpC.View(b.keymap),
	}, "\n")
}

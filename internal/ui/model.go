// Package ui provides ephemeral terminal notifications for the status view.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelbox/reelbox/player"
)

// Model holds the notification currently on screen.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotificationMsg asks the model to show a message.
type NotificationMsg string

// ClearNotificationMsg is a Bubbletea message used to reset the visual notification state.
type ClearNotificationMsg struct {
	at time.Time
}

// Notify returns a tea.Cmd showing text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// Describe renders a controller event as a notification line.
func Describe(e player.Event) string {
	switch e.Kind {
	case player.Started:
		return "Playing " + e.Path
	case player.Stopped:
		return "Stopped " + e.Path
	case player.EndOfStream:
		return "End of " + e.Path
	case player.Restarted:
		return fmt.Sprintf("Looped %s (attempt %d)", e.Path, e.Attempt)
	case player.RestartFailed:
		return fmt.Sprintf("Loop failed for %s: %v", e.Path, e.Err)
	case player.RestartAbandoned:
		return "Loop abandoned for " + e.Path
	default:
		return e.Kind.String()
	}
}

// ClearNotification returns a delayed tea.Cmd that clears the notification shown at at.
func ClearNotification(at time.Time) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearNotificationMsg{at: at}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.notifiedAt = time.Now()
		return ClearNotification(m.notifiedAt)
	case ClearNotificationMsg:
		// a newer notification has its own timer
		if msg.at.Equal(m.notifiedAt) {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// Current returns the notification on screen, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	// Standardize on a low-intensity ANSI escape sequence to minimize visual noise.
	lines := strings.Split(mainContent, "\n")
	notifier := "\033[90m" + m.notification + "\033[0m"

	if len(lines) > 0 {
		lines[len(lines)-1] = lines[len(lines)-1] + "  " + notifier
	}
	return strings.Join(lines, "\n")
}

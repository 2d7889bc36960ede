package tui

import (
	"fmt"

	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/util"
)

// listItem wraps a clip for the list component.
type listItem struct {
	entry   storage.Entry
	current bool
}

// Title is the clip path, marked when it is the clip on screen.
func (t *listItem) Title() string {
	if t.current {
		return fmt.Sprintf("%s %s", t.entry.Path, style.Fg(style.AccentColor)(icon.Get(icon.Play)))
	}
	return t.entry.Path
}

// Description shows the clip name and size.
func (t *listItem) Description() string {
	return style.Faint(fmt.Sprintf("%s · %s", util.FileStem(t.entry.Name), util.Size(t.entry.Size)))
}

// FilterValue implements list.Item.
func (t *listItem) FilterValue() string {
	return t.entry.Path
}

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelbox/reelbox/internal/ui"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/samber/lo"
)

const (
	statusInterval = 250 * time.Millisecond
	commandTimeout = 5 * time.Second
)

// statefulBubble is the status view model.
type statefulBubble struct {
	state         state
	// statesHistory holds the views an error interrupted, latest last.
	statesHistory []state
	keymap        *statefulKeymap

	spinnerC spinner.Model
	clipsC   list.Model
	helpC    help.Model
	notifier *ui.Model

	player  player.Player
	library Library
	exts    []string

	status    player.Status
	lastError error

	eventsChannel chan player.Event
	unsubscribe   func()

	width, height int
}

type (
	statusMsg  player.Status
	clipsMsg   []storage.Entry
	eventMsg   player.Event
	commandMsg struct{ err error }
)

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()

	b := &statefulBubble{
		keymap:   keymap,
		spinnerC: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.New().Foreground(style.AccentColor))),
		helpC:    help.New(),
		notifier: &ui.Model{},
		player:   options.Player,
		library:  options.Library,
		exts:     options.Exts,
	}

	b.clipsC = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	b.clipsC.Title = "Clips"
	b.clipsC.KeyMap = keymap.forList()
	b.clipsC.SetShowHelp(false)
	b.clipsC.SetFilteringEnabled(false)
	b.clipsC.Styles.Title = style.New().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)

	if options.Subscribe != nil {
		b.eventsChannel = make(chan player.Event, 16)
		b.unsubscribe = options.Subscribe(func(e player.Event) {
			select {
			case b.eventsChannel <- e:
			default:
			}
		})
	}

	b.status = b.player.Status()
	b.setState(loadingState)
	return b
}

func (b *statefulBubble) close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	if b.state != errorState {
		b.statesHistory = append(b.statesHistory, b.state)
	}
	b.setState(errorState)
}

// back leaves the error view for the view it interrupted.
func (b *statefulBubble) back() tea.Cmd {
	b.lastError = nil

	previous := clipsState
	if n := len(b.statesHistory); n > 0 {
		previous = b.statesHistory[n-1]
		b.statesHistory = b.statesHistory[:n-1]
	}
	b.setState(previous)

	if previous == loadingState {
		return tea.Batch(b.spinnerC.Tick, b.loadClips())
	}
	return b.loadClips()
}

func (b *statefulBubble) resize(width, height int) {
	b.width, b.height = width, height
	b.helpC.Width = width

	x, y := paddingStyle.GetFrameSize()
	b.clipsC.SetSize(width-x, height-y-statusLines)
}

// Init loads the clip list and starts status polling.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.loadClips(), b.pollStatus(), b.waitForEvent())
}

func (b *statefulBubble) loadClips() tea.Cmd {
	return func() tea.Msg {
		clips, err := b.library.Clips(b.exts...)
		if err != nil {
			return err
		}
		return clipsMsg(clips)
	}
}

func (b *statefulBubble) pollStatus() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusMsg(b.player.Status())
	})
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	if b.eventsChannel == nil {
		return nil
	}
	return func() tea.Msg {
		return eventMsg(<-b.eventsChannel)
	}
}

// run executes a player operation off the UI goroutine.
func (b *statefulBubble) run(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandMsg{err: op(ctx)}
	}
}

func (b *statefulBubble) selectedPath() (string, bool) {
	item, ok := b.clipsC.SelectedItem().(*listItem)
	if !ok {
		return "", false
	}
	return item.entry.Path, true
}

func (b *statefulBubble) setClips(clips []storage.Entry) tea.Cmd {
	items := lo.Map(clips, func(e storage.Entry, _ int) list.Item {
		return &listItem{entry: e, current: e.Path == b.status.Path}
	})
	return b.clipsC.SetItems(items)
}

func (b *statefulBubble) markCurrent() {
	for _, it := range b.clipsC.Items() {
		if item, ok := it.(*listItem); ok {
			item.current = item.entry.Path == b.status.Path && b.status.State == player.Playing
		}
	}
}

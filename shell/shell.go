// Package shell implements an interactive command prompt driving a player.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/util"
	"github.com/samber/lo"
)

var logger = log.For("shell")

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

// Library lists the playable clips on the mounted volume.
type Library interface {
	Clips(exts ...string) ([]storage.Entry, error)
}

// Shell executes textual commands against a player.
type Shell struct {
	player  player.Player
	library Library
	exts    []string
}

// New returns a shell controlling p. Clips are listed from library, filtered by exts.
func New(p player.Player, library Library, exts ...string) *Shell {
	return &Shell{player: p, library: library, exts: exts}
}

const help = `commands:
  play <path>     start a clip, the rest of the line is the path
  stop            stop playback
  loop on|off     arm or disarm looping
  status          show the player state
  clips           list clips on the volume
  help            show this help
  quit            leave the shell`

// Exec runs a single command line and writes its output to w.
func (s *Shell) Exec(ctx context.Context, line string, w io.Writer) error {
	name, rest := splitCommand(line)
	if name == "" {
		return nil
	}

	cmd, args := strings.ToLower(name), strings.Fields(rest)

	switch cmd {
	case "play", "p":
		path := unquote(rest)
		if path == "" {
			return fmt.Errorf("usage: play <path>")
		}
		if err := s.player.Play(ctx, path); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n", icon.Get(icon.Play), style.Bold(path))
	case "stop", "s":
		if err := s.player.Stop(ctx); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s stopped\n", icon.Get(icon.Stop))
	case "loop", "l":
		if len(args) != 1 || !lo.Contains([]string{"on", "off"}, args[0]) {
			return fmt.Errorf("usage: loop on|off")
		}
		s.player.SetLoop(args[0] == "on")
		fmt.Fprintf(w, "%s loop %s\n", icon.Get(icon.Loop), args[0])
	case "status", "st":
		fmt.Fprintln(w, FormatStatus(s.player.Status()))
	case "clips", "ls":
		clips, err := s.library.Clips(s.exts...)
		if err != nil {
			return err
		}
		for _, c := range clips {
			fmt.Fprintf(w, "%s %s %s\n", icon.Get(icon.Clip), c.Path, style.Faint(util.Size(c.Size)))
		}
		fmt.Fprintln(w, style.Faint(util.Quantify(len(clips), "clip", "clips")))
	case "help", "?":
		fmt.Fprintln(w, help)
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}

	return nil
}

// splitCommand separates the command word from the rest of the line.
func splitCommand(line string) (name, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// FormatStatus renders a status as a single line.
func FormatStatus(st player.Status) string {
	var b strings.Builder

	b.WriteString(icon.Get(icon.ForState(st.State)) + " " + st.State.String())
	switch {
	case st.State == player.Playing:
		b.WriteString(" " + style.Bold(st.Path))
	case st.Path != "":
		b.WriteString(style.Faint(" (last " + st.Path + ")"))
	}

	if st.Loop {
		b.WriteString(" " + icon.Get(icon.Loop))
	}

	b.WriteString(style.Faint(fmt.Sprintf(" session %d, %s", st.Session, util.Quantify(int(st.VideoFrames), "frame", "frames"))))
	return b.String()
}

// Run reads commands from the terminal until quit, EOF or ctx ends.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          style.Fg(style.AccentColor)("reelbox> "),
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	defer closeOnCancel(ctx, rl)()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		err = s.Exec(ctx, line, rl.Stdout())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			logger.WithError(err).Debugf("command %q", line)
			fmt.Fprintf(rl.Stderr(), "%s %s\n", icon.Get(icon.Fail), style.Fg(style.ErrorColor)(err.Error()))
		}
	}
}

// closeOnCancel closes c once ctx ends. The returned func detaches c from ctx.
func closeOnCancel(ctx context.Context, c io.Closer) (stop func() bool) {
	return context.AfterFunc(ctx, func() { _ = c.Close() })
}

func (s *Shell) completer() *readline.PrefixCompleter {
	clips := func(string) []string {
		entries, err := s.library.Clips(s.exts...)
		if err != nil {
			return nil
		}
		return lo.Map(entries, func(e storage.Entry, _ int) string { return e.Path })
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("play", readline.PcItemDynamic(clips)),
		readline.PcItem("stop"),
		readline.PcItem("loop", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("status"),
		readline.PcItem("clips"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

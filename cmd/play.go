package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/internal/ui"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("once", "o", false, "Exit when the clip reaches its end instead of looping")
}

// playCmd plays one clip in the foreground until interrupted.
var playCmd = &cobra.Command{
	Use:   "play [clip]",
	Short: "Play a clip from the volume in the foreground",
	Long: `Play a clip from the volume in the foreground until interrupted.
The clip may be given as an exact volume path or a fuzzy name; without an argument a picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		once := lo.Must(cmd.Flags().GetBool("once"))

		a, err := newApp()
		handleErr(err)
		defer a.close()

		clips, err := a.library.Clips(a.exts...)
		handleErr(err)

		var query string
		if len(args) > 0 {
			query = args[0]
		}

		path, err := resolveClip(query, clips)
		if errors.Is(err, terminal.InterruptErr) {
			return
		}
		handleErr(err)

		if once {
			a.controller.SetLoop(false)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ended := make(chan struct{}, 1)
		unsubscribe := a.controller.Subscribe(func(e player.Event) {
			cmd.Printf("%s %s\n", eventIcon(e.Kind), ui.Describe(e))

			finished := e.Kind == player.RestartFailed ||
				e.Kind == player.RestartAbandoned ||
				(e.Kind == player.EndOfStream && !a.controller.Loop())
			if finished {
				select {
				case ended <- struct{}{}:
				default:
				}
			}
		})
		defer unsubscribe()

		handleErr(a.controller.Play(ctx, path))

		select {
		case <-ctx.Done():
		case <-ended:
		}
	},
}

// resolveClip picks the clip to play: an exact volume path, the best fuzzy match,
// or the user's choice from a picker when query is empty or ambiguous.
func resolveClip(query string, clips []storage.Entry) (string, error) {
	if len(clips) == 0 {
		return "", fmt.Errorf("%w: the volume holds no playable clips", player.ErrNotFound)
	}

	paths := lo.Map(clips, func(e storage.Entry, _ int) string { return e.Path })

	if query != "" {
		if lo.Contains(paths, query) {
			return query, nil
		}

		ranks := fuzzy.RankFindFold(query, paths)
		if len(ranks) == 0 {
			return "", fmt.Errorf("%w: no clip matches %q", player.ErrNotFound, query)
		}

		sort.Sort(ranks)
		if len(ranks) == 1 {
			return ranks[0].Target, nil
		}

		paths = lo.Map(ranks, func(r fuzzy.Rank, _ int) string { return r.Target })
	}

	var chosen string
	err := survey.AskOne(&survey.Select{
		Message: "Which clip?",
		Options: paths,
	}, &chosen)
	return chosen, err
}

func eventIcon(kind player.EventKind) string {
	return style.Fg(color.ForEvent(kind))(icon.Get(icon.ForEvent(kind)))
}

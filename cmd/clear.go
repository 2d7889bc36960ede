package cmd

import (
	"fmt"

	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/history"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/util"
	"github.com/reelbox/reelbox/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// removable is a file or directory reelbox can recreate from scratch.
type removable struct {
	flag, short, label string
	path               func() string
}

var removables = []removable{
	{"history", "s", "Playback history", where.History},
	{"logs", "l", "Logs", where.Logs},
	{"temp", "t", "Temporary files", where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, r := range removables {
		clearCmd.Flags().BoolP(r.flag, r.short, false, "delete "+r.label)
	}
	clearCmd.Flags().StringP("clip", "c", "", "forget the history of a single clip")
	clearCmd.MarkFlagsMutuallyExclusive("clip", "history")
	_ = clearCmd.RegisterFlagCompletionFunc("clip", completionHistory)
}

func completionHistory(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	clips, err := history.Sorted()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(clips, func(c *history.Clip, _ int) string { return c.Path }), cobra.ShellCompDirectiveNoFileComp
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete playback history, logs or temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		cleared := false

		if clip := lo.Must(cmd.Flags().GetString("clip")); clip != "" {
			handleErr(history.Remove(clip))
			fmt.Printf("%s forgot %s\n", icon.Get(icon.Success), clip)
			cleared = true
		}

		for _, r := range removables {
			if !lo.Must(cmd.Flags().GetBool(r.flag)) {
				continue
			}

			erase := util.PrintErasable(fmt.Sprintf("%s deleting %s...", icon.Get(icon.Progress), r.path()))
			err := filesystem.API().RemoveAll(r.path())
			erase()
			handleErr(err)

			fmt.Printf("%s %s deleted\n", icon.Get(icon.Success), r.label)
			cleared = true
		}

		if !cleared {
			handleErr(cmd.Help())
		}
	},
}

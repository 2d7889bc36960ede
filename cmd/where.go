package cmd

import (
	"os"

	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a path reelbox reads or writes.
type location struct {
	flag  string
	short mo.Option[string]
	about string
	path  func() string
}

var locations = []location{
	{"volume", mo.Some("v"), "Clips are played from here. Set storage.root or pass --root to change it", volumeRoot},
	{"config", mo.Some("c"), "Config file directory, overridden by " + where.EnvConfigPath, where.Config},
	{"history", mo.None[string](), "Playback history", where.History},
	{"logs", mo.Some("l"), "Log files, written when logs.write is on", where.Logs},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		if short, ok := l.short.Get(); ok {
			whereCmd.Flags().BoolP(l.flag, short, false, "print only the "+l.flag+" path")
		} else {
			whereCmd.Flags().Bool(l.flag, false, "print only the "+l.flag+" path")
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where reelbox finds clips and keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		for i, l := range locations {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", style.Bold(l.flag), style.Faint(l.about))
			cmd.Println(style.Fg(color.Yellow)(l.path()))
		}
	},
}

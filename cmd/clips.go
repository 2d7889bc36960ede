package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reelbox/reelbox/history"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/network"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clipsCmd)
	clipsCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	clipsCmd.Flags().StringP("remote", "R", "", "List the clips of a running control server at this address instead")

	clipsCmd.SetOut(os.Stdout)
}

// clipsCmd lists the playable clips on the volume with their history.
var clipsCmd = &cobra.Command{
	Use:     "clips",
	Short:   "List the playable clips on the media volume",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		var clips []storage.Entry

		if addr := lo.Must(cmd.Flags().GetString("remote")); addr != "" {
			var err error
			clips, err = network.NewRemote(addr).Clips()
			handleErr(err)
		} else {
			a, err := newApp()
			handleErr(err)
			defer a.close()

			clips, err = a.library.Clips(a.exts...)
			handleErr(err)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(clips))
			return
		}

		if len(clips) == 0 {
			cmd.Printf("%s no playable clips\n", icon.Get(icon.Warn))
			return
		}

		// history is advisory here
		saved, _ := history.Get()

		pathWidth := lo.Max(lo.Map(clips, func(c storage.Entry, _ int) int { return len(c.Path) }))

		truncate := func(s string) string { return s }
		if width, _, err := util.TerminalSize(); err == nil && width > 0 {
			truncate = style.Truncate(width)
		}

		for _, c := range clips {
			line := fmt.Sprintf(
				"%s %s %s",
				icon.Get(icon.Clip),
				style.Bold(fmt.Sprintf("%-*s", pathWidth, c.Path)),
				style.Faint(fmt.Sprintf("%9s", humanSize(c.Size))),
			)
			if record, ok := saved[c.Path]; ok {
				line += "  " + style.Faint(record.String())
			}
			cmd.Println(truncate(line))
		}
	},
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

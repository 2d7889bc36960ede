package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/sink"
	"github.com/reelbox/reelbox/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version, build and the playback capabilities compiled in",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		rows := [][2]string{
			{"Version", constant.Version},
			{"Commit", constant.Revision},
			{"Built", strings.TrimSpace(constant.BuiltAt) + " by " + constant.BuiltBy},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			{"Clips", strings.Join([]string{constant.ExtWAV, constant.ExtRaw, constant.ExtRGB, constant.ExtVid}, " ")},
			{"Panel", fmt.Sprintf("%dx%d, %d byte frames", constant.PanelWidth, constant.PanelHeight, constant.PanelFrameSize)},
			{"Audio", sink.AudioBackend},
		}

		labels := lipgloss.JoinVertical(lipgloss.Left, lo.Map(rows, func(r [2]string, _ int) string {
			return style.Faint(r[0])
		})...)
		values := lipgloss.JoinVertical(lipgloss.Left, lo.Map(rows, func(r [2]string, _ int) string {
			return style.Bold(r[1])
		})...)

		cmd.Println(style.Fg(color.Purple)(constant.Reelbox))
		cmd.Println(lipgloss.JoinHorizontal(lipgloss.Top, labels, "   ", values))
	},
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelbox/reelbox/config"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/storage"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd verifies that the volume can be mounted and holds playable clips.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the media volume and decoder configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.LastCheck(); err != nil {
			printProblem("Invalid settings replaced by defaults", err.Error(), "reelbox config check")
		}

		root := volumeRoot()
		volume := storage.NewVolume()
		if err := volume.Mount(root); err != nil {
			printProblem("Volume unavailable", err.Error(), fmt.Sprintf("Set %s or pass --root", key.StorageRoot))
			os.Exit(1)
		}
		defer volume.Unmount()

		engine, err := newEngine(volume)
		if err != nil {
			printProblem("Decoder misconfigured", err.Error(), fmt.Sprintf("reelbox config set %s auto", key.DecoderEngine))
			os.Exit(1)
		}

		exts := engine.Extensions()
		slices.Sort(exts)

		clips, err := volume.Clips(exts...)
		handleErr(err)

		cmd.Printf("%s volume mounted at %s\n", icon.Get(icon.Success), style.Bold(root))
		cmd.Printf("%s decoding %s\n", icon.Get(icon.Success), strings.Join(exts, " "))

		if len(clips) == 0 {
			printProblem("No playable clips", "The volume holds no file with a supported extension.", "Copy clips into "+root)
			os.Exit(1)
		}

		cmd.Printf("%s %s found\n", icon.Get(icon.Success), util.Quantify(len(clips), "clip", "clips"))

		if size := viper.GetInt(key.PlayerBufferSize); size < viper.GetInt(key.DecoderRawFrameSize) {
			cmd.Printf(
				"%s decode buffer (%d bytes) is smaller than a raw frame (%d bytes), frames will be truncated\n",
				icon.Get(icon.Warn), size, viper.GetInt(key.DecoderRawFrameSize),
			)
		}

		empty := lo.Filter(clips, func(e storage.Entry, _ int) bool { return e.Size == 0 })
		for _, e := range empty {
			cmd.Printf("%s %s is empty\n", icon.Get(icon.Warn), e.Path)
		}
	},
}

func printProblem(title, body, suggestion string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	heading := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s %s", icon.Get(icon.Fail), title))
	text := style.New().Foreground(style.Text).Render(body)
	hint := fmt.Sprintf("\n\nTry:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(suggestion))

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, heading, "\n", text, hint)))
}

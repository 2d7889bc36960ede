// Package cmd implements the command-line interface for reelbox.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/tui"
	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record playback sessions in the local history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("root", "r", "", "Root directory of the media volume")
	lo.Must0(rootCmd.MarkPersistentFlagDirname("root"))
	lo.Must0(viper.BindPFlag(key.StorageRoot, rootCmd.PersistentFlags().Lookup("root")))

	rootCmd.PersistentFlags().Bool("loop", true, "Restart clips when they reach the end")
	lo.Must0(viper.BindPFlag(key.PlayerLoop, rootCmd.PersistentFlags().Lookup("loop")))

	go func() {
		_ = filesystem.API().RemoveAll(where.Temp())
	}()
}

// rootCmd opens the terminal player on the configured volume.
var rootCmd = &cobra.Command{
	Use:   constant.Reelbox,
	Short: "A lifecycle controller for looping media playback",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A lifecycle controller for looping media playback"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		a, err := newApp()
		handleErr(err)
		defer a.close()

		handleErr(tui.Run(&tui.Options{
			Player:    a.controller,
			Library:   a.library,
			Exts:      a.exts,
			Subscribe: a.controller.Subscribe,
		}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

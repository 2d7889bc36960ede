package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/reelbox/reelbox/network"
	"github.com/reelbox/reelbox/shell"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringP("remote", "R", "", "Drive the player of a running control server at this address instead")
}

// shellCmd runs the interactive command shell.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Control the player from an interactive prompt",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		if addr := lo.Must(cmd.Flags().GetString("remote")); addr != "" {
			remote := network.NewRemote(addr)
			_, err := remote.Fetch(ctx)
			handleErr(err)

			handleErr(shell.New(remote, remote).Run(ctx))
			return
		}

		a, err := newApp()
		handleErr(err)
		defer a.close()

		handleErr(shell.New(a.controller, a.library, a.exts...).Run(ctx))
	},
}


package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/log"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/server"
	"github.com/reelbox/reelbox/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Listen address of the control server")
	lo.Must0(viper.BindPFlag(key.ServerAddr, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().StringSlice("cors", nil, "Origins allowed to call the control server")
	lo.Must0(viper.BindPFlag(key.ServerCORSOrigins, serveCmd.Flags().Lookup("cors")))

	serveCmd.Flags().StringP("play", "p", "", "Clip to start as soon as the server is up")
}

// serveCmd exposes the controller over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the player headless behind the HTTP control server",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		handleErr(err)
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			addr    = viper.GetString(key.ServerAddr)
			handler = server.NewHandler(a.controller, a.library, a.exts...)
			srv     = server.New(addr, handler, viper.GetStringSlice(key.ServerCORSOrigins))
		)

		unsubscribe := a.controller.Subscribe(func(e player.Event) {
			log.Infof("event %s: %s", e.Kind, e.Path)
		})
		defer unsubscribe()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(ctx)
		})

		if clip := lo.Must(cmd.Flags().GetString("play")); clip != "" {
			g.Go(func() error {
				// a bad startup clip leaves the server up and idle
				if err := a.controller.Play(ctx, clip); err != nil {
					log.Warnf("play %s: %s", clip, err)
				}
				return nil
			})
		}

		cmd.Printf("%s listening on %s\n", icon.Get(icon.Play), style.Fg(style.AccentColor)(addr))
		handleErr(g.Wait())
	},
}

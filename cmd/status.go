package cmd

import (
	"context"
	"encoding/json"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/network"
	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/shell"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("remote", "R", "", "Address of the control server, defaults to the configured listen address")
	statusCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")

	statusCmd.Flags().Bool("schema", false, "Print the JSON schema of the structured output and exit")

	statusCmd.SetOut(os.Stdout)
}

// statusCmd reports the state of a running control server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the player status of a running control server",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(statusSchema()))
			return
		}

		addr := lo.Must(cmd.Flags().GetString("remote"))
		if addr == "" {
			addr = viper.GetString(key.ServerAddr)
		}

		st, err := network.NewRemote(addr).Fetch(context.Background())
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(st))
			return
		}

		cmd.Println(shell.FormatStatus(st))
	},
}

// statusSchema reflects the JSON schema of player.Status.
func statusSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return "player." + t.Name()
	}
	return reflector.Reflect(&player.Status{})
}

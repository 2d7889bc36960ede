package cmd

import (
	"os"
	"sort"

	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/config"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "only show variables that are set")
	envCmd.Flags().BoolP("describe", "d", false, "show what each variable controls")
}

// envVar is one environment override and its state in the current process.
type envVar struct {
	name, value, about string
	err                error
}

func envVars() []envVar {
	vars := []envVar{{
		name:  where.EnvConfigPath,
		value: os.Getenv(where.EnvConfigPath),
		about: "Directory holding the config file, history and logs",
	}}

	for _, field := range config.Default {
		v := envVar{name: field.Env(), value: os.Getenv(field.Env()), about: field.Description}
		if v.value != "" {
			_, v.err = field.Parse([]string{v.value})
		}
		vars = append(vars, v)
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].name < vars[j].name })
	return vars
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables reelbox reads and flag invalid values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly  = lo.Must(cmd.Flags().GetBool("set-only"))
			describe = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, v := range envVars() {
			if setOnly && v.value == "" {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			switch {
			case v.value == "":
				cmd.Println(style.Faint("unset"))
			case v.err != nil:
				cmd.Println(style.Fg(color.Red)(v.value), style.Faint("(ignored, "+v.err.Error()+")"))
			default:
				cmd.Println(style.Fg(color.Green)(v.value))
			}

			if describe {
				cmd.Println(style.Faint(v.about))
			}
		}
	},
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/config"
	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/style"
	"github.com/reelbox/reelbox/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect, change and validate settings",
}

func init() {
	rootCmd.AddCommand(configCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "print the fields as json")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configInfoCmd.SetOut(os.Stdout)

	configSetCmd.Flags().StringP("key", "k", "", "key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "new value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configGetCmd.Flags().StringP("key", "k", "", "key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configResetCmd.Flags().StringP("key", "k", "", "key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configWriteCmd.Flags().BoolP("force", "f", false, "replace an existing config file")

	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configResetCmd, configCheckCmd, configWriteCmd, configDeleteCmd)
}

func completionConfigKeys(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return fmt.Errorf("unknown key %s, did you mean %s?", style.Fg(color.Red)(key), style.Fg(color.Yellow)(closest))
}

// lookupField resolves the key given as first argument or through --key.
func lookupField(cmd *cobra.Command, args []string) config.Field {
	key := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		key = args[0]
	}
	if key == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	field, ok := config.Default[key]
	if !ok {
		handleErr(errUnknownKey(key))
	}
	return field
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Reelbox+".toml")
}

// persist writes the in-memory settings, creating the file on first use.
func persist() {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		err = viper.SafeWriteConfig()
	}
	handleErr(err)
}

func printDone(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func highlight(v any) string {
	return style.Fg(color.Yellow)(fmt.Sprint(v))
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings, their defaults and current values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				f, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return f
			})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Validate and store a new value",
	Example:           "  reelbox config set player.lock_timeout 750ms\n  reelbox config set decoder.engine raw",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(cmd, args)

		values := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			values = args[1:]
		}

		v, err := field.Parse(values)
		handleErr(err)

		viper.Set(field.Key, v)
		persist()
		printDone("set %s to %s", style.Fg(color.Purple)(field.Key), highlight(v))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(cmd, args)
		v := viper.Get(field.Key)

		if reflect.DeepEqual(v, field.Value) {
			fmt.Println(v, style.Faint("(default)"))
			return
		}
		fmt.Println(v)
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore defaults for one or every setting",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for key, field := range config.Default {
				viper.Set(key, field.Value)
			}
			persist()
			printDone("reset all %d settings", len(config.Default))
			return
		}

		field := lookupField(cmd, args)
		viper.Set(field.Key, field.Value)
		persist()
		printDone("reset %s to %s", style.Fg(color.Purple)(field.Key), highlight(field.Value))
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report settings from the file or environment that were rejected",
	Long: "Every setting is validated on startup. Rejected values are replaced by their defaults;\n" +
		"this command lists them and exits with an error when there are any.",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.LastCheck())
		printDone("all %d settings are valid", len(config.Default))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			err := filesystem.API().Remove(configFile())
			if !errors.Is(err, os.ErrNotExist) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		printDone("wrote %s", configFile())
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete the config file, falling back to defaults and the environment",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		printDone("deleted %s", configFile())
	},
}

package config

import (
	"strings"

	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps a key such as player.lock_timeout to its env form PLAYER_LOCK_TIMEOUT.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads reelbox.toml from the config directory over the registered
// defaults, with REELBOX_* environment variables taking precedence. A missing
// file is not an error. Values failing their checks are replaced by defaults
// and returned as an error wrapping ErrInvalidValue.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Reelbox)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Reelbox)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return Check()
}

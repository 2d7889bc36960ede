// Package config registers every reelbox setting with its default, description
// and constraints, and loads the effective values through viper.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelbox/reelbox/color"
	"github.com/reelbox/reelbox/constant"
	"github.com/reelbox/reelbox/icon"
	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting. Value is the default and fixes the setting's type.
type Field struct {
	Key         string
	Value       any
	Description string

	checks []check
}

// Env returns the environment variable overriding this field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Reelbox + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Pretty renders the field with its effective value for the config info command.
func (f *Field) Pretty() string {
	rows := [][2]string{
		{"Key", style.Fg(color.Purple)(f.Key)},
		{"Env", f.Env()},
		{"Value", render(viper.Get(f.Key))},
		{"Default", render(f.Value)},
		{"Type", f.typeName()},
	}
	if allowed := f.Allowed(); allowed != "" {
		rows = append(rows, [2]string{"Allowed", allowed})
	}

	labels := lo.Map(rows, func(r [2]string, _ int) string { return style.Fg(color.Blue)(r[0] + ":") })
	values := lo.Map(rows, func(r [2]string, _ int) string { return r[1] })

	return lipgloss.JoinVertical(lipgloss.Left,
		style.Faint(f.Description),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, labels...),
			" ",
			lipgloss.JoinVertical(lipgloss.Left, values...),
		),
	)
}

func render(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		if value == "" {
			return style.Faint("(empty)")
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

// MarshalJSON includes the effective value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Allowed     string `json:"allowed,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Allowed:     f.Allowed(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case time.Duration:
		return "duration"
	default:
		return "unknown"
	}
}

// Default maps each key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string, checks ...check) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc, checks: checks}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerLoop, true, "Restart the clip automatically when it reaches the end")
	register(key.PlayerBufferSize, constant.PanelFrameSize, "Size in bytes of the decode buffer.\nOne decoded video frame must fit into it", intRange(1, constant.MaxBufferSize))
	register(key.PlayerCoreHint, 1, "Preferred CPU core for the decoder worker.\nA hint only, -1 lets the engine decide", intRange(-1, 1024))
	register(key.PlayerLockTimeout, 500*time.Millisecond, "How long play and stop wait for the playback lock before reporting busy", positiveDuration)
	register(key.PlayerStopSettle, 300*time.Millisecond, "Delay after stopping a running clip before the next one is started.\nGives the decoder time to release its resources", nonNegativeDuration)
	register(key.PlayerRestartSettle, 200*time.Millisecond, "Delay between end of stream and the first loop restart attempt", nonNegativeDuration)
	register(key.PlayerRetrySettle, 500*time.Millisecond, "Delay before retrying a failed loop restart", nonNegativeDuration)
	register(key.PlayerRestartAttempts, 2, "Number of start attempts in one loop restart", intRange(1, 10))
	register(key.StorageRoot, "", "Root directory of the media volume.\nEmpty means the media directory inside the config path")
	register(key.StorageListOnMount, true, "Log the volume contents when the player initialises")
	register(key.DecoderEngine, "auto", "Decoder engine. auto picks one by file extension", oneOf("auto", "wav", "raw"))
	register(key.DecoderRawFPS, 15, "Frame rate of raw video clips", intRange(1, 240))
	register(key.DecoderRawFrameSize, constant.PanelFrameSize, "Size in bytes of one raw video frame", intRange(1, constant.MaxBufferSize))
	register(key.AudioEnable, false, "Send decoded audio to the sound card")
	register(key.ServerAddr, "127.0.0.1:8080", "Listen address of the control server", notBlank)
	register(key.ServerCORSOrigins, []string{"*"}, "Origins allowed to call the control server")
	register(key.HistorySave, true, "Save playback history")
	register(key.IconsVariant, "plain", "Icon set used in the terminal. nerd needs a nerd font", oneOf(icon.AvailableVariants()...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Lowest log level written, from panic (quietest) to trace", oneOf("panic", "fatal", "error", "warn", "info", "debug", "trace"))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

// Package icon renders the symbols reelbox prints next to playback states and
// events. The glyph set is chosen by the icons.variant setting.
package icon

import (
	"slices"

	"github.com/reelbox/reelbox/key"
	"github.com/reelbox/reelbox/player"
	"github.com/spf13/viper"
)

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Play
	Stop
	Loop
	Clip
)

// variants are ordered like the columns of glyphs. plain comes first and is
// used whenever the configured variant is unknown.
var variants = []string{"plain", "emoji", "nerd", "kaomoji", "squares"}

type glyphs [5]string

var icons = map[Icon]glyphs{
	Success:  {"ok", "✅", "", "(ᵔᴥᵔ)", "🟩"},
	Fail:     {"x", "❌", "", "(╯°□°)╯︵ ┻━┻", "🟥"},
	Warn:     {"!", "⚠️", "", "(・_・;)", "🟨"},
	Progress: {"...", "⏳", "", "(・_・ヾ", "🟦"},
	Play:     {">", "▶️", "", "(ﾉ◕ヮ◕)ﾉ", "🟩"},
	Stop:     {"[]", "⏹️", "", "(－_－) zzZ", "🟥"},
	Loop:     {"@", "🔁", "", "(∞)", "🟪"},
	Clip:     {"#", "🎞️", "", "[▓]", "⬛"},
}

// AvailableVariants returns the accepted values of icons.variant.
func AvailableVariants() []string {
	return slices.Clone(variants)
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	column := slices.Index(variants, viper.GetString(key.IconsVariant))
	if column < 0 {
		column = 0
	}
	return icons[i][column]
}

// ForState picks the symbol shown next to a controller state.
func ForState(s player.State) Icon {
	switch s {
	case player.Playing:
		return Play
	case player.Stopping:
		return Progress
	case player.Uninitialized:
		return Warn
	default:
		return Stop
	}
}

// ForEvent picks the symbol shown next to a lifecycle event.
func ForEvent(kind player.EventKind) Icon {
	switch kind {
	case player.Started:
		return Play
	case player.Stopped, player.EndOfStream:
		return Stop
	case player.Restarted:
		return Loop
	case player.RestartFailed:
		return Fail
	default:
		return Warn
	}
}

// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 22

// Playback Lifecycle - these keys tune lock timing, settle delays and the loop-restart policy.
const (
	PlayerLoop            = "player.loop"
	PlayerBufferSize      = "player.buffer_size"
	PlayerCoreHint        = "player.core_hint"
	PlayerLockTimeout     = "player.lock_timeout"
	PlayerStopSettle      = "player.stop_settle"
	PlayerRestartSettle   = "player.restart_settle"
	PlayerRetrySettle     = "player.retry_settle"
	PlayerRestartAttempts = "player.restart_attempts"
)

// Storage Volume - these keys locate the mounted media volume.
const (
	StorageRoot        = "storage.root"
	StorageListOnMount = "storage.list_on_mount"
)

// Decoder Engines - these keys select and parameterise the decoding backend.
const (
	DecoderEngine       = "decoder.engine"
	DecoderRawFPS       = "decoder.raw.fps"
	DecoderRawFrameSize = "decoder.raw.frame_size"
)

// Audio Output - these keys control the optional audio sink.
const (
	AudioEnable = "audio.enable"
)

// Control Server - these keys configure the HTTP control surface.
const (
	ServerAddr        = "server.addr"
	ServerCORSOrigins = "server.cors_origins"
)

// History Tracking - these keys configure the persistence of playback sessions.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

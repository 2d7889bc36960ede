// Package player implements the playback lifecycle controller.
//
// A Controller owns the session state and the decode buffer, serializes play,
// stop and loop-restart transitions behind a timed lock, and drives a single
// decoder.Engine that is never entered concurrently. Frame delivery and the
// end-of-stream notification arrive on the engine's goroutine.
package player

import (
	"context"
	"fmt"
)

// Player is the control surface exposed to callers such as the CLI, the control
// server or the interactive shell.
type Player interface {
	// Play starts the clip at path, replacing the running one if any.
	Play(ctx context.Context, path string) error

	// Stop ends the running clip. Stopping an idle player succeeds.
	Stop(ctx context.Context) error

	// SetLoop arms or disarms automatic restart at end of stream.
	SetLoop(enabled bool)

	// Status returns a snapshot of the session state.
	Status() Status
}

// State is the lifecycle state of a Controller.
type State int

const (
	Uninitialized State = iota
	Idle
	Playing
	Stopping
)

var stateNames = map[State]string{
	Uninitialized: "uninitialized",
	Idle:          "idle",
	Playing:       "playing",
	Stopping:      "stopping",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state by name in JSON and logs.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name as rendered by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Status is a point-in-time view of a Controller.
type Status struct {
	State      State  `json:"state" jsonschema:"type=string,enum=uninitialized,enum=idle,enum=playing,enum=stopping,description=Lifecycle state of the player."`
	Path       string `json:"path,omitempty" jsonschema:"description=Volume path of the current or last clip."`
	Loop       bool   `json:"loop" jsonschema:"description=Whether the clip restarts at end of stream."`
	Session    uint64 `json:"session" jsonschema:"description=Counter bumped by every start and stop."`
	BufferSize int    `json:"bufferSize" jsonschema:"description=Capacity of the decode buffer in bytes."`

	VideoFrames     uint64 `json:"videoFrames"`
	AudioFrames     uint64 `json:"audioFrames"`
	TruncatedFrames uint64 `json:"truncatedFrames" jsonschema:"description=Video frames larger than the decode buffer."`
}

// Stats are lifetime counters of a Controller, mostly useful in diagnostics and tests.
type Stats struct {
	LockAcquisitions uint64 `json:"lockAcquisitions"`
	BusyRejections   uint64 `json:"busyRejections"`
	RestartEpisodes  uint64 `json:"restartEpisodes"`
	RestartAttempts  uint64 `json:"restartAttempts"`
	RestartFailures  uint64 `json:"restartFailures"`
}

var _ Player = (*Controller)(nil)

package history

import (
	"fmt"
	"time"
)

// Clip is the playback record of a single clip on the volume.
type Clip struct {
	Path       string    `json:"path"`
	Plays      int       `json:"plays"`
	Restarts   int       `json:"restarts"`
	Failures   int       `json:"failures"`
	LastPlayed time.Time `json:"last_played"`
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s : %d plays, %d loops", c.Path, c.Plays, c.Restarts)
}

package player

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPathLength is the longest clip path accepted, in bytes.
const MaxPathLength = 127

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("clip not found")
	ErrBusy              = errors.New("player busy")
	ErrStartFailed       = errors.New("decoder start failed")
	ErrStopFailed        = errors.New("decoder stop failed")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrInit              = errors.New("player init failed")
	ErrNotInitialized    = errors.New("player not initialized")
)

// ValidatePath checks that path is usable as a clip path without touching storage.
func ValidatePath(path string) error {
	switch {
	case strings.TrimSpace(path) == "":
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	case len(path) > MaxPathLength:
		return fmt.Errorf("%w: path is %d bytes, limit is %d", ErrInvalidArgument, len(path), MaxPathLength)
	case strings.ContainsAny(path, "\x00\n\r"):
		return fmt.Errorf("%w: control characters in path", ErrInvalidArgument)
	}
	return nil
}

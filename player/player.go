// Package player drives the external media player process and observes its
// playback state over the mpv JSON-IPC protocol.
package player

import (
	"fmt"
	"time"
)

// Player encapsulates the control/observation surface of the external player
// needed by a playback session.
type Player interface {
	// Play launches the player against the given URL, starting playback at
	// the given absolute offset. It returns a *LaunchError when the process
	// cannot be started.
	Play(url string, title string, start time.Duration) error

	// GetTimePos retrieves the current absolute playback position.
	GetTimePos() (time.Duration, error)

	// GetDuration retrieves the total length of the active media.
	GetDuration() (time.Duration, error)

	// GetPausedStatus retrieves whether playback is currently suspended.
	GetPausedStatus() (bool, error)

	// IsRunning validates the liveness of the underlying player process.
	IsRunning() bool

	// Wait returns a channel that is closed when the player process exits.
	Wait() <-chan struct{}

	// Close terminates the player and releases all associated resources.
	Close() error
}

// LaunchError reports that the external player process could not be spawned
// or never became controllable.
type LaunchError struct {
	Player string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Player, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Package resume implements the watched/resume policy: where playback should
// start for a partially watched item, and how a finished session is classified.
//
// The thresholds mirror the server's own configured resume rules so that local
// judgment matches server-side display, but they are enforced locally so the
// controller stays correct even if the server misreports.
package resume

import (
	"time"

	"github.com/jellypick-cli/jellypick/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Thresholds holds the watched-rule configuration applied to one item.
type Thresholds struct {
	// WatchedFraction is the fraction of the duration that must be played
	// for the item to count as fully watched.
	WatchedFraction float64

	// MinResume is the position below which playback is treated as never
	// started, and the tail margin inside which an item counts as finished.
	MinResume time.Duration
}

// ThresholdsFromConfig reads the active thresholds from the global configuration.
func ThresholdsFromConfig() Thresholds {
	return Thresholds{
		WatchedFraction: viper.GetFloat64(key.PlaybackWatchedFrac),
		MinResume:       time.Duration(viper.GetInt(key.PlaybackMinResume)) * time.Second,
	}
}

// Decision is the computed playback entry point for a selected item.
type Decision struct {
	// Start is the absolute offset playback should begin at.
	Start time.Duration

	// Resuming reports whether the start offset continues a previous session
	// rather than starting from the beginning.
	Resuming bool
}

// Class is the final classification of a playback session.
type Class int

const (
	Unwatched Class = iota
	InProgress
	Watched
)

func (c Class) String() string {
	switch c {
	case Watched:
		return "watched"
	case InProgress:
		return "in progress"
	default:
		return "unwatched"
	}
}

// ComputeStart determines the playback start offset for an item given its
// last known position and duration.
//
// Positions below MinResume restart from the beginning. Positions within
// MinResume of the end are treated as previously completed and also restart
// from the beginning. The returned offset never exceeds duration - MinResume.
func ComputeStart(position, duration mo.Option[time.Duration], th Thresholds) Decision {
	pos, ok := position.Get()
	if !ok || pos < th.MinResume {
		return Decision{}
	}

	dur, ok := duration.Get()
	if !ok {
		// No duration known: resume blindly at the recorded position.
		return Decision{Start: pos, Resuming: true}
	}

	if dur-pos <= th.MinResume {
		// Effectively at the end; restart.
		return Decision{}
	}

	return Decision{Start: pos, Resuming: true}
}

// ClassifyFinal classifies the terminal state of a playback session from its
// last observed position and the item duration.
func ClassifyFinal(position, duration time.Duration, th Thresholds) Class {
	if duration > 0 && float64(position)/float64(duration) >= th.WatchedFraction {
		return Watched
	}
	if position > th.MinResume {
		return InProgress
	}
	return Unwatched
}

// Package session runs one playback session: it launches the external player
// against a resolved stream, polls its position on a fixed interval, streams
// incremental progress reports to the server and sends exactly one
// terminating report classified by the resume policy.
package session

import (
	"context"
	"time"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/jellypick-cli/jellypick/player"
	"github.com/jellypick-cli/jellypick/resume"
	"github.com/jellypick-cli/jellypick/util"
	"github.com/spf13/viper"
)

// Reporter is the server-side progress sink. Incremental report failures are
// logged and swallowed; terminating report failures surface to the caller.
type Reporter interface {
	ReportStart(ctx context.Context, itemID string, position time.Duration) error
	ReportProgress(ctx context.Context, itemID string, position time.Duration, paused bool) error
	ReportStopped(ctx context.Context, itemID string, position time.Duration) error
	MarkPlayed(ctx context.Context, itemID string) error
	ResetProgress(ctx context.Context, itemID string) error
}

// State is the playback session lifecycle phase.
type State int

const (
	Starting State = iota
	Playing
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "ended"
	}
}

// maxPollFailures is the number of consecutive position-poll failures after
// which the player is treated as having exited.
const maxPollFailures = 3

// Config bundles the timing knobs and thresholds of one session.
type Config struct {
	PollInterval   time.Duration
	ReportDelta    time.Duration
	ReportInterval time.Duration
	ClearUnwatched bool
	Thresholds     resume.Thresholds
}

// ConfigFromViper reads the session configuration from the global settings.
func ConfigFromViper() Config {
	seconds := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Second
	}
	return Config{
		PollInterval:   seconds(key.PlayerPollInterval),
		ReportDelta:    seconds(key.PlaybackReportDelta),
		ReportInterval: seconds(key.PlaybackReportInterval),
		ClearUnwatched: viper.GetBool(key.PlaybackClearUnwatched),
		Thresholds:     resume.ThresholdsFromConfig(),
	}
}

// playbackState is the mutable per-session record. It is owned exclusively
// by Run for the lifetime of one play-out.
type playbackState struct {
	itemID       string
	state        State
	position     time.Duration // high-water mark of observed positions
	duration     time.Duration
	positionSeen bool // at least one successful poll (or non-zero start)
	lastReported time.Duration
	lastReportAt time.Time
	pollFailures int
}

// Summary is the terminal outcome of a session.
type Summary struct {
	Position    time.Duration
	Duration    time.Duration
	Class       resume.Class
	Interrupted bool
}

// Session drives one item through the external player. A Session instance
// runs exactly one play-out; the controller never runs two concurrently.
type Session struct {
	player   player.Player
	reporter Reporter
	cfg      Config
}

// New assembles a session from its collaborators.
func New(p player.Player, r Reporter, cfg Config) *Session {
	return &Session{player: p, reporter: r, cfg: cfg}
}

// Run plays the entry from the given start offset and blocks until the
// player exits or ctx is cancelled. Launch failures surface before any
// server interaction. On cancellation a best-effort in-progress terminating
// report is sent using the last known position.
func (s *Session) Run(ctx context.Context, entry catalog.Entry, streamURL string, start time.Duration) (Summary, error) {
	st := &playbackState{
		itemID:   entry.ID,
		state:    Starting,
		position: start,
		duration: entry.Duration.OrElse(0),
	}
	if start > 0 {
		st.positionSeen = true
	}

	if err := s.player.Play(streamURL, entry.String(), start); err != nil {
		return Summary{}, err
	}
	defer util.Ignore(s.player.Close)

	// Socket readiness doubles as the readiness signal.
	st.state = Playing
	st.lastReportAt = time.Now()
	log.Infof("playback started: %s (offset %s)", entry, start)

	if err := s.reporter.ReportStart(ctx, st.itemID, start); err != nil {
		log.Warnf("start report failed: %v", err)
	}

	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for st.state != Ended {
		select {
		case <-ctx.Done():
			return s.interrupted(st), ctx.Err()
		case <-s.player.Wait():
			st.state = Ended
		case <-ticker.C:
			s.poll(ctx, st)
		}
	}

	return s.finish(ctx, st), nil
}

// poll samples the player once and sends an incremental report when due.
// A transient failure skips the tick; maxPollFailures consecutive failures
// end the session.
func (s *Session) poll(ctx context.Context, st *playbackState) {
	pos, err := s.player.GetTimePos()
	if err != nil {
		st.pollFailures++
		log.Debugf("position poll failed (%d/%d): %v", st.pollFailures, maxPollFailures, err)
		if st.pollFailures >= maxPollFailures {
			log.Warnf("player unresponsive after %d polls, ending session", maxPollFailures)
			st.state = Ended
		}
		return
	}
	st.pollFailures = 0
	st.positionSeen = true

	paused, err := s.player.GetPausedStatus()
	if err == nil {
		if paused {
			st.state = Paused
		} else {
			st.state = Playing
		}
	}

	if st.duration == 0 {
		if dur, err := s.player.GetDuration(); err == nil && dur > 0 {
			st.duration = dur
		}
	}

	// The reported position is a high-water mark: backwards seeks never
	// regress what the server has already been told.
	st.position = util.Max(st.position, pos)
	if st.duration > 0 {
		st.position = util.Min(st.position, st.duration)
	}

	advanced := st.position-st.lastReported >= s.cfg.ReportDelta
	overdue := s.cfg.ReportInterval > 0 && time.Since(st.lastReportAt) >= s.cfg.ReportInterval
	if !advanced && !overdue {
		return
	}

	if err := s.reporter.ReportProgress(ctx, st.itemID, st.position, st.state == Paused); err != nil {
		// Losing a mid-session update is preferable to killing playback.
		log.Warnf("progress report failed: %v", err)
		return
	}
	st.lastReported = st.position
	st.lastReportAt = time.Now()
}

// finish classifies the terminal state and sends exactly one terminating
// report.
func (s *Session) finish(ctx context.Context, st *playbackState) Summary {
	st.state = Ended

	class := resume.ClassifyFinal(st.position, st.duration, s.cfg.Thresholds)
	summary := Summary{Position: st.position, Duration: st.duration, Class: class}

	log.Infof("playback ended at %s/%s: %s", st.position, st.duration, class)

	switch class {
	case resume.Watched:
		if err := s.reporter.MarkPlayed(ctx, st.itemID); err != nil {
			log.Errorf("mark played failed: %v", err)
		}
	case resume.InProgress:
		if err := s.reporter.ReportStopped(ctx, st.itemID, st.position); err != nil {
			log.Errorf("final progress report failed: %v", err)
		}
	case resume.Unwatched:
		// Clearing prior server-side progress is an explicit opt-in; the
		// guard on positionSeen keeps a session that never started from
		// touching the server at all.
		if s.cfg.ClearUnwatched && st.positionSeen {
			if err := s.reporter.ResetProgress(ctx, st.itemID); err != nil {
				log.Errorf("reset progress failed: %v", err)
			}
		}
	}

	return summary
}

// interrupted handles external termination: one best-effort in-progress
// report using the last known position, so an interrupted session never
// leaves the server without a record.
func (s *Session) interrupted(st *playbackState) Summary {
	st.state = Ended

	summary := Summary{
		Position:    st.position,
		Duration:    st.duration,
		Class:       resume.InProgress,
		Interrupted: true,
	}

	if !st.positionSeen {
		summary.Class = resume.Unwatched
		return summary
	}

	// The run context is already cancelled; give the farewell report its
	// own short deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.reporter.ReportStopped(ctx, st.itemID, st.position); err != nil {
		log.Warnf("interrupt report failed: %v", err)
	}
	return summary
}

package jellyfin

import (
	"context"
	"net/http"
	"time"
)

// playbackReport is the body shared by the Sessions/Playing family of
// endpoints.
type playbackReport struct {
	ItemID        string `json:"ItemId"`
	PositionTicks int64  `json:"PositionTicks"`
	IsPaused      bool   `json:"IsPaused,omitempty"`
	PlayMethod    string `json:"PlayMethod"`
}

func (c *Client) playing(ctx context.Context, path, itemID string, position time.Duration, paused bool) error {
	return c.post(ctx, path, nil, playbackReport{
		ItemID:        itemID,
		PositionTicks: DurationToTicks(position),
		IsPaused:      paused,
		PlayMethod:    "DirectStream",
	}, nil)
}

// ReportStart announces the beginning of a playback session.
func (c *Client) ReportStart(ctx context.Context, itemID string, position time.Duration) error {
	return c.playing(ctx, "Sessions/Playing", itemID, position, false)
}

// ReportProgress records an in-flight playback position and pause state.
func (c *Client) ReportProgress(ctx context.Context, itemID string, position time.Duration, paused bool) error {
	return c.playing(ctx, "Sessions/Playing/Progress", itemID, position, paused)
}

// ReportStopped sends the terminating report of a playback session that
// ended in progress; the server records position as the resume point.
func (c *Client) ReportStopped(ctx context.Context, itemID string, position time.Duration) error {
	return c.playing(ctx, "Sessions/Playing/Stopped", itemID, position, false)
}

// userDataUpdate is the body of a UserItems/{id}/UserData write. Pointer
// fields are omitted when unset so partial updates leave the rest of the
// server-side record untouched.
type userDataUpdate struct {
	PlaybackPositionTicks *int64 `json:"PlaybackPositionTicks,omitempty"`
	Played                *bool  `json:"Played,omitempty"`
	LastPlayedDate        string `json:"LastPlayedDate,omitempty"`
}

func (c *Client) setUserData(ctx context.Context, itemID string, update userDataUpdate) error {
	return c.post(ctx, "UserItems/"+itemID+"/UserData", c.userQuery(), update, nil)
}

// MarkPlayed marks an item fully watched and clears its resume position.
func (c *Client) MarkPlayed(ctx context.Context, itemID string) error {
	played := true
	var zero int64
	return c.setUserData(ctx, itemID, userDataUpdate{
		Played:                &played,
		PlaybackPositionTicks: &zero,
		LastPlayedDate:        time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// ResetProgress clears both the watched flag and the resume position.
func (c *Client) ResetProgress(ctx context.Context, itemID string) error {
	played := false
	var zero int64
	return c.setUserData(ctx, itemID, userDataUpdate{
		Played:                &played,
		PlaybackPositionTicks: &zero,
	})
}

// Ping verifies the server is reachable without authentication.
func (c *Client) Ping(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "System/Ping", nil, nil, nil)
}

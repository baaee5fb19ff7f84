package history

import (
	"fmt"
	"time"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/util"
)

// Record is a single saved playback entry.
type Record struct {
	ItemID   string        `json:"item_id"`
	Title    string        `json:"title"`
	Series   string        `json:"series,omitempty"`
	Season   int           `json:"season,omitempty"`
	Episode  int           `json:"episode,omitempty"`
	Position time.Duration `json:"position"`
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"played_at"`
}

func (r *Record) String() string {
	if r.Series != "" {
		return fmt.Sprintf("%s S%02dE%02d : %s", r.Series, r.Season, r.Episode, util.FormatDuration(r.Position))
	}
	return fmt.Sprintf("%s : %s", r.Title, util.FormatDuration(r.Position))
}

func newRecord(entry catalog.Entry, position, duration time.Duration) *Record {
	return &Record{
		ItemID:   entry.ID,
		Title:    entry.Title,
		Series:   entry.Series,
		Season:   entry.Season,
		Episode:  entry.Episode,
		Position: position,
		Duration: duration,
		PlayedAt: time.Now(),
	}
}

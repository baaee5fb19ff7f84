// Package catalog assembles the selectable library catalog from the server's
// section queries and normalizes its items into one fixed entry shape.
package catalog

import (
	"fmt"
	"time"

	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/samber/mo"
)

// Kind categorizes a catalog entry by how selecting it behaves:
// playable leaves (movies, episodes) versus browsable containers.
type Kind int

const (
	Movie Kind = iota
	Episode
	Series
	Collection
	Folder
)

func (k Kind) String() string {
	switch k {
	case Movie:
		return "movie"
	case Episode:
		return "episode"
	case Series:
		return "series"
	case Collection:
		return "collection"
	default:
		return "folder"
	}
}

// Entry is one selectable item. Immutable once built; discarded at the end of
// the browsing session.
type Entry struct {
	ID    string
	Title string
	Kind  Kind

	// Series context, populated for episodes only.
	Series  string
	Season  int
	Episode int

	Year     int
	Played   bool
	Duration mo.Option[time.Duration]
	Position mo.Option[time.Duration]
}

// Playable reports whether selecting the entry starts playback rather than
// descending into its children.
func (e Entry) Playable() bool {
	return e.Kind == Movie || e.Kind == Episode
}

// PlayedPercent returns the watched percentage when both position and
// duration are known.
func (e Entry) PlayedPercent() mo.Option[float64] {
	pos, okPos := e.Position.Get()
	dur, okDur := e.Duration.Get()
	if !okPos || !okDur || dur <= 0 || pos <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(100 * float64(pos) / float64(dur))
}

// String renders the entry's plain title with series context, used for logs
// and playback window titles.
func (e Entry) String() string {
	if e.Series == "" {
		if e.Year != 0 {
			return fmt.Sprintf("%s (%d)", e.Title, e.Year)
		}
		return e.Title
	}
	return fmt.Sprintf("%s S%02dE%02d - %s", e.Series, e.Season, e.Episode, e.Title)
}

// FromItem normalizes a wire item into an Entry. This is the only place the
// external schema is interpreted.
func FromItem(item jellyfin.Item) Entry {
	entry := Entry{
		ID:     item.ID,
		Title:  item.Name,
		Series: item.SeriesName,
		Year:   item.ProductionYear,
	}

	switch {
	case item.Type == "Movie":
		entry.Kind = Movie
	case item.Type == "Episode":
		entry.Kind = Episode
	case item.Type == "Series" || item.Type == "Season":
		entry.Kind = Series
	case item.Type == "BoxSet" || item.Type == "CollectionFolder":
		entry.Kind = Collection
	case item.IsFolder:
		entry.Kind = Folder
	case item.MediaType == "Video":
		entry.Kind = Movie
	default:
		entry.Kind = Folder
	}

	if item.IndexNumber != nil {
		entry.Episode = *item.IndexNumber
	}
	if item.ParentIndexNumber != nil {
		entry.Season = *item.ParentIndexNumber
	}

	if item.RunTimeTicks != nil && *item.RunTimeTicks > 0 {
		entry.Duration = mo.Some(jellyfin.TicksToDuration(*item.RunTimeTicks))
	}
	if ud := item.UserData; ud != nil {
		entry.Played = ud.Played
		if ud.PlaybackPositionTicks > 0 {
			entry.Position = mo.Some(jellyfin.TicksToDuration(ud.PlaybackPositionTicks))
		}
	}

	return entry
}

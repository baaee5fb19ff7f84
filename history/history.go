// Package history tracks recently played items so a session can be resumed
// from the command line without going through the menu again.
package history

import (
	"time"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/filesystem"
	"github.com/jellypick-cli/jellypick/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// cacher is the disk-backed registry of playback records.
var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns all saved playback records keyed by item ID.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Last returns the most recently saved record, if any.
func Last() (*Record, bool) {
	saved, err := Get()
	if err != nil || len(saved) == 0 {
		return nil, false
	}
	records := lo.Values(saved)
	last := lo.MaxBy(records, func(a, b *Record) bool {
		return a.PlayedAt.After(b.PlayedAt)
	})
	return last, true
}

// Save records where playback of an entry ended. Positions only move
// forward, so re-watching the opening of an episode never loses the
// further point reached earlier.
func Save(entry catalog.Entry, position, duration time.Duration) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newRecord(entry, position, duration)
	if existing, exists := saved[record.ItemID]; exists {
		if record.Position < existing.Position {
			record.Position = existing.Position
		}
	}
	saved[record.ItemID] = record

	return cacher.Set(saved)
}

// Remove deletes the record for an item.
func Remove(itemID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, itemID)
	return cacher.Set(saved)
}

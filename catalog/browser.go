package catalog

import (
	"context"

	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Section labels the logical origin of an entry within the catalog.
type Section int

const (
	SectionResume Section = iota
	SectionNextUp
	SectionLatest
	SectionCollections
)

// Browser queries the server for the candidate item lists and flattens them
// into a uniform selectable catalog.
type Browser struct {
	client *jellyfin.Client
}

// NewBrowser creates a Browser bound to an authenticated client.
func NewBrowser(client *jellyfin.Client) *Browser {
	return &Browser{client: client}
}

// Sectioned pairs an entry with the section it came from, so the menu can
// prefix continue-watching and next-up lines.
type Sectioned struct {
	Entry
	Section Section
}

// Fetch assembles the root catalog: continue-watching, next-up, the latest
// items of every library view, and collections, in that fixed order.
// Server ordering is preserved within each section; entries are deduplicated
// by item id with the first occurrence winning.
func (b *Browser) Fetch(ctx context.Context) ([]Sectioned, error) {
	var (
		entries []Sectioned
		seen    = make(map[string]struct{})
	)

	push := func(section Section, items []jellyfin.Item) {
		for _, item := range items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			entries = append(entries, Sectioned{Entry: FromItem(item), Section: section})
		}
	}

	resumes, err := b.client.Resume(ctx)
	if err != nil {
		return nil, err
	}
	push(SectionResume, resumes)

	nextUp, err := b.client.NextUp(ctx)
	if err != nil {
		return nil, err
	}
	push(SectionNextUp, nextUp)

	views, err := b.client.Views(ctx)
	if err != nil {
		return nil, err
	}
	limit := viper.GetInt(key.BrowseLatestLimit)
	for _, view := range views {
		push(SectionLatest, []jellyfin.Item{view})
		latest, err := b.client.Latest(ctx, view.ID, limit)
		if err != nil {
			return nil, err
		}
		push(SectionLatest, latest)
	}

	collections, err := b.client.Collections(ctx)
	if err != nil {
		return nil, err
	}
	push(SectionCollections, collections)

	log.Infof("catalog assembled: %d entries", len(entries))
	return entries, nil
}

// Children fetches the catalog one level below a container entry,
// preserving server order.
func (b *Browser) Children(ctx context.Context, parent Entry) ([]Sectioned, error) {
	items, err := b.client.Children(ctx, parent.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	items = lo.Filter(items, func(item jellyfin.Item, _ int) bool {
		if _, ok := seen[item.ID]; ok {
			return false
		}
		seen[item.ID] = struct{}{}
		return true
	})

	return lo.Map(items, func(item jellyfin.Item, _ int) Sectioned {
		return Sectioned{Entry: FromItem(item), Section: SectionLatest}
	}), nil
}

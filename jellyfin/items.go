package jellyfin

import (
	"context"
	"net/url"
	"strconv"
)

// Item is the raw wire shape of a library item. Only the fields the picker
// consumes are decoded; everything else the server sends is discarded here.
type Item struct {
	ID                string `json:"Id"`
	Name              string `json:"Name"`
	Type              string `json:"Type"`
	MediaType         string `json:"MediaType"`
	IsFolder          bool   `json:"IsFolder"`
	SeriesName        string `json:"SeriesName"`
	IndexNumber       *int   `json:"IndexNumber"`
	ParentIndexNumber *int   `json:"ParentIndexNumber"`
	ProductionYear    int    `json:"ProductionYear"`
	RunTimeTicks      *int64 `json:"RunTimeTicks"`
	UserData          *struct {
		PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
		PlayCount             int   `json:"PlayCount"`
		Played                bool  `json:"Played"`
	} `json:"UserData"`
}

type itemsPage struct {
	Items []Item `json:"Items"`
}

func (c *Client) userQuery() url.Values {
	q := url.Values{}
	if c.userID != "" {
		q.Set("userId", c.userID)
	}
	return q
}

// Resume lists the user's continue-watching items in server order.
func (c *Client) Resume(ctx context.Context) ([]Item, error) {
	q := c.userQuery()
	q.Set("mediaTypes", "Video")
	var page itemsPage
	if err := c.get(ctx, "UserItems/Resume", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// NextUp lists the next unwatched episode per followed series.
func (c *Client) NextUp(ctx context.Context) ([]Item, error) {
	q := c.userQuery()
	q.Set("mediaTypes", "Video")
	var page itemsPage
	if err := c.get(ctx, "Shows/NextUp", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Views lists the user's visible library roots (Movies, Shows, ...).
func (c *Client) Views(ctx context.Context) ([]Item, error) {
	var page itemsPage
	if err := c.get(ctx, "UserViews", c.userQuery(), &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Latest lists the most recently added videos under a library root.
// Unlike the other section endpoints this one returns a bare array.
func (c *Client) Latest(ctx context.Context, parentID string, limit int) ([]Item, error) {
	q := c.userQuery()
	q.Set("mediaTypes", "Video")
	q.Set("parentId", parentID)
	q.Set("limit", strconv.Itoa(limit))
	var items []Item
	if err := c.get(ctx, "Items/Latest", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Collections lists the user's box sets.
func (c *Client) Collections(ctx context.Context) ([]Item, error) {
	q := c.userQuery()
	q.Set("includeItemTypes", "BoxSet")
	q.Set("recursive", "true")
	var page itemsPage
	if err := c.get(ctx, "Items", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Children lists the items directly under a folder-like item
// (series, season, collection, library view).
func (c *Client) Children(ctx context.Context, parentID string) ([]Item, error) {
	q := c.userQuery()
	q.Set("parentId", parentID)
	var page itemsPage
	if err := c.get(ctx, "Items", q, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

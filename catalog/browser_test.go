package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	viper.Set(key.BrowseLatestLimit, 5)
}

func item(id, name, typ string) map[string]any {
	return map[string]any{"Id": id, "Name": name, "Type": typ}
}

func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	page := func(items ...map[string]any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"Items": items})
		}
	}

	mux.HandleFunc("/UserItems/Resume", page(
		item("ep-1", "Pilot", "Episode"),
	))
	mux.HandleFunc("/Shows/NextUp", page(
		item("ep-2", "Part Two", "Episode"),
		item("ep-1", "Pilot", "Episode"), // duplicate of the resume entry
	))
	mux.HandleFunc("/UserViews", page(
		item("lib-1", "Movies", "CollectionFolder"),
	))
	mux.HandleFunc("/Items/Latest", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			item("mov-1", "Heat", "Movie"),
		})
	})
	mux.HandleFunc("/Items", page(
		item("col-1", "Favorites", "BoxSet"),
	))

	return httptest.NewServer(mux)
}

func TestFetch(t *testing.T) {
	Convey("Given a server with all four sections", t, func() {
		srv := newTestServer()
		defer srv.Close()

		client := jellyfin.New(srv.URL, "dev")
		client.SetToken("tok")
		client.SetUserID("u1")
		browser := NewBrowser(client)

		entries, err := browser.Fetch(context.Background())
		So(err, ShouldBeNil)

		Convey("Sections appear in the fixed order with duplicates removed", func() {
			ids := lo.Map(entries, func(e Sectioned, _ int) string { return e.ID })
			So(ids, ShouldResemble, []string{"ep-1", "ep-2", "lib-1", "mov-1", "col-1"})
		})

		Convey("Entries carry their section of origin", func() {
			So(entries[0].Section, ShouldEqual, SectionResume)
			So(entries[1].Section, ShouldEqual, SectionNextUp)
			So(entries[3].Section, ShouldEqual, SectionLatest)
			So(entries[4].Section, ShouldEqual, SectionCollections)
		})
	})

	Convey("Given a server that rejects the token", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := jellyfin.New(srv.URL, "dev")
		browser := NewBrowser(client)

		Convey("Fetch fails with a distinguishable unauthorized error", func() {
			_, err := browser.Fetch(context.Background())
			So(err, ShouldNotBeNil)
			So(jellyfin.IsUnauthorized(err), ShouldBeTrue)
		})
	})
}

func TestFromItem(t *testing.T) {
	Convey("FromItem", t, func() {
		Convey("Normalizes a fully populated episode", func() {
			idx, season := 3, 2
			ticks := int64(100) * 10_000_000
			posTicks := int64(40) * 10_000_000
			raw := jellyfin.Item{
				ID: "ep", Name: "The One", Type: "Episode",
				SeriesName: "Show", IndexNumber: &idx, ParentIndexNumber: &season,
				RunTimeTicks: &ticks,
			}
			raw.UserData = &struct {
				PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
				PlayCount             int   `json:"PlayCount"`
				Played                bool  `json:"Played"`
			}{PlaybackPositionTicks: posTicks}

			entry := FromItem(raw)
			So(entry.Kind, ShouldEqual, Episode)
			So(entry.Playable(), ShouldBeTrue)
			So(entry.Duration.MustGet(), ShouldEqual, 100*time.Second)
			So(entry.Position.MustGet(), ShouldEqual, 40*time.Second)
			So(entry.PlayedPercent().MustGet(), ShouldEqual, 40.0)
			So(entry.String(), ShouldEqual, "Show S02E03 - The One")
		})

		Convey("Missing duration and position stay absent", func() {
			entry := FromItem(jellyfin.Item{ID: "m", Name: "Heat", Type: "Movie"})
			So(entry.Duration.IsAbsent(), ShouldBeTrue)
			So(entry.Position.IsAbsent(), ShouldBeTrue)
			So(entry.PlayedPercent().IsAbsent(), ShouldBeTrue)
		})

		Convey("Container types are not playable", func() {
			So(FromItem(jellyfin.Item{Type: "Series"}).Playable(), ShouldBeFalse)
			So(FromItem(jellyfin.Item{Type: "BoxSet"}).Playable(), ShouldBeFalse)
			So(FromItem(jellyfin.Item{IsFolder: true}).Playable(), ShouldBeFalse)
		})
	})
}

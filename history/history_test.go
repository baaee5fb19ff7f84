package history

import (
	"testing"
	"time"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a played entry", t, func() {
		entry := catalog.Entry{
			ID:      "ep-42",
			Title:   "The One With the Socket",
			Kind:    catalog.Episode,
			Series:  "Plumbing",
			Season:  2,
			Episode: 3,
		}

		Convey("When saving its position", func() {
			err := Save(entry, 10*time.Minute, 40*time.Minute)
			So(err, ShouldBeNil)

			Convey("Then it can be read back", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldContainKey, "ep-42")
				So(saved["ep-42"].Position, ShouldEqual, 10*time.Minute)
				So(saved["ep-42"].Series, ShouldEqual, "Plumbing")
			})

			Convey("And a smaller position never regresses it", func() {
				So(Save(entry, 2*time.Minute, 40*time.Minute), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved["ep-42"].Position, ShouldEqual, 10*time.Minute)
			})

			Convey("And it is returned as the last record", func() {
				last, ok := Last()
				So(ok, ShouldBeTrue)
				So(last.ItemID, ShouldEqual, "ep-42")
			})

			Convey("And removing it empties the registry", func() {
				So(Remove("ep-42"), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldNotContainKey, "ep-42")
			})
		})
	})
}

func TestRecordString(t *testing.T) {
	Convey("Record rendering", t, func() {
		Convey("prefixes episodes with the series", func() {
			r := Record{Series: "Plumbing", Season: 2, Episode: 3, Position: 90 * time.Second}
			So(r.String(), ShouldEqual, "Plumbing S02E03 : 1:30")
		})

		Convey("falls back to the title for movies", func() {
			r := Record{Title: "Big Film", Position: time.Hour}
			So(r.String(), ShouldEqual, "Big Film : 1:00:00")
		})
	})
}

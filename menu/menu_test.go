package menu

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	viper.Set(key.IconsVariant, "plain")
}

func sectioned(entry catalog.Entry, section catalog.Section) catalog.Sectioned {
	return catalog.Sectioned{Entry: entry, Section: section}
}

func TestRender(t *testing.T) {
	Convey("Render", t, func() {
		Convey("Episodes carry series context for disambiguation", func() {
			entries := []catalog.Sectioned{
				sectioned(catalog.Entry{
					ID: "a", Title: "Pilot", Kind: catalog.Episode,
					Series: "Show A", Season: 1, Episode: 1,
				}, catalog.SectionLatest),
				sectioned(catalog.Entry{
					ID: "b", Title: "Pilot", Kind: catalog.Episode,
					Series: "Show B", Season: 1, Episode: 1,
				}, catalog.SectionLatest),
			}

			lines := Render(entries)
			So(lines, ShouldHaveLength, 2)
			So(lines[0].Text, ShouldNotEqual, lines[1].Text)
			So(lines[0].Text, ShouldContainSubstring, "Show A")
			So(lines[0].Text, ShouldContainSubstring, "S01E01")
		})

		Convey("Fully identical entries still render unique lines", func() {
			twin := catalog.Entry{Title: "Heat", Kind: catalog.Movie, Year: 1995}
			lines := Render([]catalog.Sectioned{
				sectioned(mutateID(twin, "a"), catalog.SectionLatest),
				sectioned(mutateID(twin, "b"), catalog.SectionLatest),
			})
			So(lines[0].Text, ShouldNotEqual, lines[1].Text)
		})

		Convey("In-progress entries show a percentage", func() {
			entry := catalog.Entry{
				ID: "a", Title: "Heat", Kind: catalog.Movie,
				Duration: mo.Some(100 * time.Second),
				Position: mo.Some(40 * time.Second),
			}
			lines := Render([]catalog.Sectioned{sectioned(entry, catalog.SectionResume)})
			So(lines[0].Text, ShouldContainSubstring, "40%")
		})

		Convey("Uniqueness survives truncation without exceeding the width", func() {
			twin := catalog.Entry{
				Title: "A Very Long Movie Title That Will Not Fit The Terminal",
				Kind:  catalog.Movie,
			}
			const width = 24
			lines := renderAll([]catalog.Sectioned{
				sectioned(mutateID(twin, "a"), catalog.SectionLatest),
				sectioned(mutateID(twin, "b"), catalog.SectionLatest),
				sectioned(mutateID(twin, "c"), catalog.SectionLatest),
			}, width)

			texts := make(map[string]bool)
			for _, line := range lines {
				So(utf8.RuneCountInString(line.Text), ShouldBeLessThanOrEqualTo, width)
				texts[line.Text] = true
			}
			So(texts, ShouldHaveLength, 3)
		})

		Convey("Watched entries show the watched marker", func() {
			entry := catalog.Entry{ID: "a", Title: "Heat", Kind: catalog.Movie, Played: true}
			lines := Render([]catalog.Sectioned{sectioned(entry, catalog.SectionLatest)})
			So(lines[0].Text, ShouldContainSubstring, "[x]")
		})
	})
}

func mutateID(entry catalog.Entry, id string) catalog.Entry {
	entry.ID = id
	return entry
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		lines := Render([]catalog.Sectioned{
			sectioned(catalog.Entry{ID: "a", Title: "Heat", Kind: catalog.Movie}, catalog.SectionLatest),
			sectioned(catalog.Entry{ID: "b", Title: "Ronin", Kind: catalog.Movie}, catalog.SectionLatest),
		})

		Convey("An exact line maps back to its entry", func() {
			entry, ok := Resolve(lines[1].Text, lines)
			So(ok, ShouldBeTrue)
			So(entry.ID, ShouldEqual, "b")
		})

		Convey("A trailing newline from the selector is tolerated", func() {
			entry, ok := Resolve(lines[0].Text+"\n", lines)
			So(ok, ShouldBeTrue)
			So(entry.ID, ShouldEqual, "a")
		})

		Convey("Free text is a no-selection outcome, not an error", func() {
			_, ok := Resolve("something the user typed", lines)
			So(ok, ShouldBeFalse)
		})
	})
}

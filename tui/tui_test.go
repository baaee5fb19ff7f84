package tui

import (
	"testing"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/menu"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func testPicker() *picker {
	lines := []menu.Line{
		{Text: "First", Entry: catalog.Entry{ID: "a"}},
		{Text: "Second", Entry: catalog.Entry{ID: "b"}},
	}
	items := make([]list.Item, len(lines))
	for i, line := range lines {
		items[i] = listLine{line}
	}
	return &picker{list: list.New(items, list.NewDefaultDelegate(), 80, 24)}
}

func TestPickerKeys(t *testing.T) {
	Convey("Given a picker with two lines", t, func() {
		Convey("Enter selects the highlighted line", func() {
			p := testPicker()
			model, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})

			result := model.(*picker)
			So(result.cancelled, ShouldBeFalse)
			So(result.choice, ShouldNotBeNil)
			So(result.choice.Entry.ID, ShouldEqual, "a")
		})

		Convey("Escape cancels without a choice", func() {
			p := testPicker()
			model, _ := p.Update(tea.KeyMsg{Type: tea.KeyEsc})

			result := model.(*picker)
			So(result.cancelled, ShouldBeTrue)
			So(result.choice, ShouldBeNil)
		})
	})
}

// Package menu adapts the catalog to the external dmenu-protocol selector:
// it renders entries into unique display lines and maps the chosen line back
// to its entry.
package menu

import (
	"fmt"
	"strings"

	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/icon"
	"github.com/jellypick-cli/jellypick/util"
	"github.com/muesli/reflow/truncate"
)

// Line pairs a rendered display line with the entry it represents.
type Line struct {
	Text  string
	Entry catalog.Entry
}

// Render produces one display line per entry. Lines disambiguate shared
// titles through series context and year, and are truncated to the terminal
// width. Renderings that remain identical are suffixed with a counter so the
// lines stay unique after truncation.
func Render(entries []catalog.Sectioned) []Line {
	width := uint(0)
	if w, _, err := util.TerminalSize(); err == nil && w > 0 {
		width = uint(w)
	}
	return renderAll(entries, width)
}

func renderAll(entries []catalog.Sectioned, width uint) []Line {
	lines := make([]Line, 0, len(entries))
	seen := make(map[string]int)

	for _, entry := range entries {
		base := renderLine(entry)
		if width > 0 {
			base = truncate.StringWithTail(base, width, "…")
		}

		// The counter keys on the truncated text, so twins that only differ
		// past the cut still get distinct lines. The suffix goes inside the
		// width, not on top of it.
		text := base
		if n := seen[base]; n > 0 {
			suffix := fmt.Sprintf(" #%d", n+1)
			if width > uint(len(suffix)) {
				text = truncate.StringWithTail(base, width-uint(len(suffix)), "…") + suffix
			} else {
				text = base + suffix
			}
		}
		seen[base]++

		lines = append(lines, Line{Text: text, Entry: entry.Entry})
	}
	return lines
}

func renderLine(entry catalog.Sectioned) string {
	var parts []string

	switch entry.Section {
	case catalog.SectionResume:
		parts = append(parts, icon.Get(icon.Resume))
	case catalog.SectionNextUp:
		parts = append(parts, icon.Get(icon.NextUp))
	}

	parts = append(parts, kindIcon(entry.Kind))

	if entry.Played {
		parts = append(parts, icon.Get(icon.Watched))
	}
	if pct, ok := entry.PlayedPercent().Get(); ok {
		parts = append(parts, fmt.Sprintf("%s%.0f%%", icon.Get(icon.Progress), pct))
	}

	if entry.Series != "" {
		parts = append(parts, entry.Series)
		if entry.Year != 0 {
			parts = append(parts, fmt.Sprintf("(%d)", entry.Year))
		}
		if entry.Season != 0 || entry.Episode != 0 {
			parts = append(parts, fmt.Sprintf("S%02dE%02d", entry.Season, entry.Episode))
		}
		parts = append(parts, "-", entry.Title)
	} else {
		parts = append(parts, entry.Title)
		if entry.Year != 0 {
			parts = append(parts, fmt.Sprintf("(%d)", entry.Year))
		}
	}

	return strings.Join(parts, " ")
}

func kindIcon(kind catalog.Kind) string {
	switch kind {
	case catalog.Movie:
		return icon.Get(icon.Movie)
	case catalog.Episode:
		return icon.Get(icon.Episode)
	case catalog.Series:
		return icon.Get(icon.Series)
	case catalog.Collection:
		return icon.Get(icon.Collection)
	default:
		return icon.Get(icon.Folder)
	}
}

// Resolve maps a selector answer back to its entry. A miss is not an error:
// the selector was cancelled or the user typed free text, which ends the run
// as a normal "no selection" outcome.
func Resolve(answer string, lines []Line) (catalog.Entry, bool) {
	answer = strings.TrimRight(answer, "\n")
	for _, line := range lines {
		if line.Text == answer {
			return line.Entry, true
		}
	}
	return catalog.Entry{}, false
}

// Texts extracts the display lines in order, as fed to the selector process.
func Texts(lines []Line) []string {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}
	return texts
}

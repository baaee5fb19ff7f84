// Package tui is the built-in fallback picker, used when no dmenu-protocol
// selector is available or when one is explicitly requested. It presents the
// same display lines the external selector would receive.
package tui

import (
	"github.com/jellypick-cli/jellypick/menu"
	"github.com/jellypick-cli/jellypick/style"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Pick shows the lines in a filterable full-screen list and returns the
// chosen one. ok is false when the user dismissed the picker.
func Pick(prompt string, lines []menu.Line) (choice menu.Line, ok bool, err error) {
	items := make([]list.Item, len(lines))
	for i, line := range lines {
		items[i] = listLine{line}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(style.AccentColor).
		BorderForeground(style.AccentColor)

	l := list.New(items, delegate, 0, 0)
	l.Title = prompt
	l.Styles.Title = style.New().
		Foreground(style.Text).
		Background(style.Surface).
		Padding(0, 1)
	l.SetShowStatusBar(false)

	p := picker{list: l}
	final, err := tea.NewProgram(&p, tea.WithAltScreen()).Run()
	if err != nil {
		return menu.Line{}, false, err
	}

	result := final.(*picker)
	if result.cancelled || result.choice == nil {
		return menu.Line{}, false, nil
	}
	return *result.choice, true, nil
}

// listLine adapts a menu line to the bubbles list item interface.
type listLine struct {
	menu.Line
}

func (l listLine) Title() string       { return l.Text }
func (l listLine) Description() string { return "" }
func (l listLine) FilterValue() string { return l.Text }

type picker struct {
	list      list.Model
	choice    *menu.Line
	cancelled bool
}

func (p *picker) Init() tea.Cmd {
	return nil
}

func (p *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		// Keys only act on the list itself while the filter input is open.
		if p.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := p.list.SelectedItem().(listLine); ok {
				p.choice = &item.Line
			}
			return p, tea.Quit
		case "q", "esc", "ctrl+c":
			p.cancelled = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *picker) View() string {
	return p.list.View()
}

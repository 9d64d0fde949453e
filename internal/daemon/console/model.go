package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/cryptomator/cryptomator-tray/internal/daemon/tray"
)

const defaultWidth = 60

type row struct {
	entry tray.Entry
	depth int
	// id is unique within a menu: vault actions share keys across submenus.
	id string
}

func (r row) selectable() bool {
	return r.entry.Kind == tray.KindAction && r.entry.Enabled
}

type model struct {
	title       string
	rows        []row
	cursor      int
	width       int
	iconSize    int
	iconUpdates int
}

func newModel() model {
	return model{title: tray.AppName, cursor: -1, width: defaultWidth}
}

func (m model) Init() tea.Cmd {
	return nil
}

func flatten(entries []tray.Entry, depth int, parent string) []row {
	var rows []row
	for _, e := range entries {
		id := parent + "/" + e.Key
		rows = append(rows, row{entry: e, depth: depth, id: id})
		if e.Kind == tray.KindSubmenu {
			rows = append(rows, flatten(e.Children, depth+1, id)...)
		}
	}
	return rows
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case iconMsg:
		m.iconSize = msg.size
		m.iconUpdates++
	case tooltipMsg:
		m.title = string(msg)
	case menuMsg:
		m = m.setMenu(tray.Menu(msg))
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Close):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.cursor = m.step(-1)
		case key.Matches(msg, keys.Down):
			m.cursor = m.step(1)
		case key.Matches(msg, keys.Select):
			if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].selectable() {
				entry := m.rows[m.cursor].entry
				return m, func() tea.Msg {
					entry.Click()
					return nil
				}
			}
		}
	}
	return m, nil
}

// setMenu replaces the rows and keeps the cursor on the entry with the same
// key if it still exists.
func (m model) setMenu(menu tray.Menu) model {
	var selected string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].id
	}

	m.rows = flatten(menu, 0, "")
	m.cursor = -1
	for i, r := range m.rows {
		if r.selectable() && r.id == selected {
			m.cursor = i
			return m
		}
	}
	m.cursor = m.step(1)
	return m
}

// step returns the next selectable row in direction dir, or the current
// cursor if there is none.
func (m model) step(dir int) int {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].selectable() {
			return i
		}
	}
	return m.cursor
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	maxWidth := m.width - 4
	if maxWidth < 10 {
		maxWidth = 10
	}
	for i, r := range m.rows {
		indent := strings.Repeat("  ", r.depth)
		switch r.entry.Kind {
		case tray.KindSeparator:
			b.WriteString(separatorStyle.Render(indent + strings.Repeat("─", min(maxWidth, 20))))
		case tray.KindSubmenu:
			b.WriteString(submenuStyle.Render(indent + ansi.Truncate(r.entry.Label, maxWidth-len(indent), "…")))
		default:
			label := ansi.Truncate(r.entry.Label, maxWidth-len(indent)-2, "…")
			switch {
			case !r.entry.Enabled:
				b.WriteString(disabledStyle.Render(indent + "  " + label))
			case i == m.cursor:
				b.WriteString(selectedItemStyle.Render(indent + "> " + label))
			default:
				b.WriteString(itemStyle.Render(indent + "  " + label))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("icon %s, %d updates", formatSize(m.iconSize), m.iconUpdates)
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(helpLine()))
	return b.String()
}

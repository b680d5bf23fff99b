package components

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// MenuItem represents a single entry in a vertical menu.
type MenuItem struct {
	Label  string
	Detail string
	Accent color.Color
	Action func() tea.Cmd
}

// Menu is a vertical selection list. The selection wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first item selected.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
	case "down", "j":
		m.Selected = (m.Selected + 1) % len(m.Items)
	case "enter":
		if item := m.Items[m.Selected]; item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders the menu. Details are shown under the selected item only.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		accent := item.Accent
		if accent == nil {
			accent = theme.Primary
		}
		marker := lipgloss.NewStyle().Foreground(accent).Render("●")

		if i != m.Selected {
			b.WriteString("    " + marker + " " + theme.Unselected.Render(item.Label) + "\n")
			continue
		}
		b.WriteString(theme.Selected.Render("  ▸ ") + marker + " " + theme.Selected.Render(item.Label) + "\n")
		if item.Detail != "" {
			b.WriteString("      " + theme.Hint.Render(item.Detail) + "\n")
		}
	}
	return b.String()
}

// Package home is the tab host shown after the splash: Home, Learn and
// Profile.
package home

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/ui/components"
	"github.com/abhisek/scenelingo/internal/ui/layout"
	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// Tab identifies one of the host's views.
type Tab int

const (
	TabHome Tab = iota
	TabLearn
	TabProfile
)

var tabNames = []string{"Home", "Learn", "Profile"}

func (t Tab) String() string { return tabNames[t] }

type keyMap struct {
	NextTab  key.Binding
	Jump     key.Binding
	Bonus    key.Binding
	Category key.Binding
	History  key.Binding
	Open     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("Tab", "Switch")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "Tabs")),
		Bonus:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "Daily Bonus")),
		Category: key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←→", "Category")),
		History:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "History")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Open scene")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
	}
}

// Options wires the host to the rest of the app.
type Options struct {
	// History builds the session history screen. Nil hides the key.
	History func() screen.Screen
	// ProviderReady is false when no generative credential was found.
	ProviderReady bool
}

// HomeScreen hosts the three top-level tabs.
type HomeScreen struct {
	opts Options
	keys keyMap
	tab  Tab

	stats stats.UserStats
	today stats.Date
	week  []stats.DayWords

	gallery  components.Menu
	category int
	learn    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the tab host. Stats arrive later via screen.StatsMsg.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{
		opts:    opts,
		keys:    newKeyMap(),
		gallery: components.NewMenu(sceneItems(catalog.All())),
	}
	h.keys.History.SetEnabled(opts.History != nil)
	h.setCategory(0)
	return h
}

func sceneItems(scenes []catalog.Scene) []components.MenuItem {
	items := make([]components.MenuItem, 0, len(scenes))
	for _, s := range scenes {
		items = append(items, components.MenuItem{
			Label:  s.Title,
			Detail: s.Description + " · " + catalog.CategoryDisplayName(s.Category),
			Accent: theme.SceneColor(s.Color),
			Action: func() tea.Cmd {
				return func() tea.Msg { return screen.OpenSceneMsg{Scene: s} }
			},
		})
	}
	return items
}

func (h *HomeScreen) setCategory(i int) {
	cats := catalog.AllCategories()
	h.category = (i + len(cats)) % len(cats)
	h.learn = components.NewMenu(sceneItems(catalog.ByCategory(cats[h.category])))
}

// ActiveTab returns the visible tab.
func (h *HomeScreen) ActiveTab() Tab { return h.tab }

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StatsMsg:
		h.stats = msg.Stats
		h.today = msg.Today
		h.week = msg.Week
		return h, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, h.keys.Quit):
			return h, tea.Quit
		case key.Matches(msg, h.keys.NextTab):
			step := 1
			if msg.String() == "shift+tab" {
				step = len(tabNames) - 1
			}
			h.tab = Tab((int(h.tab) + step) % len(tabNames))
			return h, nil
		case key.Matches(msg, h.keys.Jump):
			h.tab = Tab(msg.String()[0] - '1')
			return h, nil
		case key.Matches(msg, h.keys.Bonus):
			return h, func() tea.Msg { return screen.CheckInMsg{} }
		}

		switch h.tab {
		case TabHome:
			var cmd tea.Cmd
			h.gallery, cmd = h.gallery.Update(msg)
			return h, cmd
		case TabLearn:
			if key.Matches(msg, h.keys.Category) {
				step := 1
				if s := msg.String(); s == "left" || s == "h" {
					step = -1
				}
				h.setCategory(h.category + step)
				return h, nil
			}
			var cmd tea.Cmd
			h.learn, cmd = h.learn.Update(msg)
			return h, cmd
		case TabProfile:
			if key.Matches(msg, h.keys.History) {
				s := h.opts.History()
				return h, func() tea.Msg { return router.PushScreenMsg{Screen: s} }
			}
		}
	}
	return h, nil
}

func (h *HomeScreen) View(width, height int) string {
	cw := layout.CenterBlock(width, 64)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var body string
	switch h.tab {
	case TabHome:
		body = h.renderHome(cw, compact)
	case TabLearn:
		body = h.renderLearn(cw)
	case TabProfile:
		body = h.renderProfile(cw, compact)
	}

	sections := []string{renderTabs(h.tab, cw)}
	if !h.opts.ProviderReady {
		sections = append(sections, renderKeyWarning(cw))
	}
	sections = append(sections, body)
	return renderPanel(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return h.tab.String()
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	bindings := []key.Binding{h.keys.NextTab, h.keys.Jump}
	switch h.tab {
	case TabHome:
		bindings = append(bindings, h.keys.Open, h.keys.Bonus)
	case TabLearn:
		bindings = append(bindings, h.keys.Category, h.keys.Open)
	case TabProfile:
		bindings = append(bindings, h.keys.History)
	}
	return components.Hints(append(bindings, h.keys.Quit)...)
}

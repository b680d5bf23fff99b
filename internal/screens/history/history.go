// Package history lists recorded flashcard sessions.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/store"
	"github.com/abhisek/scenelingo/internal/ui/layout"
	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// pageSize bounds how many events are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Events []store.SessionEvent
	Err    error
}

// HistoryScreen displays past session events, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.SessionEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	notice := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return notice.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return notice.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return notice.Foreground(theme.TextDim).Italic(true).Render("\n\n  No sessions yet. Pick a scene to start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.events {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(actionColor(ev.Action))
		if i == s.selected {
			prefix = "> "
			style = style.Bold(true)
		}

		line := fmt.Sprintf("%s%s  %-16s %-9s %s",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), sceneTitle(ev.SceneID), ev.Action, summary(ev))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    session %s · day %s", ev.SessionID, ev.Day)
			if ev.Fallback {
				detail += " · placeholder vocabulary"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func sceneTitle(id string) string {
	if sc, ok := catalog.ByID(id); ok {
		return sc.Title
	}
	return id
}

func summary(ev store.SessionEvent) string {
	switch ev.Action {
	case store.SessionActionComplete:
		return fmt.Sprintf("+%d words  +%d ★", ev.Words, ev.Points)
	case store.SessionActionStart:
		return fmt.Sprintf("%d cards", ev.Words)
	default:
		return ""
	}
}

func actionColor(action string) color.Color {
	switch action {
	case store.SessionActionComplete:
		return theme.Success
	case store.SessionActionCancel:
		return theme.TextDim
	default:
		return theme.Text
	}
}

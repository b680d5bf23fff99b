package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/stats"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "history" }
func (s *stubScreen) Title() string                           { return "History" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestHome() *HomeScreen {
	h := New(Options{
		History:       func() screen.Screen { return &stubScreen{} },
		ProviderReady: true,
	})
	today := stats.NewDate(2026, 10, 18)
	h.Update(screen.StatsMsg{
		Stats: stats.UserStats{Streak: 3, Points: 250, LearnedWords: 40, WordsToday: 5, GoalToday: 10},
		Today: today,
		Week:  stats.Week(today, map[string]int{"2026-10-18": 5}),
	})
	return h
}

func TestTabSwitching(t *testing.T) {
	h := newTestHome()

	h.Update(specialKey(tea.KeyTab))
	if h.ActiveTab() != TabLearn {
		t.Fatalf("tab after Tab = %v", h.ActiveTab())
	}
	h.Update(keyPress('3'))
	if h.ActiveTab() != TabProfile {
		t.Fatalf("tab after 3 = %v", h.ActiveTab())
	}
	h.Update(specialKey(tea.KeyTab))
	if h.ActiveTab() != TabHome {
		t.Fatalf("Tab should wrap to Home, got %v", h.ActiveTab())
	}
	if h.Title() != "Home" {
		t.Errorf("title = %q", h.Title())
	}
}

func TestOpenSceneFromGallery(t *testing.T) {
	h := newTestHome()

	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter on a scene should produce a command")
	}
	msg, ok := cmd().(screen.OpenSceneMsg)
	if !ok {
		t.Fatalf("expected OpenSceneMsg, got %T", cmd())
	}
	if msg.Scene.ID != "subway" {
		t.Errorf("opened %q, want the second scene", msg.Scene.ID)
	}
}

func TestLearnCategoryFilter(t *testing.T) {
	h := newTestHome()
	h.Update(keyPress('2'))

	first := h.learn.Items[0].Label
	h.Update(specialKey(tea.KeyRight))
	if h.learn.Items[0].Label == first {
		t.Error("changing category should change the scene list")
	}
	h.Update(specialKey(tea.KeyLeft))
	if h.learn.Items[0].Label != first {
		t.Error("left should return to the previous category")
	}

	h.Update(specialKey(tea.KeyLeft))
	if h.category != 3 {
		t.Errorf("category should wrap to the last one, got %d", h.category)
	}
}

func TestDailyBonusKey(t *testing.T) {
	h := newTestHome()

	_, cmd := h.Update(keyPress('b'))
	if cmd == nil {
		t.Fatal("b should request a check-in")
	}
	if _, ok := cmd().(screen.CheckInMsg); !ok {
		t.Errorf("expected CheckInMsg, got %T", cmd())
	}
}

func TestHistoryOnlyOnProfile(t *testing.T) {
	h := newTestHome()

	if _, cmd := h.Update(keyPress('H')); cmd != nil {
		t.Error("history key should do nothing outside the profile tab")
	}

	h.Update(keyPress('3'))
	_, cmd := h.Update(keyPress('H'))
	if cmd == nil {
		t.Fatal("history key on profile should push a screen")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", cmd())
	}
}

func TestProfileView(t *testing.T) {
	h := newTestHome()
	h.Update(keyPress('3'))

	view := h.View(100, 40)
	for _, want := range []string{"250", "40", "Word Master", "Week Warrior", "This week"} {
		if !strings.Contains(view, want) {
			t.Errorf("profile view missing %q", want)
		}
	}
}

func TestHomeViewShowsGoal(t *testing.T) {
	h := newTestHome()
	view := h.View(100, 40)
	if !strings.Contains(view, "5/10 words") {
		t.Error("home view should show today's goal progress")
	}
	if !strings.Contains(view, "Coffee Shop") {
		t.Error("home view should list scenes")
	}
}

func TestMissingKeyWarning(t *testing.T) {
	h := New(Options{})
	if !strings.Contains(h.View(100, 40), "No API key") {
		t.Error("expected a warning when no provider is configured")
	}
}

func TestMascotFor(t *testing.T) {
	today := stats.NewDate(2026, 10, 18)
	tests := []struct {
		name string
		st   stats.UserStats
		want MascotVariant
	}{
		{"goal met", stats.UserStats{WordsToday: 10, GoalToday: 10}, MascotCelebrating},
		{"not checked in", stats.UserStats{GoalToday: 10}, MascotSleepy},
		{"checked in", stats.UserStats{GoalToday: 10, LastStreakDate: today}, MascotIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mascotFor(tt.st, today); got != tt.want {
				t.Errorf("mascotFor = %v, want %v", got, tt.want)
			}
		})
	}
}

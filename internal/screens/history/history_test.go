package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/store"
)

// fakeRepo serves canned session events.
type fakeRepo struct {
	store.EventRepo
	events []store.SessionEvent
	err    error
}

func (f *fakeRepo) QuerySessionEvents(context.Context, store.QueryOpts) ([]store.SessionEvent, error) {
	return f.events, f.err
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init should load events")
	}
	s.Update(cmd())
}

func TestHistoryListsEvents(t *testing.T) {
	repo := &fakeRepo{events: []store.SessionEvent{
		{ID: 2, Timestamp: time.Now(), SessionEventData: store.SessionEventData{
			SessionID: "s1", SceneID: "coffee-shop", Action: store.SessionActionComplete, Day: "2026-10-18", Words: 5, Points: 50,
		}},
		{ID: 1, Timestamp: time.Now(), SessionEventData: store.SessionEventData{
			SessionID: "s1", SceneID: "coffee-shop", Action: store.SessionActionStart, Day: "2026-10-18", Words: 5,
		}},
	}}
	s := New(repo)
	load(t, s)

	view := s.View(100, 30)
	if !strings.Contains(view, "Coffee Shop") || !strings.Contains(view, "+5 words") {
		t.Errorf("unexpected view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "session s1") {
		t.Error("enter should expand the selected event")
	}
}

func TestHistoryEmptyAndError(t *testing.T) {
	s := New(&fakeRepo{})
	load(t, s)
	if !strings.Contains(s.View(80, 20), "No sessions yet") {
		t.Error("expected empty notice")
	}

	s = New(&fakeRepo{err: errors.New("db locked")})
	load(t, s)
	if !strings.Contains(s.View(80, 20), "db locked") {
		t.Error("expected error notice")
	}
}

func TestHistoryNavigation(t *testing.T) {
	repo := &fakeRepo{events: make([]store.SessionEvent, 3)}
	s := New(repo)
	load(t, s)

	for i := 0; i < 5; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != 2 {
		t.Errorf("selection should stop at the last event, got %d", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

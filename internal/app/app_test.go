package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/learning"
	"github.com/abhisek/scenelingo/internal/metrics"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/screens/home"
	"github.com/abhisek/scenelingo/internal/speech"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
	"github.com/abhisek/scenelingo/internal/vocab"
)

type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memBlobs) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeEvents records session events and reports fixed daily totals.
type fakeEvents struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.SessionEventData
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEvents) WordsByDay(_ context.Context, from, to string) ([]store.DayActivity, error) {
	return []store.DayActivity{{Day: to, Words: 4}}, nil
}

// recordingSpeaker remembers what it was asked to say.
type recordingSpeaker struct {
	mu      sync.Mutex
	said    []string
	stopped int
}

func (r *recordingSpeaker) Speak(_ context.Context, text string, _ speech.Lang) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.said = append(r.said, text)
	return nil
}

func (r *recordingSpeaker) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped++
}

type fixture struct {
	model   AppModel
	shell   *Shell
	events  *fakeEvents
	metrics *metrics.Metrics
	speaker *recordingSpeaker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)
	svc := stats.NewService(&memBlobs{data: map[string][]byte{}}, stats.WithClock(func() time.Time { return now }))

	f := &fixture{
		events:  &fakeEvents{},
		metrics: metrics.New(),
		speaker: &recordingSpeaker{},
	}
	f.shell = NewShell(svc, f.events, f.metrics, f.speaker, vocab.ImageFiles{Dir: t.TempDir()})
	if _, err := f.shell.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	f.model = newAppModel(context.Background(), Options{
		Shell:      f.shell,
		Fetcher:    vocab.NewFetcher(nil, nil),
		EventRepo:  f.events,
		SkipSplash: true,
	})
	f.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return f
}

// send delivers msg and runs the resulting commands to completion,
// feeding their messages back. Timers are not awaited.
func (f *fixture) send(msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		model, cmd := f.model.Update(next)
		f.model = model.(AppModel)
		queue = append(queue, run(cmd)...)
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		// tea.Tick and spinner timers; tests drive those directly.
		return nil
	}
}

func TestCheckInShowsBannerAndUpdatesHeader(t *testing.T) {
	f := newFixture(t)

	f.send(screen.CheckInMsg{})

	if !strings.Contains(f.model.banner, "Daily bonus") {
		t.Errorf("banner = %q", f.model.banner)
	}
	if f.model.stats.Stats.Streak != 1 || f.model.stats.Stats.Points != stats.CheckInBonus {
		t.Errorf("header stats not refreshed: %+v", f.model.stats.Stats)
	}
	if !strings.Contains(f.model.render(), "🔥 1") {
		t.Error("header should show the streak")
	}
}

func TestBannerExpires(t *testing.T) {
	f := newFixture(t)
	f.send(screen.BannerMsg{Text: "hello"})
	seq := f.model.bannerSeq

	f.send(screen.BannerMsg{Text: "newer"})
	f.send(bannerExpiredMsg{seq: seq})
	if f.model.banner != "newer" {
		t.Fatal("an old timer must not clear a newer banner")
	}

	f.send(bannerExpiredMsg{seq: f.model.bannerSeq})
	if f.model.banner != "" {
		t.Error("banner should clear when its timer fires")
	}
}

func TestCompletionRecordsProgress(t *testing.T) {
	f := newFixture(t)
	scene, _ := catalog.ByID("coffee-shop")

	f.send(screen.SessionRewardMsg{
		SessionID: "s1",
		Scene:     scene,
		Reward:    learning.Reward{Points: learning.PointsPerSession, Words: 5},
	})

	st := f.model.stats.Stats
	if st.Points != 50 || st.WordsToday != 5 || st.Streak != 1 {
		t.Errorf("stats after completion: %+v", st)
	}
	if !strings.Contains(f.model.banner, "Coffee Shop complete") {
		t.Errorf("banner = %q", f.model.banner)
	}
	if len(f.events.events) != 1 || f.events.events[0].Action != store.SessionActionComplete {
		t.Fatalf("events = %+v", f.events.events)
	}
	if f.events.events[0].Day != "2026-10-18" {
		t.Errorf("event day = %q", f.events.events[0].Day)
	}
	if len(f.model.stats.Week) != stats.WeekDays || f.model.stats.Week[6].Words != 4 {
		t.Errorf("weekly activity not loaded: %+v", f.model.stats.Week)
	}
}

func TestOpenScenePushesFlashcards(t *testing.T) {
	f := newFixture(t)
	scene, _ := catalog.ByID("subway")

	f.send(screen.OpenSceneMsg{Scene: scene})

	if f.model.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", f.model.router.Depth())
	}
	if f.model.router.Active().Title() != "Subway Station" {
		t.Errorf("active = %q", f.model.router.Active().Title())
	}

	// No provider: the placeholder session starts and is recorded.
	if len(f.events.events) == 0 || f.events.events[0].Action != store.SessionActionStart || !f.events.events[0].Fallback {
		t.Fatalf("events = %+v", f.events.events)
	}

	// Leaving cancels the session and stops speech.
	f.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	if f.model.router.Depth() != 1 {
		t.Fatalf("esc should pop, depth = %d", f.model.router.Depth())
	}
	last := f.events.events[len(f.events.events)-1]
	if last.Action != store.SessionActionCancel {
		t.Errorf("last event = %+v", last)
	}
	if f.speaker.stopped == 0 {
		t.Error("speech should stop when leaving the session")
	}
}

func TestSpeakGoesThroughShell(t *testing.T) {
	f := newFixture(t)
	f.send(screen.SpeakMsg{Text: "コーヒー", Lang: speech.Japanese})

	if len(f.speaker.said) != 1 || f.speaker.said[0] != "コーヒー" {
		t.Errorf("said = %v", f.speaker.said)
	}
}

func TestStatsBroadcastReachesHome(t *testing.T) {
	f := newFixture(t)
	f.send(screen.CheckInMsg{})
	f.send(tea.KeyPressMsg{Code: '3', Text: "3"})

	if !strings.Contains(f.model.render(), "Week Warrior") {
		t.Error("profile tab should render achievements")
	}
}

func TestSplashIsFirstScreen(t *testing.T) {
	m := newAppModel(context.Background(), Options{Shell: newFixture(t).shell})
	if m.router.Depth() != 1 || m.router.Active().Title() != "" {
		t.Fatalf("splash should be the only screen, got %q", m.router.Active().Title())
	}

	scene, _ := catalog.ByID("office")
	m = newAppModel(context.Background(), Options{Shell: newFixture(t).shell, StartScene: &scene})
	if _, ok := m.router.Active().(interface{ ActiveTab() home.Tab }); !ok {
		t.Error("a start scene should skip the splash")
	}
}

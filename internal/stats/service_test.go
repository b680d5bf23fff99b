package stats

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/scenelingo/internal/store"
)

// memBlobs is an in-memory store.BlobStore that counts writes.
type memBlobs struct {
	mu     sync.Mutex
	data   map[string][]byte
	puts   int
	putErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: map[string][]byte{}}
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memBlobs) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memBlobs) stored(t *testing.T) UserStats {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var st UserStats
	if err := json.Unmarshal(m.data[StorageKey], &st); err != nil {
		t.Fatalf("decode stored stats: %v", err)
	}
	return st
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(blobs store.BlobStore) (*Service, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	return NewService(blobs, WithClock(clk.Now)), clk
}

func TestService_LoadFirstRun(t *testing.T) {
	blobs := newMemBlobs()
	svc, _ := newTestService(blobs)

	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Streak != 0 || st.Points != 0 || st.LearnedWords != 0 || st.WordsToday != 0 {
		t.Errorf("expected zeroed stats, got %+v", st)
	}
	if st.GoalToday != DefaultGoal {
		t.Errorf("goal = %d, want %d", st.GoalToday, DefaultGoal)
	}
	if st.LastLoginDate.String() != "2026-10-18" {
		t.Errorf("lastLoginDate = %q", st.LastLoginDate)
	}
	if blobs.puts != 1 {
		t.Errorf("expected defaults to be saved once, got %d puts", blobs.puts)
	}
}

func TestService_LoadMalformedStartsFresh(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data[StorageKey] = []byte(`{"streak": "lots"`)
	svc, _ := newTestService(blobs)

	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Streak != 0 || st.GoalToday != DefaultGoal {
		t.Errorf("expected defaults, got %+v", st)
	}
	if blobs.stored(t).GoalToday != DefaultGoal {
		t.Error("defaults were not persisted over the malformed record")
	}
}

func TestService_LoadRolloverPersists(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data[StorageKey] = []byte(`{"streak":6,"lastLoginDate":"2026-10-17","points":300,"learnedWords":60,"wordsToday":8,"goalToday":10}`)
	svc, _ := newTestService(blobs)

	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Streak != 6 || st.WordsToday != 0 || st.Points != 300 {
		t.Errorf("unexpected rollover result: %+v", st)
	}
	saved := blobs.stored(t)
	if saved.LastLoginDate.String() != "2026-10-18" || saved.WordsToday != 0 {
		t.Errorf("rollover not persisted: %+v", saved)
	}
}

func TestService_LoadSameDayDoesNotWrite(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data[StorageKey] = []byte(`{"streak":2,"lastLoginDate":"2026-10-18","points":20,"learnedWords":5,"wordsToday":5,"goalToday":10}`)
	svc, _ := newTestService(blobs)

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if blobs.puts != 0 {
		t.Errorf("expected no writes for an unchanged record, got %d", blobs.puts)
	}
}

func TestService_LoadAppliesConfiguredGoal(t *testing.T) {
	blobs := newMemBlobs()
	blobs.data[StorageKey] = []byte(`{"streak":0,"lastLoginDate":"2026-10-18","goalToday":10}`)
	clk := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	svc := NewService(blobs, WithClock(clk.Now), WithGoal(20))

	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.GoalToday != 20 || blobs.stored(t).GoalToday != 20 {
		t.Errorf("goal not applied: %+v", st)
	}
}

func TestService_MutationsBeforeLoad(t *testing.T) {
	svc, _ := newTestService(newMemBlobs())
	ctx := context.Background()

	if _, _, err := svc.CheckIn(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("CheckIn before Load: %v", err)
	}
	if _, err := svc.RecordCompletion(ctx, 50, 5); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("RecordCompletion before Load: %v", err)
	}
	if _, _, err := svc.Rollover(ctx); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Rollover before Load: %v", err)
	}
}

func TestService_CheckInThenComplete(t *testing.T) {
	blobs := newMemBlobs()
	svc, _ := newTestService(blobs)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	st, res, err := svc.CheckIn(ctx)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if res != CheckInCredited || st.Streak != 1 || st.Points != CheckInBonus {
		t.Fatalf("check-in: res=%v stats=%+v", res, st)
	}

	putsBefore := blobs.puts
	if _, res, _ = svc.CheckIn(ctx); res != CheckInAlreadyToday {
		t.Fatalf("second check-in = %v", res)
	}
	if blobs.puts != putsBefore {
		t.Error("no-op check-in should not write")
	}

	st, err = svc.RecordCompletion(ctx, 55, 5)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if st.Points != 65 || st.WordsToday != 5 || st.Streak != 1 {
		t.Fatalf("after completion: %+v", st)
	}
	if saved := blobs.stored(t); saved != st {
		t.Errorf("persisted %+v, in memory %+v", saved, st)
	}
	if svc.Current() != st {
		t.Error("Current does not match last mutation")
	}
}

func TestService_MidnightRollover(t *testing.T) {
	blobs := newMemBlobs()
	svc, clk := newTestService(blobs)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := svc.RecordCompletion(ctx, 55, 5); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, changed, _ := svc.Rollover(ctx); changed {
		t.Fatal("rollover on the same day should be a no-op")
	}

	clk.t = clk.t.Add(24 * time.Hour)
	st, changed, err := svc.Rollover(ctx)
	if err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if !changed || st.WordsToday != 0 || st.Streak != 1 {
		t.Fatalf("after midnight: changed=%v stats=%+v", changed, st)
	}
	if blobs.stored(t).WordsToday != 0 {
		t.Error("rollover not persisted")
	}
}

func TestService_CompletionAfterMidnightWithoutRollover(t *testing.T) {
	blobs := newMemBlobs()
	svc, clk := newTestService(blobs)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := svc.RecordCompletion(ctx, 55, 5); err != nil {
		t.Fatalf("record: %v", err)
	}

	clk.t = clk.t.Add(24 * time.Hour)
	st, err := svc.RecordCompletion(ctx, 55, 5)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if st.WordsToday != 5 || st.Streak != 2 {
		t.Fatalf("completion on the next day should count toward the new day: %+v", st)
	}
}

func TestService_SaveErrorKeepsState(t *testing.T) {
	blobs := newMemBlobs()
	svc, _ := newTestService(blobs)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	blobs.putErr = errors.New("disk full")

	if _, err := svc.RecordCompletion(ctx, 55, 5); err == nil {
		t.Fatal("expected save error")
	}
	if svc.Current().Points != 0 {
		t.Error("in-memory stats advanced despite failed save")
	}
}

func TestService_Reset(t *testing.T) {
	blobs := newMemBlobs()
	svc, _ := newTestService(blobs)
	ctx := context.Background()

	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := svc.RecordCompletion(ctx, 55, 5); err != nil {
		t.Fatalf("record: %v", err)
	}

	st, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st.Points != 0 || st.LearnedWords != 0 {
		t.Errorf("reset left progress behind: %+v", st)
	}
}

func TestService_SQLiteRoundTrip(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	svc, clk := newTestService(st.Blobs())
	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, _, err := svc.CheckIn(ctx); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	// A fresh service over the same store sees the persisted record.
	svc2 := NewService(st.Blobs(), WithClock(clk.Now))
	got, err := svc2.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Streak != 1 || got.Points != CheckInBonus {
		t.Errorf("reloaded stats: %+v", got)
	}
}

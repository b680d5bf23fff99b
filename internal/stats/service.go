package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/store"
)

// ErrNotLoaded is returned by mutations issued before Load.
var ErrNotLoaded = errors.New("stats not loaded")

// Service owns the in-memory UserStats and writes it through to a
// BlobStore at each mutation point: Load (when the record is new or
// rolled over), CheckIn, RecordCompletion, and Rollover.
type Service struct {
	mu      sync.Mutex
	blobs   store.BlobStore
	now     func() time.Time
	goal    int
	current UserStats
	loaded  bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGoal sets the daily word goal. It replaces whatever goal the
// persisted record carries.
func WithGoal(goal int) Option {
	return func(s *Service) { s.goal = goal }
}

// NewService creates a Service over blobs.
func NewService(blobs store.BlobStore, opts ...Option) *Service {
	s := &Service{
		blobs: blobs,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today returns the current calendar day in local time.
func (s *Service) Today() Date {
	return DateOf(s.now())
}

// Current returns a copy of the in-memory record.
func (s *Service) Current() UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Load reads the persisted record and applies the day rollover. A missing
// or unreadable record is replaced by defaults.
func (s *Service) Load(ctx context.Context) (UserStats, error) {
	today := s.Today()

	raw, err := s.blobs.Get(ctx, StorageKey)
	if err != nil {
		return UserStats{}, fmt.Errorf("load stats: %w", err)
	}

	var st UserStats
	dirty := false

	switch {
	case raw == nil:
		st = Defaults(today, s.goal)
		dirty = true
	default:
		if err := json.Unmarshal(raw, &st); err != nil {
			logrus.WithError(err).Warn("stored stats are malformed, starting fresh")
			st = Defaults(today, s.goal)
			dirty = true
			break
		}
		var rolled bool
		st, rolled = st.Rollover(today)
		dirty = rolled
	}

	if s.goal > 0 && st.GoalToday != s.goal {
		st.GoalToday = s.goal
		dirty = true
	}
	if st.GoalToday <= 0 {
		st.GoalToday = DefaultGoal
		dirty = true
	}

	if dirty {
		if err := s.Save(ctx, st); err != nil {
			return UserStats{}, err
		}
	}

	s.mu.Lock()
	s.current = st
	s.loaded = true
	s.mu.Unlock()

	return st, nil
}

// Save persists st as a whole. The last write wins.
func (s *Service) Save(ctx context.Context, st UserStats) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := s.blobs.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// CheckIn applies the daily check-in and persists the result when it
// changed anything.
func (s *Service) CheckIn(ctx context.Context) (UserStats, CheckInResult, error) {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return UserStats{}, CheckInAfterLearning, ErrNotLoaded
	}

	next, res := s.rolled(today).CheckIn(today)
	if res == CheckInCredited {
		if err := s.Save(ctx, next); err != nil {
			return s.current, res, err
		}
	}
	s.current = next
	return next, res, nil
}

// RecordCompletion adds a finished session's reward and persists it.
func (s *Service) RecordCompletion(ctx context.Context, points, words int) (UserStats, error) {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return UserStats{}, ErrNotLoaded
	}

	next := s.rolled(today).RecordCompletion(points, words, today)
	if err := s.Save(ctx, next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

// Rollover applies the day transition to the in-memory record, for
// long-running sessions that cross midnight. It reports whether the day
// changed.
func (s *Service) Rollover(ctx context.Context) (UserStats, bool, error) {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return UserStats{}, false, ErrNotLoaded
	}

	next, changed := s.current.Rollover(today)
	if !changed {
		return s.current, false, nil
	}
	if err := s.Save(ctx, next); err != nil {
		return s.current, false, err
	}
	s.current = next
	return next, true, nil
}

// Reset deletes the persisted record and reloads defaults.
func (s *Service) Reset(ctx context.Context) (UserStats, error) {
	if err := s.blobs.Delete(ctx, StorageKey); err != nil {
		return UserStats{}, fmt.Errorf("reset stats: %w", err)
	}
	return s.Load(ctx)
}

// rolled returns the current record with any pending day transition
// applied, so a mutation after midnight never credits the previous day.
// Callers hold s.mu.
func (s *Service) rolled(today Date) UserStats {
	st, _ := s.current.Rollover(today)
	return st
}

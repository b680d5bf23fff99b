// Package scheduler runs the day-boundary job while the app is open.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const rolloverTag = "rollover"

// Scheduler fires a callback at each local midnight.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	onRollover func()
}

// New creates a scheduler in loc. onRollover runs on the scheduler's
// goroutine and must be safe to call concurrently with the caller.
func New(loc *time.Location, onRollover func()) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s, onRollover: onRollover}
}

// Start registers the midnight job and starts the scheduler in the
// background.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At("00:00").Tag(rolloverTag).Do(s.rollover)
	if err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextRollover returns when the midnight job fires next.
func (s *Scheduler) NextRollover() time.Time {
	_, t := s.scheduler.NextRun()
	return t
}

// RunNow fires the rollover job immediately.
func (s *Scheduler) RunNow() error {
	return s.scheduler.RunByTag(rolloverTag)
}

func (s *Scheduler) rollover() {
	logrus.Debug("day rollover job fired")
	s.onRollover()
}

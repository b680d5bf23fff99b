package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/metrics"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/speech"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
	"github.com/abhisek/scenelingo/internal/vocab"
)

// Shell owns the learner's state for the lifetime of the app. It is the
// only writer of stats; screens reach it through messages handled by
// AppModel.
type Shell struct {
	stats   *stats.Service
	events  store.EventRepo
	metrics *metrics.Metrics
	speaker speech.Speaker
	images  vocab.ImageFiles
}

// NewShell creates a Shell. events may be nil, in which case sessions are
// not recorded and the weekly chart stays empty.
func NewShell(svc *stats.Service, events store.EventRepo, m *metrics.Metrics, speaker speech.Speaker, images vocab.ImageFiles) *Shell {
	if m == nil {
		m = metrics.New()
	}
	if speaker == nil {
		speaker = speech.Nop{}
	}
	return &Shell{
		stats:   svc,
		events:  events,
		metrics: m,
		speaker: speaker,
		images:  images,
	}
}

// Load reads the stats record, applying any pending day rollover.
func (s *Shell) Load(ctx context.Context) (stats.UserStats, error) {
	st, err := s.stats.Load(ctx)
	if err != nil {
		return st, err
	}
	s.metrics.SetProgress(st.Streak, st.Points)
	return st, nil
}

// Snapshot returns the current stats and the last week of activity.
func (s *Shell) Snapshot(ctx context.Context) screen.StatsMsg {
	today := s.stats.Today()
	return screen.StatsMsg{
		Stats: s.stats.Current(),
		Today: today,
		Week:  s.Week(ctx, today),
	}
}

// Week returns words per day for the seven days ending today. Store errors
// are logged and produce an empty week.
func (s *Shell) Week(ctx context.Context, today stats.Date) []stats.DayWords {
	counts := map[string]int{}
	if s.events != nil {
		from := today.AddDays(-(stats.WeekDays - 1))
		days, err := s.events.WordsByDay(ctx, from.String(), today.String())
		if err != nil {
			log.WithError(err).Warn("load weekly activity")
		}
		for _, d := range days {
			counts[d.Day] = d.Words
		}
	}
	return stats.Week(today, counts)
}

// CheckIn credits the daily bonus.
func (s *Shell) CheckIn(ctx context.Context) (stats.CheckInResult, error) {
	st, res, err := s.stats.CheckIn(ctx)
	if err != nil {
		return res, fmt.Errorf("check in: %w", err)
	}
	s.metrics.CheckIn(res.String())
	s.metrics.SetProgress(st.Streak, st.Points)
	log.WithFields(log.Fields{"result": res, "streak": st.Streak}).Info("check-in")
	return res, nil
}

// SessionStarted records that a session's cards are on screen.
func (s *Shell) SessionStarted(ctx context.Context, msg screen.SessionStartedMsg) {
	s.metrics.SessionStarted(msg.Fallback)
	s.record(ctx, store.SessionEventData{
		SessionID: msg.SessionID,
		SceneID:   msg.Scene.ID,
		Action:    store.SessionActionStart,
		Words:     msg.Words,
		Fallback:  msg.Fallback,
	})
}

// Complete adds a finished session's reward to the stats.
func (s *Shell) Complete(ctx context.Context, msg screen.SessionRewardMsg) (stats.UserStats, error) {
	st, err := s.stats.RecordCompletion(ctx, msg.Reward.Points, msg.Reward.Words)
	if err != nil {
		return st, fmt.Errorf("record completion: %w", err)
	}
	s.metrics.SessionCompleted(msg.Reward.Words)
	s.metrics.SetProgress(st.Streak, st.Points)
	s.record(ctx, store.SessionEventData{
		SessionID: msg.SessionID,
		SceneID:   msg.Scene.ID,
		Action:    store.SessionActionComplete,
		Words:     msg.Reward.Words,
		Points:    msg.Reward.Points,
		Fallback:  msg.Fallback,
	})
	log.WithFields(log.Fields{
		"scene":  msg.Scene.ID,
		"words":  msg.Reward.Words,
		"points": st.Points,
	}).Info("session completed")
	return st, nil
}

// SessionCancelled records an abandoned session.
func (s *Shell) SessionCancelled(ctx context.Context, msg screen.SessionCancelledMsg) {
	s.metrics.SessionCancelled()
	s.record(ctx, store.SessionEventData{
		SessionID: msg.SessionID,
		SceneID:   msg.Scene.ID,
		Action:    store.SessionActionCancel,
	})
}

// Rollover resets the day's counters when the calendar day changed.
func (s *Shell) Rollover(ctx context.Context) (bool, error) {
	st, changed, err := s.stats.Rollover(ctx)
	if err != nil {
		return false, fmt.Errorf("rollover: %w", err)
	}
	if changed {
		s.metrics.SetProgress(st.Streak, st.Points)
		log.WithField("day", s.stats.Today()).Info("day rolled over")
	}
	return changed, nil
}

// Speak reads text aloud, interrupting any utterance in progress. It
// blocks until the utterance ends.
func (s *Shell) Speak(ctx context.Context, text string, lang speech.Lang) error {
	return s.speaker.Speak(ctx, text, lang)
}

// StopSpeech interrupts the current utterance.
func (s *Shell) StopSpeech() {
	s.speaker.Stop()
}

// SaveImage writes a generated illustration to the image directory.
func (s *Shell) SaveImage(msg screen.SaveImageMsg) (string, error) {
	return s.images.Save(msg.SceneID, msg.Word, msg.Image)
}

// StaleImage counts a discarded image result.
func (s *Shell) StaleImage() {
	s.metrics.StaleImage()
}

func (s *Shell) record(ctx context.Context, data store.SessionEventData) {
	if s.events == nil {
		return
	}
	data.Day = s.stats.Today().String()
	if err := s.events.AppendSessionEvent(ctx, data); err != nil {
		log.WithError(err).WithField("action", data.Action).Warn("record session event")
	}
}

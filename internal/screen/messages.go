package screen

import (
	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/learning"
	"github.com/abhisek/scenelingo/internal/llm"
	"github.com/abhisek/scenelingo/internal/speech"
	"github.com/abhisek/scenelingo/internal/stats"
)

// StatsMsg carries the latest stats to every screen on the stack.
type StatsMsg struct {
	Stats stats.UserStats
	Today stats.Date
	Week  []stats.DayWords
}

// CheckInMsg asks the shell to credit the daily bonus.
type CheckInMsg struct{}

// CheckInResultMsg reports the outcome of a CheckInMsg.
type CheckInResultMsg struct {
	Result stats.CheckInResult
	Err    error
}

// OpenSceneMsg asks the shell to start a flashcard session for Scene.
type OpenSceneMsg struct {
	Scene catalog.Scene
}

// SessionStartedMsg is sent once a session's vocabulary is on screen.
type SessionStartedMsg struct {
	SessionID string
	Scene     catalog.Scene
	Words     int
	Fallback  bool
}

// SessionRewardMsg asks the shell to collect a finished session's reward.
type SessionRewardMsg struct {
	SessionID string
	Scene     catalog.Scene
	Reward    learning.Reward
	Fallback  bool
}

// SessionCancelledMsg records that a session was abandoned.
type SessionCancelledMsg struct {
	SessionID string
	Scene     catalog.Scene
}

// SpeakMsg asks the shell to read Text aloud.
type SpeakMsg struct {
	Text string
	Lang speech.Lang
}

// StopSpeechMsg interrupts any utterance in progress.
type StopSpeechMsg struct{}

// SaveImageMsg asks the shell to write a generated card image to disk.
type SaveImageMsg struct {
	SceneID string
	Word    string
	Image   *llm.Image
}

// ImageDiscardedMsg records that a late image result was dropped.
type ImageDiscardedMsg struct{}

// BannerMsg shows a transient message over the active screen.
type BannerMsg struct {
	Text  string
	Error bool
}

// RolloverMsg is sent by the midnight scheduler after the day changed.
type RolloverMsg struct{}

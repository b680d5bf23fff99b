// Package learning holds the flashcard session state machine. It performs
// no I/O: callers issue the vocabulary and image requests it describes and
// feed the results back.
package learning

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/llm"
	"github.com/abhisek/scenelingo/internal/vocab"
)

// PointsPerSession is awarded when a completed session is collected.
const PointsPerSession = 50

// AdvanceDelay is how long the card stays on screen, unflipped, before the
// cursor moves on.
const AdvanceDelay = 300 * time.Millisecond

// ErrInvalidTransition is returned when an operation is not allowed in the
// session's current state.
var ErrInvalidTransition = errors.New("learning: invalid transition")

// State is a session lifecycle state.
type State int

const (
	Loading State = iota
	Active
	Completed
	Finished
	Cancelled
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Step is the outcome of Next.
type Step int

const (
	// StepAdvance means the cursor will move once CommitAdvance is called.
	StepAdvance Step = iota
	// StepCompleted means the last card was passed.
	StepCompleted
)

// Advance describes a pending cursor move returned by Next.
type Advance struct {
	Step Step
	From int
}

// Token identifies one image request. Seq increases with every request so
// a late result for an earlier request never matches.
type Token struct {
	Index int
	Seq   int
}

// ImageRequest describes the illustration wanted for a card.
type ImageRequest struct {
	Token   Token
	Word    string
	Context string
}

// Reward is what a finished session hands back to the shell.
type Reward struct {
	Points int
	Words  int
}

// Picture is what the image panel should show for the current card.
type Picture struct {
	Image      *llm.Image
	DefaultURL string
}

// Generated reports whether a generated image is available.
func (p Picture) Generated() bool { return p.Image != nil }

// Session is one pass through a scene's flashcards.
type Session struct {
	id      string
	scene   catalog.Scene
	state   State
	started time.Time

	words   []vocab.WordItem
	index   int
	flipped bool

	images   map[int]*llm.Image
	failed   map[int]bool
	inflight *Token
	seq      int
}

// New starts a session for scene in the Loading state.
func New(scene catalog.Scene) *Session {
	return &Session{
		id:      uuid.NewString(),
		scene:   scene,
		state:   Loading,
		started: time.Now(),
		images:  make(map[int]*llm.Image),
		failed:  make(map[int]bool),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Scene returns the scene being studied.
func (s *Session) Scene() catalog.Scene { return s.scene }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Started returns when the session was created.
func (s *Session) Started() time.Time { return s.started }

// Index returns the cursor position.
func (s *Session) Index() int { return s.index }

// Len returns the number of cards.
func (s *Session) Len() int { return len(s.words) }

// Flipped reports whether the current card shows its back.
func (s *Session) Flipped() bool { return s.flipped }

// IsFallback reports whether the session holds the placeholder card.
func (s *Session) IsFallback() bool { return vocab.IsFallbackList(s.words) }

// Current returns the card under the cursor.
func (s *Session) Current() (vocab.WordItem, bool) {
	if s.index < 0 || s.index >= len(s.words) {
		return vocab.WordItem{}, false
	}
	return s.words[s.index], true
}

// Load installs the vocabulary and activates the session.
func (s *Session) Load(words []vocab.WordItem) error {
	if s.state != Loading {
		return fmt.Errorf("%w: load in %s", ErrInvalidTransition, s.state)
	}
	if len(words) == 0 {
		return fmt.Errorf("%w: load with no words", ErrInvalidTransition)
	}
	s.words = append([]vocab.WordItem(nil), words...)
	s.index = 0
	s.flipped = false
	s.state = Active
	return nil
}

// Flip toggles the current card between front and back.
func (s *Session) Flip() error {
	if s.state != Active {
		return fmt.Errorf("%w: flip in %s", ErrInvalidTransition, s.state)
	}
	s.flipped = !s.flipped
	return nil
}

// Next turns the card face down and either schedules a move to the next
// card or completes the session when the cursor is on the last card.
func (s *Session) Next() (Advance, error) {
	if s.state != Active {
		return Advance{}, fmt.Errorf("%w: next in %s", ErrInvalidTransition, s.state)
	}
	s.flipped = false
	if s.index >= len(s.words)-1 {
		s.state = Completed
		return Advance{Step: StepCompleted, From: s.index}, nil
	}
	return Advance{Step: StepAdvance, From: s.index}, nil
}

// CommitAdvance moves the cursor from from to from+1. It reports false,
// leaving the session untouched, when the session is no longer active or
// the cursor has already moved.
func (s *Session) CommitAdvance(from int) bool {
	if s.state != Active || s.index != from || from+1 >= len(s.words) {
		return false
	}
	s.index = from + 1
	s.flipped = false
	return true
}

// ImageRequest returns the request for the current card's illustration,
// or false when it is cached, already in flight, already failed, or the
// session is not active.
func (s *Session) ImageRequest() (ImageRequest, bool) {
	if s.state != Active {
		return ImageRequest{}, false
	}
	if _, ok := s.images[s.index]; ok || s.failed[s.index] {
		return ImageRequest{}, false
	}
	if s.inflight != nil && s.inflight.Index == s.index {
		return ImageRequest{}, false
	}

	s.seq++
	tok := Token{Index: s.index, Seq: s.seq}
	s.inflight = &tok
	return ImageRequest{
		Token:   tok,
		Word:    s.words[s.index].English,
		Context: s.scene.Title,
	}, true
}

// ImageLoading reports whether the current card's image is being fetched.
func (s *Session) ImageLoading() bool {
	return s.inflight != nil && s.inflight.Index == s.index
}

// ApplyImage records the result of the request identified by tok. A nil
// img marks the card as failed so it keeps the default picture. Results
// for any token other than the one in flight are discarded. It reports
// whether the picture on screen changed.
func (s *Session) ApplyImage(tok Token, img *llm.Image) bool {
	if s.inflight == nil || *s.inflight != tok {
		return false
	}
	s.inflight = nil

	if s.state == Cancelled || s.state == Finished {
		return false
	}
	if img == nil {
		s.failed[tok.Index] = true
		return false
	}
	s.images[tok.Index] = img
	return tok.Index == s.index
}

// DisplayImage returns the picture for the current card: the generated
// image when cached, otherwise the scene's default.
func (s *Session) DisplayImage() Picture {
	return Picture{
		Image:      s.images[s.index],
		DefaultURL: s.scene.ImageURL,
	}
}

// Finish collects the reward of a completed session.
func (s *Session) Finish() (Reward, error) {
	if s.state != Completed {
		return Reward{}, fmt.Errorf("%w: finish in %s", ErrInvalidTransition, s.state)
	}
	s.state = Finished
	return Reward{Points: PointsPerSession, Words: len(s.words)}, nil
}

// Cancel abandons the session without a reward.
func (s *Session) Cancel() error {
	switch s.state {
	case Loading, Active, Completed:
		s.state = Cancelled
		s.inflight = nil
		return nil
	default:
		return fmt.Errorf("%w: cancel in %s", ErrInvalidTransition, s.state)
	}
}

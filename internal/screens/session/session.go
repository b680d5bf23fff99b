// Package session is the flashcard screen for one scene.
package session

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/learning"
	"github.com/abhisek/scenelingo/internal/llm"
	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/speech"
	"github.com/abhisek/scenelingo/internal/ui/components"
	"github.com/abhisek/scenelingo/internal/ui/layout"
	"github.com/abhisek/scenelingo/internal/ui/theme"
	"github.com/abhisek/scenelingo/internal/vocab"
)

// Fetcher is the subset of vocab.Fetcher the screen needs.
type Fetcher interface {
	CanFetchImages() bool
	FetchVocabulary(ctx context.Context, sceneTitle string) ([]vocab.WordItem, error)
	FetchImage(ctx context.Context, word, sceneContext string) (*llm.Image, error)
}

type keyMap struct {
	Flip          key.Binding
	Next          key.Binding
	SpeakEnglish  key.Binding
	SpeakJapanese key.Binding
	SpeakSentence key.Binding
	SaveImage     key.Binding
	Collect       key.Binding
	Back          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Flip:          key.NewBinding(key.WithKeys("space", "f"), key.WithHelp("Space", "Flip")),
		Next:          key.NewBinding(key.WithKeys("enter", "n", "right"), key.WithHelp("Enter", "Next")),
		SpeakEnglish:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Speak")),
		SpeakJapanese: key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "Speak 日本語")),
		SpeakSentence: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Example")),
		SaveImage:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Save image")),
		Collect:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Collect Rewards")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
}

// SessionScreen runs one flashcard session.
type SessionScreen struct {
	sess    *learning.Session
	fetcher Fetcher
	keys    keyMap
	spinner spinner.Model

	// pending is the last image token issued; results for any other
	// token are stale.
	pending  *learning.Token
	notice   string
	spinning bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Leaver = (*SessionScreen)(nil)

// New creates a flashcard screen for scene.
func New(scene catalog.Scene, fetcher Fetcher) *SessionScreen {
	return &SessionScreen{
		sess:    learning.New(scene),
		fetcher: fetcher,
		keys:    newKeyMap(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.SceneColor(scene.Color))),
		),
	}
}

// Session exposes the underlying state machine.
func (s *SessionScreen) Session() *learning.Session { return s.sess }

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.spin(), s.fetchVocabulary())
}

func (s *SessionScreen) Title() string {
	return s.sess.Scene().Title
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.sess.State() {
	case learning.Active:
		bindings := []key.Binding{s.keys.Flip, s.keys.Next, s.keys.SpeakEnglish}
		if s.sess.Flipped() {
			bindings = append(bindings, s.keys.SpeakJapanese, s.keys.SpeakSentence)
		}
		if s.sess.DisplayImage().Generated() {
			bindings = append(bindings, s.keys.SaveImage)
		}
		return components.Hints(append(bindings, s.keys.Back)...)
	case learning.Completed:
		return components.Hints(s.keys.Collect, s.keys.Back)
	default:
		return components.Hints(s.keys.Back)
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case vocabLoadedMsg:
		return s.handleVocabulary(msg)

	case imageLoadedMsg:
		return s.handleImage(msg)

	case advanceMsg:
		if s.sess.CommitAdvance(msg.From) {
			return s, s.requestImage()
		}
		return s, nil

	case spinner.TickMsg:
		if s.sess.State() != learning.Loading && !s.sess.ImageLoading() {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// OnLeave cancels an unfinished session and silences speech.
func (s *SessionScreen) OnLeave() tea.Cmd {
	stop := func() tea.Msg { return screen.StopSpeechMsg{} }
	if err := s.sess.Cancel(); err != nil {
		return stop
	}
	s.pending = nil
	cancelled := screen.SessionCancelledMsg{SessionID: s.sess.ID(), Scene: s.sess.Scene()}
	return tea.Batch(stop, func() tea.Msg { return cancelled })
}

func (s *SessionScreen) fetchVocabulary() tea.Cmd {
	fetcher := s.fetcher
	title := s.sess.Scene().Title
	return func() tea.Msg {
		words, err := fetcher.FetchVocabulary(context.Background(), title)
		return vocabLoadedMsg{Words: words, Err: err}
	}
}

func (s *SessionScreen) handleVocabulary(msg vocabLoadedMsg) (screen.Screen, tea.Cmd) {
	if s.sess.State() != learning.Loading {
		return s, nil
	}

	words := msg.Words
	var banner tea.Cmd
	if msg.Err != nil {
		s.notice = "No API key configured: showing a placeholder card."
		if !errors.Is(msg.Err, vocab.ErrNoProvider) {
			s.notice = "Vocabulary unavailable: showing a placeholder card."
		}
		log.WithError(msg.Err).WithField("scene", s.sess.Scene().ID).Warn("vocabulary not fetched")
		words = []vocab.WordItem{vocab.Fallback()}
		notice := s.notice
		banner = func() tea.Msg { return screen.BannerMsg{Text: notice, Error: true} }
	}

	if err := s.sess.Load(words); err != nil {
		log.WithError(err).Error("load session")
		return s, nil
	}

	started := screen.SessionStartedMsg{
		SessionID: s.sess.ID(),
		Scene:     s.sess.Scene(),
		Words:     s.sess.Len(),
		Fallback:  s.sess.IsFallback(),
	}
	return s, tea.Batch(
		func() tea.Msg { return started },
		banner,
		s.requestImage(),
	)
}

// requestImage issues the current card's illustration request, if one is
// needed and an image provider is configured.
func (s *SessionScreen) requestImage() tea.Cmd {
	if s.fetcher == nil || !s.fetcher.CanFetchImages() {
		return nil
	}
	req, ok := s.sess.ImageRequest()
	if !ok {
		return nil
	}
	tok := req.Token
	s.pending = &tok

	fetcher := s.fetcher
	fetch := func() tea.Msg {
		img, err := fetcher.FetchImage(context.Background(), req.Word, req.Context)
		if err != nil {
			return imageLoadedMsg{Token: req.Token}
		}
		return imageLoadedMsg{Token: req.Token, Image: img}
	}
	return tea.Batch(fetch, s.spin())
}

// spin starts the spinner's tick loop unless it is already running.
func (s *SessionScreen) spin() tea.Cmd {
	if s.spinning {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

func (s *SessionScreen) handleImage(msg imageLoadedMsg) (screen.Screen, tea.Cmd) {
	stale := s.pending == nil || *s.pending != msg.Token
	s.sess.ApplyImage(msg.Token, msg.Image)
	if stale {
		log.WithFields(log.Fields{"index": msg.Token.Index, "seq": msg.Token.Seq}).Debug("discarding stale image")
		return s, func() tea.Msg { return screen.ImageDiscardedMsg{} }
	}
	s.pending = nil
	// The cursor may have moved while this request was in flight.
	return s, s.requestImage()
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.sess.State() {
	case learning.Active:
		return s.handleActiveKey(msg)
	case learning.Completed:
		if key.Matches(msg, s.keys.Collect) {
			return s, s.collect()
		}
	}
	return s, nil
}

func (s *SessionScreen) handleActiveKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	card, _ := s.sess.Current()

	switch {
	case key.Matches(msg, s.keys.Flip):
		_ = s.sess.Flip()
		return s, nil

	case key.Matches(msg, s.keys.Next):
		adv, err := s.sess.Next()
		if err != nil {
			return s, nil
		}
		if adv.Step == learning.StepCompleted {
			return s, stopSpeech
		}
		return s, tea.Tick(learning.AdvanceDelay, func(time.Time) tea.Msg {
			return advanceMsg{From: adv.From}
		})

	case key.Matches(msg, s.keys.SpeakEnglish):
		return s, speak(card.English, speech.English)

	case key.Matches(msg, s.keys.SpeakJapanese):
		if s.sess.Flipped() {
			return s, speak(card.Japanese, speech.Japanese)
		}

	case key.Matches(msg, s.keys.SpeakSentence):
		if s.sess.Flipped() {
			return s, speak(card.Sentence, speech.English)
		}

	case key.Matches(msg, s.keys.SaveImage):
		pic := s.sess.DisplayImage()
		if !pic.Generated() {
			return s, nil
		}
		save := screen.SaveImageMsg{SceneID: s.sess.Scene().ID, Word: card.English, Image: pic.Image}
		return s, func() tea.Msg { return save }
	}
	return s, nil
}

// collect finishes the session and hands the reward to the shell.
func (s *SessionScreen) collect() tea.Cmd {
	reward, err := s.sess.Finish()
	if err != nil {
		return nil
	}
	msg := screen.SessionRewardMsg{
		SessionID: s.sess.ID(),
		Scene:     s.sess.Scene(),
		Reward:    reward,
		Fallback:  s.sess.IsFallback(),
	}
	return tea.Batch(
		func() tea.Msg { return msg },
		func() tea.Msg { return router.PopScreenMsg{} },
	)
}

func speak(text string, lang speech.Lang) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg { return screen.SpeakMsg{Text: text, Lang: lang} }
}

func stopSpeech() tea.Msg { return screen.StopSpeechMsg{} }

// Package app wires the screens to the shell and runs the Bubble Tea
// program.
package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/router"
	"github.com/abhisek/scenelingo/internal/scheduler"
	"github.com/abhisek/scenelingo/internal/screen"
	"github.com/abhisek/scenelingo/internal/screens/history"
	"github.com/abhisek/scenelingo/internal/screens/home"
	sessionscreen "github.com/abhisek/scenelingo/internal/screens/session"
	"github.com/abhisek/scenelingo/internal/screens/welcome"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
	"github.com/abhisek/scenelingo/internal/ui/layout"
)

// Banner durations.
const (
	CheckInBannerDuration  = 2 * time.Second
	CompleteBannerDuration = 3 * time.Second
)

// Options configures the application.
type Options struct {
	Shell   *Shell
	Fetcher sessionscreen.Fetcher

	// EventRepo backs the history screen. Nil hides it.
	EventRepo store.EventRepo

	// ProviderReady is false when no vocabulary provider is configured.
	ProviderReady bool

	// StartScene, when set, opens that scene right after startup and
	// skips the splash.
	StartScene *catalog.Scene
	SkipSplash bool

	// Location is the learner's time zone for the midnight job.
	Location *time.Location
}

type checkInDoneMsg struct {
	Result stats.CheckInResult
	Err    error
}

type completedMsg struct {
	Reward screen.SessionRewardMsg
	Stats  stats.UserStats
	Err    error
}

type bannerExpiredMsg struct {
	seq int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	opts   Options
	shell  *Shell
	router *router.Router
	stats  screen.StatsMsg

	banner    string
	bannerErr bool
	bannerSeq int

	width  int
	height int
}

// newAppModel creates the root model with the splash (or home) on the stack.
func newAppModel(ctx context.Context, opts Options) AppModel {
	m := AppModel{
		ctx:   ctx,
		opts:  opts,
		shell: opts.Shell,
	}

	newHome := func() screen.Screen {
		hopts := home.Options{ProviderReady: opts.ProviderReady}
		if opts.EventRepo != nil {
			repo := opts.EventRepo
			hopts.History = func() screen.Screen { return history.New(repo) }
		}
		return home.New(hopts)
	}

	if opts.SkipSplash || opts.StartScene != nil {
		m.router = router.New(newHome())
	} else {
		m.router = router.New(welcome.New(newHome))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.refresh()}
	if sc := m.opts.StartScene; sc != nil {
		scene := *sc
		cmds = append(cmds, func() tea.Msg { return screen.OpenSceneMsg{Scene: scene} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.shell.StopSpeech()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case router.PushScreenMsg, router.ReplaceScreenMsg:
		// Screens entering the stack need the current stats.
		return m, tea.Batch(m.router.Update(msg), m.refresh())

	case screen.StatsMsg:
		m.stats = msg
		return m, m.router.Broadcast(msg)

	case screen.RolloverMsg:
		return m, m.refresh()

	case screen.CheckInMsg:
		shell, ctx := m.shell, m.ctx
		return m, func() tea.Msg {
			res, err := shell.CheckIn(ctx)
			return checkInDoneMsg{Result: res, Err: err}
		}

	case checkInDoneMsg:
		if msg.Err != nil {
			return m.showBanner("Could not save your check-in.", true, CheckInBannerDuration)
		}
		if !msg.Result.Celebrate() {
			return m, m.refresh()
		}
		text := fmt.Sprintf("🔥 Daily bonus! +%d ★", stats.CheckInBonus)
		if msg.Result == stats.CheckInAlreadyToday {
			text = "🔥 Already checked in today. Keep it up!"
		}
		var cmd tea.Cmd
		m, cmd = m.showBanner(text, false, CheckInBannerDuration)
		return m, tea.Batch(cmd, m.refresh())

	case screen.OpenSceneMsg:
		return m, func() tea.Msg {
			return router.PushScreenMsg{Screen: sessionscreen.New(msg.Scene, m.opts.Fetcher)}
		}

	case screen.SessionStartedMsg:
		shell, ctx := m.shell, m.ctx
		return m, func() tea.Msg {
			shell.SessionStarted(ctx, msg)
			return nil
		}

	case screen.SessionRewardMsg:
		shell, ctx := m.shell, m.ctx
		return m, func() tea.Msg {
			st, err := shell.Complete(ctx, msg)
			return completedMsg{Reward: msg, Stats: st, Err: err}
		}

	case completedMsg:
		if msg.Err != nil {
			return m.showBanner("Could not save your progress.", true, CompleteBannerDuration)
		}
		text := fmt.Sprintf("🎉 %s complete! +%d ★ · %d %s learned",
			msg.Reward.Scene.Title, msg.Reward.Reward.Points, msg.Reward.Reward.Words, wordsLabel(msg.Reward.Reward.Words))
		var cmd tea.Cmd
		m, cmd = m.showBanner(text, false, CompleteBannerDuration)
		return m, tea.Batch(cmd, m.refresh())

	case screen.SessionCancelledMsg:
		shell, ctx := m.shell, m.ctx
		return m, func() tea.Msg {
			shell.SessionCancelled(ctx, msg)
			return nil
		}

	case screen.SpeakMsg:
		shell, ctx := m.shell, m.ctx
		return m, func() tea.Msg {
			_ = shell.Speak(ctx, msg.Text, msg.Lang)
			return nil
		}

	case screen.StopSpeechMsg:
		m.shell.StopSpeech()
		return m, nil

	case screen.SaveImageMsg:
		shell := m.shell
		return m, func() tea.Msg {
			path, err := shell.SaveImage(msg)
			if err != nil {
				log.WithError(err).Warn("save image")
				return screen.BannerMsg{Text: "Could not save the image.", Error: true}
			}
			return screen.BannerMsg{Text: "Saved " + path}
		}

	case screen.ImageDiscardedMsg:
		m.shell.StaleImage()
		return m, nil

	case screen.BannerMsg:
		return m.showBanner(msg.Text, msg.Error, CompleteBannerDuration)

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// refresh reloads stats and weekly activity for every screen.
func (m AppModel) refresh() tea.Cmd {
	shell, ctx := m.shell, m.ctx
	return func() tea.Msg { return shell.Snapshot(ctx) }
}

// showBanner displays text for d. A newer banner replaces an older one
// and its timer.
func (m AppModel) showBanner(text string, isErr bool, d time.Duration) (AppModel, tea.Cmd) {
	m.bannerSeq++
	m.banner = text
	m.bannerErr = isErr
	seq := m.bannerSeq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return bannerExpiredMsg{seq: seq} })
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, the optional banner, the active screen and the
// footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats.Stats.Streak, m.stats.Stats.Points, m.width)
	if m.banner != "" {
		header += "\n" + layout.RenderBanner(m.banner, m.bannerErr, m.width)
	}
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func wordsLabel(n int) string {
	if n == 1 {
		return "word"
	}
	return "words"
}

// Run loads the learner's stats, starts the midnight job and runs the
// Bubble Tea program until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Shell == nil {
		return fmt.Errorf("app: shell is required")
	}
	if _, err := opts.Shell.Load(ctx); err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	sched := scheduler.New(loc, func() {
		changed, err := opts.Shell.Rollover(ctx)
		if err != nil {
			log.WithError(err).Error("midnight rollover")
			return
		}
		if changed {
			p.Send(screen.RolloverMsg{})
		}
	})
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()
	defer opts.Shell.StopSpeech()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

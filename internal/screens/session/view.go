package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/learning"
	"github.com/abhisek/scenelingo/internal/ui/components"
	"github.com/abhisek/scenelingo/internal/ui/layout"
	"github.com/abhisek/scenelingo/internal/ui/theme"
	"github.com/abhisek/scenelingo/internal/vocab"
)

func (s *SessionScreen) View(width, height int) string {
	var body string
	switch s.sess.State() {
	case learning.Loading:
		body = s.renderLoading()
	case learning.Active:
		body = s.renderCard(width)
	case learning.Completed:
		body = s.renderCompleted()
	default:
		body = theme.Hint.Render("Session closed.")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *SessionScreen) renderLoading() string {
	scene := s.sess.Scene()
	return lipgloss.JoinVertical(lipgloss.Center,
		s.spinner.View()+" "+theme.Body.Render(fmt.Sprintf("Generating %s vocabulary...", scene.Title)),
		"",
		theme.Hint.Render(scene.Description),
	)
}

// renderCard renders the progress line, the card and the image panel.
func (s *SessionScreen) renderCard(width int) string {
	card, _ := s.sess.Current()
	scene := s.sess.Scene()
	cw := layout.CenterBlock(width, 60)

	progress := components.ProgressBar{
		Label:   fmt.Sprintf("Card %d / %d", s.sess.Index()+1, s.sess.Len()),
		Percent: float64(s.sess.Index()+1) / float64(s.sess.Len()),
		Width:   cw,
		Fill:    theme.SceneColor(scene.Color),
	}

	var face string
	if s.sess.Flipped() {
		face = renderBack(card)
	} else {
		face = renderFront(card)
	}

	border := theme.SceneColor(scene.Color)
	if card.IsFallback {
		border = theme.Error
	}
	cardBox := theme.Card.
		BorderForeground(border).
		Width(cw).
		Align(lipgloss.Center).
		Render(face)

	sections := []string{progress.View(), "", cardBox, "", s.renderImagePanel(cw)}
	if s.notice != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func renderFront(card vocab.WordItem) string {
	word := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(card.English)
	return strings.Join([]string{
		theme.Hint.Render("English"),
		"",
		word,
		"",
		theme.Hint.Render("space to flip · e to listen"),
	}, "\n")
}

func renderBack(card vocab.WordItem) string {
	label := func(s string) string { return lipgloss.NewStyle().Foreground(theme.TextDim).Render(s) }
	japanese := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(card.Japanese)

	lines := []string{
		label("日本語"),
		japanese,
		theme.Body.Render(card.Kana),
		"",
		label("中文") + "  " + theme.Body.Render(card.Chinese),
	}
	if card.Sentence != "" {
		lines = append(lines, "", theme.Hint.Render("“"+card.Sentence+"”"))
	}
	return strings.Join(lines, "\n")
}

// renderImagePanel describes the picture for the current card. Terminals
// cannot show the bitmap, so a generated image is summarized and can be
// saved to disk.
func (s *SessionScreen) renderImagePanel(cw int) string {
	pic := s.sess.DisplayImage()

	var text string
	switch {
	case s.sess.ImageLoading():
		text = s.spinner.View() + " " + theme.Hint.Render("Generating visual...")
	case pic.Generated():
		text = lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf(
			"🖼  Generated illustration (%s, %d KB) · s to save", pic.Image.MIMEType, (len(pic.Image.Data)+1023)/1024))
	default:
		text = theme.Hint.Render("🖼  " + pic.DefaultURL)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(text)
}

func (s *SessionScreen) renderCompleted() string {
	title := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render("🎉 Scene complete!")
	summary := theme.Body.Render(fmt.Sprintf("You reviewed %d %s in %s.",
		s.sess.Len(), plural(s.sess.Len(), "word", "words"), s.sess.Scene().Title))
	reward := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d ★", learning.PointsPerSession))
	button := components.NewButton("Collect Rewards", true, nil).View()

	return lipgloss.JoinVertical(lipgloss.Center, title, "", summary, reward, "", button)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/ui/components"
	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// renderTabs draws the tab strip with the active tab highlighted.
func renderTabs(active Tab, cw int) string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == active {
			parts[i] = theme.TabActive.Render(label)
		} else {
			parts[i] = theme.TabInactive.Render(label)
		}
	}
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (h *HomeScreen) renderHome(cw int, compact bool) string {
	var sections []string

	if !compact {
		sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, RenderMascot(mascotFor(h.stats, h.today))))
	}

	sections = append(sections,
		renderStatRow(h.stats, cw),
		components.ProgressBar{
			Label:   "Daily goal",
			Percent: h.stats.GoalProgress(),
			Suffix:  fmt.Sprintf("%d/%d words", h.stats.WordsToday, h.stats.GoalToday),
			Width:   cw,
			Fill:    theme.Success,
		}.View(),
		renderBonus(h.stats.CheckedInToday(h.today)),
		sectionTitle("Scenes", cw),
		h.gallery.View(),
	)
	return strings.Join(sections, "\n")
}

func (h *HomeScreen) renderLearn(cw int) string {
	cats := catalog.AllCategories()
	parts := make([]string, len(cats))
	for i, c := range cats {
		name := catalog.CategoryDisplayName(c)
		if i == h.category {
			parts[i] = theme.Selected.Render("[" + name + "]")
		} else {
			parts[i] = theme.Hint.Render(" " + name + " ")
		}
	}
	filter := lipgloss.PlaceHorizontal(cw, lipgloss.Center, strings.Join(parts, " "))

	list := h.learn.View()
	if len(h.learn.Items) == 0 {
		list = theme.Hint.Render("    No scenes in this category yet.")
	}
	return strings.Join([]string{filter, "", list}, "\n")
}

func (h *HomeScreen) renderProfile(cw int, compact bool) string {
	st := h.stats
	sections := []string{
		renderProfileCards(st, cw),
		components.ProgressBar{
			Label:   fmt.Sprintf("Level %d", st.Level()),
			Percent: st.LevelProgress(),
			Suffix:  fmt.Sprintf("%d/%d", st.Points%stats.PointsPerLevel, stats.PointsPerLevel),
			Width:   cw,
			Fill:    theme.Gold,
		}.View(),
		sectionTitle("This week", cw),
	}

	chartHeight := 5
	if compact {
		chartHeight = 3
	}
	chart := components.WeekChart{Days: h.week, Today: h.today, Height: chartHeight}
	if len(h.week) == 0 {
		sections = append(sections, theme.Hint.Render("  No activity yet."))
	} else {
		sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, chart.View()))
	}

	sections = append(sections, sectionTitle("Achievements", cw))
	for _, a := range st.Achievements() {
		sections = append(sections, renderAchievement(a, cw))
	}
	return strings.Join(sections, "\n")
}

func renderStatRow(st stats.UserStats, cw int) string {
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("🔥 %d day streak", st.Streak))
	points := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(fmt.Sprintf("★ %d points", st.Points))
	level := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("Lv %d", st.Level()))
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, streak+"   "+points+"   "+level)
}

func renderBonus(checkedIn bool) string {
	label := "Daily Bonus +10 ★  (b)"
	if checkedIn {
		label = "Checked in today ✓"
	}
	return "  " + components.NewButton(label, !checkedIn, nil).View()
}

func renderProfileCards(st stats.UserStats, cw int) string {
	card := func(value, label string) string {
		return theme.Card.
			Padding(0, 2).
			Align(lipgloss.Center).
			Render(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value) + "\n" + theme.Hint.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", st.Points), "points"),
		card(fmt.Sprintf("%d", st.LearnedWords), "words"),
		card(fmt.Sprintf("%d", st.Level()), "level"),
		card(fmt.Sprintf("%d", st.Streak), "streak"),
	)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, row)
}

func renderAchievement(a stats.Achievement, cw int) string {
	mark := theme.Hint.Render("○")
	if a.Unlocked() {
		mark = lipgloss.NewStyle().Foreground(theme.Gold).Render("●")
	}
	title := fmt.Sprintf("%s %s  %s", mark, theme.Body.Render(a.Name), theme.Hint.Render(a.Description))
	bar := components.ProgressBar{
		Percent: a.Fraction(),
		Suffix:  fmt.Sprintf("%d/%d", min(a.Progress, a.Target), a.Target),
		Width:   cw - 4,
		Fill:    theme.Secondary,
	}
	return "  " + title + "\n    " + bar.View()
}

func sectionTitle(s string, cw int) string {
	rule := strings.Repeat("─", max(cw-lipgloss.Width(s)-3, 0))
	return "\n" + theme.Selected.Render(s) + " " + lipgloss.NewStyle().Foreground(theme.Border).Render(rule)
}

func renderKeyWarning(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No API key found: cards use a placeholder (see scenelingo --help)")
}

// renderPanel centers content in the available area.
func renderPanel(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

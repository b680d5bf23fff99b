package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Checked in, goal still open
	MascotCelebrating                      // Daily goal reached
	MascotSleepy                           // Not checked in today
)

const mascotIdle = `╭─────╮
│ ◕ ◕ │
│  ◡  │
╰┬───┬╯
 │ あ│`

const mascotCelebrating = `╭─────╮
│ ★ ★ │
│  ▽  │
╰┬───┬╯
\│ あ│/`

const mascotSleepy = `╭─────╮
│ ─ ─ │ z
│  ◡  │  Z
╰┬───┬╯
 │ あ│`

// mascotFor picks the variant for the day's progress.
func mascotFor(st stats.UserStats, today stats.Date) MascotVariant {
	switch {
	case st.WordsToday >= st.GoalToday && st.GoalToday > 0:
		return MascotCelebrating
	case !st.CheckedInToday(today):
		return MascotSleepy
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotSleepy:
		art = mascotSleepy
		fg = theme.TextDim
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// barWidth is the column width of one day, gap included.
const barWidth = 5

// WeekChart renders daily word counts as vertical bars, oldest day on the
// left. Today's bar uses the primary color.
type WeekChart struct {
	Days   []stats.DayWords
	Today  stats.Date
	Height int
}

// View renders the chart: bar rows, a count row and a weekday row.
func (c WeekChart) View() string {
	height := max(c.Height, 1)
	peak := stats.MaxWords(c.Days)

	rows := make([]string, height)
	for i := range rows {
		level := height - i
		var b strings.Builder
		for _, d := range c.Days {
			cell := strings.Repeat(" ", barWidth-2)
			if peak > 0 && scaled(d.Words, peak, height) >= level {
				style := lipgloss.NewStyle().Foreground(theme.Secondary)
				if d.Day.Equal(c.Today) {
					style = style.Foreground(theme.Primary)
				}
				cell = style.Render(strings.Repeat("█", barWidth-2))
			}
			b.WriteString(" " + cell + " ")
		}
		rows[i] = b.String()
	}

	var counts, labels strings.Builder
	for _, d := range c.Days {
		counts.WriteString(center(fmt.Sprintf("%d", d.Words), barWidth))
		labels.WriteString(center(d.Day.Weekday().String()[:2], barWidth))
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	return strings.Join(rows, "\n") + "\n" + dim.Render(counts.String()) + "\n" + dim.Render(labels.String())
}

// scaled maps words onto 0..height, giving any non-zero day at least one row.
func scaled(words, peak, height int) int {
	if words <= 0 {
		return 0
	}
	return max(words*height/peak, 1)
}

func center(s string, width int) string {
	pad := max(width-len(s), 0)
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

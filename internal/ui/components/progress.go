package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scenelingo/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
//
// Suffix, when set, replaces the percentage text (e.g. "3/10").
type ProgressBar struct {
	Label       string
	Percent     float64
	Suffix      string
	ShowPercent bool
	Width       int
	Fill        color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	trailer := ""
	switch {
	case p.Suffix != "":
		trailer = "  " + p.Suffix
	case p.ShowPercent:
		trailer = fmt.Sprintf("  %d%%", int(clamp01(p.Percent)*100))
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(trailer), 4)
	filled := int(float64(barWidth) * clamp01(p.Percent))

	fill := theme.ProgressFilled
	if p.Fill != nil {
		fill = fill.Background(p.Fill)
	}

	result += fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if trailer != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(trailer)
	}
	return result
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}

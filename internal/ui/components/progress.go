package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with an optional label
// before it and detail text after it.
type ProgressBar struct {
	Label   string
	Percent float64 // 0..1
	Detail  string
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, detail string, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Detail:  detail,
		Width:   width,
	}
}

// View renders the progress bar. A full bar turns green.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	detail := ""
	if p.Detail != "" {
		detail = "  " + p.Detail
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(detail), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	fill := theme.Secondary
	if filled == barWidth {
		fill = theme.Success
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if detail != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)
	}
	return result
}

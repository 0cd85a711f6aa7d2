package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette: warm and bright for kids, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Reward    = lipgloss.Color("#FACC15") // Gold
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Popup = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Reward).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	RewardBanner = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Reward).
			Bold(true).
			Padding(0, 2)
)

// ActivityColor parses an activity's "#RRGGBB" color, falling back to
// Accent for anything else.
func ActivityColor(hex string) color.Color {
	hex = strings.TrimSpace(hex)
	if len(hex) != 7 || hex[0] != '#' {
		return Accent
	}
	for _, c := range hex[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return Accent
		}
	}
	return lipgloss.Color(hex)
}

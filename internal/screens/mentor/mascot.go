package mentor

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotThinking                         // Dots, while advice loads
	MascotCelebrating                      // Gold, star eyes: every goal done
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ⏱ ⭐ │
└─────┘`

const mascotThinking = `┌─────┐
│ ◔ ◔ │ …
│  ─  │
│ ⏱ ⭐ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ⏱ ⭐ │
└─╥═╥─┘
  ╚═╝`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotThinking:
		art, fg = mascotThinking, theme.Secondary
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Reward
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

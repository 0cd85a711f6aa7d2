package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kidtimer/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BannerProvider is implemented by screens that supply the header's
// reward banner.
type BannerProvider interface {
	Banner() string
}

// RefreshMsg tells the active screen that stored data changed and should
// be reloaded. Screens that edit data send it after popping themselves.
type RefreshMsg struct{}

// Refresh is a command producing RefreshMsg.
func Refresh() tea.Msg { return RefreshMsg{} }

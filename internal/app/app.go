// Package app hosts the terminal front-end: the Bubble Tea root model
// that frames the routed screens with a header and footer.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/screens/home"
	"github.com/abhisek/kidtimer/internal/screens/welcome"
	"github.com/abhisek/kidtimer/internal/ui/layout"
)

// Deps are the services the screens run on.
type Deps = home.Deps

// Options tweak the front-end.
type Options struct {
	// SkipSplash starts on the home screen.
	SkipSplash bool
	// Language picks the splash tagline language.
	Language string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model, starting on the splash screen unless
// opts say otherwise.
func newAppModel(deps Deps, opts Options) AppModel {
	factory := func() screen.Screen { return home.New(deps) }
	var initial screen.Screen
	if opts.SkipSplash {
		initial = factory()
	} else {
		initial = welcome.New(factory, i18n.T(opts.Language, i18n.KeyAppTitle))
	}
	return AppModel{
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Esc is left to the screens: forms use it to cancel edits.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// banner returns the reward banner from the active screen, falling back to
// the home screen at the bottom of the stack.
func (m AppModel) banner() string {
	for _, s := range []screen.Screen{m.router.Active(), m.router.Root()} {
		if bp, ok := s.(screen.BannerProvider); ok {
			return bp.Banner()
		}
	}
	return ""
}

func (m AppModel) hints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return kp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the framed active screen.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	if _, splash := active.(*welcome.WelcomeScreen); splash {
		return active.View(m.width, m.height)
	}

	header := layout.RenderHeader(active.Title(), m.banner(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(deps Deps, opts Options) error {
	p := tea.NewProgram(newAppModel(deps, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

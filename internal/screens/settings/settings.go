// Package settings is the preferences screen: UI language, voice
// narration and the reward name.
package settings

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/ui/components"
	"github.com/abhisek/kidtimer/internal/ui/layout"
	"github.com/abhisek/kidtimer/internal/ui/theme"
)

type settingsMsg struct {
	settings store.Settings
	err      error
}

// langChosenMsg is sent by a language menu item.
type langChosenMsg struct {
	code string
}

// SettingsScreen edits the user's settings. Every change is saved
// immediately.
type SettingsScreen struct {
	svc      *tracker.Service
	user     string
	settings store.Settings
	menu     components.Menu
	reward   components.TextInput
	editing  bool // reward name input has focus
	changed  bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a new SettingsScreen.
func New(svc *tracker.Service, user string) *SettingsScreen {
	items := make([]components.MenuItem, len(i18n.Languages))
	for i, l := range i18n.Languages {
		code := l.Code
		items[i] = components.MenuItem{
			Label: l.Name,
			Action: func() tea.Cmd {
				return func() tea.Msg { return langChosenMsg{code: code} }
			},
		}
	}
	return &SettingsScreen{
		svc:      svc,
		user:     user,
		settings: store.DefaultSettings(user),
		menu:     components.NewMenu(items),
		reward:   components.NewTextInput("Reward name", "Reward", components.InputText, 30),
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		set, err := svc.Settings(context.Background(), user)
		return settingsMsg{settings: set, err: err}
	}
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save name"},
			{Key: "Esc", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Language"},
		{Key: "V", Description: "Voice on/off"},
		{Key: "N", Description: "Reward name"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) save(p tracker.SettingsPatch) tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		set, err := svc.UpdateSettings(context.Background(), user, p)
		return settingsMsg{settings: set, err: err}
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		if s.loaded {
			s.changed = true
		}
		s.loaded = true
		s.errMsg = ""
		s.settings = msg.settings
		s.reward.SetValue(msg.settings.RewardName)
		for i, l := range i18n.Languages {
			if l.Code == msg.settings.Language {
				s.menu.Select(i)
			}
		}
		return s, nil

	case langChosenMsg:
		code := msg.code
		return s, s.save(tracker.SettingsPatch{Language: &code})

	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		switch msg.String() {
		case "esc", "q":
			if s.changed {
				return s, tea.Sequence(
					func() tea.Msg { return router.PopScreenMsg{} },
					screen.Refresh,
				)
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "v":
			voice := !s.settings.VoiceEnabled
			return s, s.save(tracker.SettingsPatch{VoiceEnabled: &voice})
		case "n":
			s.editing = true
			return s, s.reward.Focus()
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SettingsScreen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		s.reward.Blur()
		s.reward.SetValue(s.settings.RewardName)
		return s, nil
	case "enter":
		name := s.reward.Value()
		if name == "" {
			s.reward.MarkInvalid()
			return s, nil
		}
		s.editing = false
		s.reward.Blur()
		return s, s.save(tracker.SettingsPatch{RewardName: &name})
	}
	var cmd tea.Cmd
	s.reward, cmd = s.reward.Update(msg)
	return s, cmd
}

func (s *SettingsScreen) View(width, height int) string {
	if !s.loaded && s.errMsg == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	voice := theme.Bad.Render("off")
	if s.settings.VoiceEnabled {
		voice = theme.Good.Render("on")
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14)

	sections := []string{
		theme.Subtitle.Render("Language"),
		s.menu.View(),
		label.Render("Voice") + voice,
		s.reward.View(),
	}
	if s.errMsg != "" {
		sections = append(sections, "", theme.Bad.Render("Error: "+s.errMsg))
	}

	card := theme.Card.Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

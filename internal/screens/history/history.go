package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/ui/layout"
	"github.com/abhisek/kidtimer/internal/ui/theme"
)

type historyLoadedMsg struct {
	Days []stats.HistoryDay
	Lang string
	Err  error
}

// HistoryScreen lists past days with per-activity totals.
type HistoryScreen struct {
	svc      *tracker.Service
	user     string
	lang     string
	days     []stats.HistoryDay
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *tracker.Service, user string) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		user:     user,
		lang:     i18n.Fallback,
		expanded: map[int]bool{0: true},
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		ctx := context.Background()

		acts, err := svc.Activities(ctx, user)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		logs, err := svc.Logs(ctx, user, store.LogQuery{})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		set, err := svc.Settings(ctx, user)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Days: stats.History(acts, logs), Lang: set.Language}
	}
}

func (s *HistoryScreen) Title() string {
	return i18n.T(s.lang, i18n.KeyHistory)
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.days = msg.Days
			s.lang = msg.Lang
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.days)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.days) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  " + i18n.T(s.lang, i18n.KeyHistoryEmpty))
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selected day in view on short terminals.
	first := 0
	if height > 4 && s.selected >= height/2 {
		first = s.selected - height/2 + 1
	}

	for i := first; i < len(s.days); i++ {
		day := s.days[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %d activities",
			prefix, day.Date, stats.FormatDuration(day.TotalMs), len(day.Activities))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, a := range day.Activities {
				detail := fmt.Sprintf("    %s %s  %s  ×%d",
					a.Icon, a.Name, stats.FormatDuration(a.DurationMs), a.Sessions)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.ActivityColor(a.Color)).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

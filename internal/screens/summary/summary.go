package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

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

type summaryLoadedMsg struct {
	summary    stats.Summary
	logs       []store.LogEntry
	activities map[string]store.Activity
	settings   store.Settings
	err        error
}

type logDeletedMsg struct {
	err error
}

// SummaryScreen shows today's totals per activity and per reward, with
// the day's sessions listed below.
type SummaryScreen struct {
	svc        *tracker.Service
	user       string
	summary    stats.Summary
	logs       []store.LogEntry
	activities map[string]store.Activity
	settings   store.Settings
	selected   int
	confirming bool
	changed    bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(svc *tracker.Service, user string) *SummaryScreen {
	return &SummaryScreen{
		svc:      svc,
		user:     user,
		settings: store.DefaultSettings(user),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *SummaryScreen) load() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		ctx := context.Background()
		acts, err := svc.Activities(ctx, user)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}
		rewards, err := svc.Rewards(ctx, user)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}
		logs, err := svc.TodayLogs(ctx, user)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}
		set, err := svc.Settings(ctx, user)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}
		byID := make(map[string]store.Activity, len(acts))
		for _, a := range acts {
			byID[a.ID] = a
		}
		return summaryLoadedMsg{
			summary:    stats.Day(svc.Today(), acts, rewards, logs),
			logs:       logs,
			activities: byID,
			settings:   set,
		}
	}
}

func (s *SummaryScreen) Title() string {
	return "Today"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Sessions"},
		{Key: "D", Description: "Delete session"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.summary = msg.summary
		s.logs = msg.logs
		s.activities = msg.activities
		s.settings = msg.settings
		if s.selected >= len(s.logs) {
			s.selected = max(0, len(s.logs)-1)
		}
		return s, nil

	case logDeletedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.changed = true
		return s, s.load()

	case tea.KeyMsg:
		key := msg.String()
		if s.confirming {
			s.confirming = false
			if key == "y" || key == "Y" {
				return s, s.deleteSelected()
			}
			return s, nil
		}
		switch key {
		case "enter", "esc":
			if s.changed {
				return s, tea.Sequence(
					func() tea.Msg { return router.PopScreenMsg{} },
					screen.Refresh,
				)
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.logs)-1 {
				s.selected++
			}
		case "d":
			if len(s.logs) > 0 {
				s.confirming = true
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) deleteSelected() tea.Cmd {
	if s.selected >= len(s.logs) {
		return nil
	}
	svc, user, id := s.svc, s.user, s.logs[s.selected].ID
	return func() tea.Msg {
		return logDeletedMsg{err: svc.DeleteLog(context.Background(), user, id)}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	sum := s.summary
	lang := s.settings.Language
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text)) + "\n"
	}
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(0, min(width-8, 60))))
	section := func(b *strings.Builder, title string) {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), title))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), sum.Date))
	b.WriteString("\n")
	b.WriteString(center(theme.Body, fmt.Sprintf("Time: %s        %s",
		stats.FormatDuration(sum.TotalDurationMs),
		i18n.T(lang, i18n.KeyTodayReward, stats.FormatReward(sum.TotalEarnedMs)))))

	if len(sum.Activities) > 0 {
		section(&b, "Activities")
		for _, a := range sum.Activities {
			if a.Sessions == 0 {
				continue
			}
			line := fmt.Sprintf("%s %-16s %6s  ×%d   +%s",
				a.Icon, a.Name, stats.FormatDuration(a.DurationMs), a.Sessions, stats.FormatReward(a.EarnedMs))
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ActivityColor(a.Color)), line))
		}
	}

	if len(sum.Rewards) > 0 {
		section(&b, "Rewards")
		for _, r := range sum.Rewards {
			name, icon := r.Name, r.Icon
			if r.RewardID == "" {
				name, icon = s.settings.RewardName, "🏆"
			}
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Reward),
				fmt.Sprintf("%s %-16s %s", icon, name, stats.FormatReward(r.EarnedMs))))
		}
	}

	section(&b, "Sessions")
	if len(s.logs) == 0 {
		b.WriteString(center(theme.Hint, i18n.T(lang, i18n.KeyHistoryEmpty)))
	}
	loc := s.svc.Location()
	for i, l := range s.logs {
		name := l.ActivityID
		if a, ok := s.activities[l.ActivityID]; ok {
			name = a.Icon + " " + a.Name
		}
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix, style = "> ", theme.Selected
		}
		line := fmt.Sprintf("%s%s–%s  %-18s %s",
			prefix,
			time.UnixMilli(l.StartTime).In(loc).Format("15:04"),
			time.UnixMilli(l.EndTime).In(loc).Format("15:04"),
			name, stats.FormatDuration(l.Duration))
		b.WriteString(center(style, line))
	}

	if s.confirming {
		b.WriteString("\n")
		b.WriteString(center(theme.Bad, "Delete this session? (y/n)"))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Bad, "Error: "+s.errMsg))
	}

	return b.String()
}

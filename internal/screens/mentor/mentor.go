// Package mentor is the weekly goals screen where the mentor comments
// on progress.
package mentor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/speech"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/ui/components"
	"github.com/abhisek/kidtimer/internal/ui/layout"
	"github.com/abhisek/kidtimer/internal/ui/theme"
)

const (
	adviceTimeout = 30 * time.Second
	speakTimeout  = 60 * time.Second
)

type reportLoadedMsg struct {
	report   goals.Report
	settings store.Settings
	err      error
}

type adviceMsg struct {
	advice mentor.Advice
}

type spokenMsg struct {
	ok  bool
	err error
}

// MentorScreen shows weekly goal progress and the mentor's advice.
type MentorScreen struct {
	svc      *tracker.Service
	mentor   *mentor.Service
	speaker  *speech.Speaker
	user     string
	report   goals.Report
	settings store.Settings
	advice   *mentor.Advice
	loaded   bool
	speaking bool
	note     string
	errMsg   string
}

var _ screen.Screen = (*MentorScreen)(nil)
var _ screen.KeyHintProvider = (*MentorScreen)(nil)

// New creates the screen. m and sp may be nil: advice then falls back to
// the offline texts and speaking is unavailable.
func New(svc *tracker.Service, m *mentor.Service, sp *speech.Speaker, user string) *MentorScreen {
	return &MentorScreen{
		svc:      svc,
		mentor:   m,
		speaker:  sp,
		user:     user,
		settings: store.DefaultSettings(user),
	}
}

func (s *MentorScreen) Init() tea.Cmd {
	svc, user := s.svc, s.user
	return func() tea.Msg {
		ctx := context.Background()
		now := svc.Now()
		week := goals.WeekRange(now, 0)

		acts, err := svc.Activities(ctx, user)
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		logs, err := svc.Logs(ctx, user, store.LogQuery{From: week.FirstDay(), To: week.LastDay()})
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		set, err := svc.Settings(ctx, user)
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		return reportLoadedMsg{report: goals.Weekly(acts, logs, now, 0), settings: set}
	}
}

func (s *MentorScreen) Title() string {
	return i18n.T(s.settings.Language, i18n.KeyMentorTitle)
}

func (s *MentorScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "R", Description: "Ask again"}}
	if s.speaker != nil {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Speak"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *MentorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.report = msg.report
		s.settings = msg.settings
		return s, s.ask()

	case adviceMsg:
		s.advice = &msg.advice
		if s.settings.VoiceEnabled {
			return s, s.speak()
		}
		return s, nil

	case spokenMsg:
		s.speaking = false
		switch {
		case msg.err != nil:
			logger.Warn("mentor speech failed", "error", msg.err)
			s.note = "Could not play audio"
		case !msg.ok:
			s.note = "No voice available"
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			if s.loaded && s.advice != nil {
				s.advice = nil
				return s, s.ask()
			}
		case "s":
			return s, s.speak()
		}
	}
	return s, nil
}

func (s *MentorScreen) ask() tea.Cmd {
	m := s.mentor
	in := mentor.InputFromReport(s.report, s.svc.Now(), s.settings.Language)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()
		return adviceMsg{advice: m.Advise(ctx, in)}
	}
}

func (s *MentorScreen) speak() tea.Cmd {
	if s.speaker == nil || s.advice == nil || s.speaking {
		return nil
	}
	s.speaking = true
	s.note = ""
	sp, text, lang := s.speaker, s.advice.Narration(), s.settings.Language
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		defer cancel()
		ok, err := sp.Speak(ctx, text, lang)
		return spokenMsg{ok: ok, err: err}
	}
}

func (s *MentorScreen) allDone() bool {
	if len(s.report.Goals) == 0 {
		return false
	}
	for _, p := range s.report.Goals {
		if !p.Done() {
			return false
		}
	}
	return true
}

func (s *MentorScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("Error: "+s.errMsg))
	}
	lang := s.settings.Language

	variant := MascotIdle
	switch {
	case s.advice == nil:
		variant = MascotThinking
	case s.allDone():
		variant = MascotCelebrating
	}

	var sections []string
	sections = append(sections, RenderMascot(variant))

	barWidth := max(10, min(width-40, 30))
	var bars []string
	for _, p := range s.report.Goals {
		detail := fmt.Sprintf("%d/%d  %dm", p.CompletedSessions, p.TargetSessions, p.TotalMinutes)
		bar := components.NewProgressBar(p.Icon+" "+p.Name, float64(p.Percent)/100, detail, barWidth)
		bars = append(bars, bar.View())
	}
	if len(bars) > 0 {
		sections = append(sections, strings.Join(bars, "\n"))
	}
	if s.loaded {
		sections = append(sections, theme.Hint.Render(i18n.T(lang, i18n.KeyDaysLeft, s.report.DaysLeft)))
	}

	if s.advice == nil {
		sections = append(sections, theme.Hint.Render(i18n.T(lang, i18n.KeyMentorLoading)))
	} else {
		textWidth := max(20, min(width-10, 60))
		body := lipgloss.NewStyle().Width(textWidth)
		lines := []string{
			body.Foreground(theme.Text).Render(s.advice.Summary),
			body.Foreground(theme.Secondary).Render("💡 " + s.advice.Suggestion),
			body.Foreground(theme.Reward).Bold(true).Render(s.advice.Encouragement),
		}
		sections = append(sections, theme.Card.Render(strings.Join(lines, "\n\n")))
	}

	switch {
	case s.speaking:
		sections = append(sections, theme.Hint.Render("🔊 ..."))
	case s.note != "":
		sections = append(sections, theme.Hint.Render(s.note))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

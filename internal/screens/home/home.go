package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/screens/activityform"
	"github.com/abhisek/kidtimer/internal/screens/history"
	mentorscreen "github.com/abhisek/kidtimer/internal/screens/mentor"
	"github.com/abhisek/kidtimer/internal/screens/settings"
	"github.com/abhisek/kidtimer/internal/screens/summary"
	"github.com/abhisek/kidtimer/internal/speech"
	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/ui/layout"
	"github.com/abhisek/kidtimer/internal/ui/theme"
)

const (
	cardWidth = 24
	cardGap   = 2
)

type loadedMsg struct {
	activities []store.Activity
	rewards    []store.Reward
	logs       []store.LogEntry
	status     tracker.Status
	settings   store.Settings
	err        error
}

// actionMsg reports the outcome of a timer or delete action.
type actionMsg struct {
	flash string
	saved bool // a session was logged; flash is read aloud
	err   error
}

type timerTickMsg time.Time

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmReset
)

// Deps are the services the home screen and the screens it opens use.
type Deps struct {
	Tracker *tracker.Service
	Mentor  *mentor.Service
	Speaker *speech.Speaker
	User    string
}

// HomeScreen shows the activity grid, the running timer and today's
// reward total.
type HomeScreen struct {
	deps       Deps
	activities []store.Activity
	rewards    []store.Reward
	logs       []store.LogEntry
	status     tracker.Status
	settings   store.Settings
	now        time.Time
	selected   int
	confirm    confirmKind
	flash      string
	errMsg     string
	width      int
	loaded     bool
	ticking    bool
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
	_ screen.BannerProvider  = (*HomeScreen)(nil)
)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	return &HomeScreen{
		deps:     deps,
		settings: store.DefaultSettings(deps.User),
		width:    80,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return i18n.T(h.settings.Language, i18n.KeyAppTitle)
}

// Banner returns today's earned reward time for the header.
func (h *HomeScreen) Banner() string {
	if !h.loaded {
		return ""
	}
	banner := i18n.T(h.settings.Language, i18n.KeyTodayReward, stats.FormatReward(h.todayEarned()))
	if h.settings.RewardName != "" {
		banner += " · " + h.settings.RewardName
	}
	return banner
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Cancel"},
		}
	}
	if h.status.Running() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Stop"},
			{Key: "X", Description: "Cancel timer"},
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "A/E/D", Description: "Add/Edit/Delete"},
		{Key: "T", Description: "Today"},
		{Key: "H", Description: "History"},
		{Key: "M", Description: "Mentor"},
		{Key: "S", Description: "Settings"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) load() tea.Cmd {
	svc, user := h.deps.Tracker, h.deps.User
	return func() tea.Msg {
		ctx := context.Background()
		var msg loadedMsg
		if msg.activities, msg.err = svc.Activities(ctx, user); msg.err != nil {
			return msg
		}
		if msg.rewards, msg.err = svc.Rewards(ctx, user); msg.err != nil {
			return msg
		}
		if msg.logs, msg.err = svc.TodayLogs(ctx, user); msg.err != nil {
			return msg
		}
		if msg.status, msg.err = svc.Status(ctx, user); msg.err != nil {
			return msg
		}
		msg.settings, msg.err = svc.Settings(ctx, user)
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return h.handleLoaded(msg)

	case screen.RefreshMsg:
		return h, h.load()

	case actionMsg:
		h.flash = msg.flash
		h.errMsg = ""
		if msg.err != nil {
			h.errMsg = msg.err.Error()
		}
		if msg.saved && h.settings.VoiceEnabled && h.deps.Speaker != nil {
			return h, tea.Batch(h.load(), speakCmd(h.deps.Speaker, msg.flash, h.settings.Language))
		}
		return h, h.load()

	case timerTickMsg:
		if !h.status.Running() {
			h.ticking = false
			return h, nil
		}
		h.now = h.deps.Tracker.Now()
		return h, tickCmd()

	case tea.KeyMsg:
		if h.confirm != confirmNone {
			return h.handleConfirm(msg.String())
		}
		return h.handleKey(msg.String())
	}
	return h, nil
}

func (h *HomeScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	h.loaded = true
	if msg.err != nil {
		h.errMsg = msg.err.Error()
		return h, nil
	}
	h.activities = msg.activities
	h.rewards = msg.rewards
	h.logs = msg.logs
	h.status = msg.status
	h.settings = msg.settings
	h.now = h.deps.Tracker.Now()
	if h.selected >= len(h.activities) {
		h.selected = max(0, len(h.activities)-1)
	}
	if h.status.Running() && !h.ticking {
		h.ticking = true
		return h, tickCmd()
	}
	return h, nil
}

func (h *HomeScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	cols := h.columns(h.width)
	switch key {
	case "q", "ctrl+c":
		return h, tea.Quit
	case "left", "h":
		if h.selected > 0 {
			h.selected--
		}
	case "right", "l":
		if h.selected < len(h.activities)-1 {
			h.selected++
		}
	case "up", "k":
		if h.selected-cols >= 0 {
			h.selected -= cols
		}
	case "down", "j":
		if h.selected+cols < len(h.activities) {
			h.selected += cols
		}
	case "enter", "space", " ":
		return h, h.toggle()
	case "x":
		if h.status.Running() {
			return h, h.cancel()
		}
	case "a":
		return h, push(activityform.New(h.deps.Tracker, h.deps.User, nil, h.rewards))
	case "e":
		if act := h.current(); act != nil {
			return h, push(activityform.New(h.deps.Tracker, h.deps.User, act, h.rewards))
		}
	case "d":
		if h.current() != nil {
			h.confirm = confirmDelete
		}
	case "R":
		h.confirm = confirmReset
	case "t":
		return h, push(summary.New(h.deps.Tracker, h.deps.User))
	case "H":
		return h, push(history.New(h.deps.Tracker, h.deps.User))
	case "m":
		return h, push(mentorscreen.New(h.deps.Tracker, h.deps.Mentor, h.deps.Speaker, h.deps.User))
	case "s":
		return h, push(settings.New(h.deps.Tracker, h.deps.User))
	}
	return h, nil
}

func (h *HomeScreen) handleConfirm(key string) (screen.Screen, tea.Cmd) {
	kind := h.confirm
	h.confirm = confirmNone
	if key != "y" && key != "Y" {
		return h, nil
	}
	svc, user := h.deps.Tracker, h.deps.User
	lang := h.settings.Language
	switch kind {
	case confirmDelete:
		act := h.current()
		if act == nil {
			return h, nil
		}
		id := act.ID
		return h, func() tea.Msg {
			return actionMsg{err: svc.DeleteActivity(context.Background(), user, id)}
		}
	case confirmReset:
		return h, func() tea.Msg {
			n, err := svc.ResetToday(context.Background(), user)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{flash: i18n.T(lang, i18n.KeyResetDone, n)}
		}
	}
	return h, nil
}

// toggle stops the running timer, or starts the selected activity.
func (h *HomeScreen) toggle() tea.Cmd {
	svc, user := h.deps.Tracker, h.deps.User
	lang := h.settings.Language

	if h.status.Running() {
		return func() tea.Msg {
			entry, err := svc.Stop(context.Background(), user)
			switch {
			case errors.Is(err, tracker.ErrSessionTooShort):
				return actionMsg{flash: i18n.T(lang, i18n.KeyTooShort)}
			case err != nil:
				return actionMsg{err: err}
			}
			return actionMsg{
				flash: i18n.T(lang, i18n.KeySessionSaved,
					stats.FormatDuration(entry.Duration), stats.FormatReward(entry.EarnedReward)),
				saved: true,
			}
		}
	}

	act := h.current()
	if act == nil {
		return nil
	}
	id := act.ID
	return func() tea.Msg {
		_, err := svc.Start(context.Background(), user, id)
		return actionMsg{err: err}
	}
}

func (h *HomeScreen) cancel() tea.Cmd {
	svc, user := h.deps.Tracker, h.deps.User
	return func() tea.Msg {
		return actionMsg{err: svc.Cancel(context.Background(), user)}
	}
}

func (h *HomeScreen) current() *store.Activity {
	if h.selected < 0 || h.selected >= len(h.activities) {
		return nil
	}
	return &h.activities[h.selected]
}

func (h *HomeScreen) todayEarned() float64 {
	var total float64
	for _, l := range h.logs {
		total += l.EarnedReward
	}
	return total
}

func (h *HomeScreen) columns(width int) int {
	return max(1, (width-4)/(cardWidth+cardGap))
}

func (h *HomeScreen) View(width, height int) string {
	h.width = width // grid navigation needs the column count
	if !h.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	var sections []string

	if h.status.Running() {
		sections = append(sections, h.renderTimer())
	}
	if len(h.activities) == 0 {
		sections = append(sections, theme.Hint.Render(i18n.T(h.settings.Language, i18n.KeyNoActivities)))
	} else {
		sections = append(sections, h.renderGrid(width))
	}

	switch h.confirm {
	case confirmDelete:
		if act := h.current(); act != nil {
			sections = append(sections, theme.Bad.Render(fmt.Sprintf("Delete %s %s? (y/n)", act.Icon, act.Name)))
		}
	case confirmReset:
		sections = append(sections, theme.Bad.Render(i18n.T(h.settings.Language, i18n.KeyResetConfirm)+" (y/n)"))
	}
	if h.flash != "" {
		sections = append(sections, theme.Good.Render(h.flash))
	}
	if h.errMsg != "" {
		sections = append(sections, theme.Bad.Render("Error: "+h.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderTimer() string {
	name, icon := h.status.Session.ActivityID, "⏱"
	if a := h.status.Activity; a != nil {
		name, icon = a.Name, a.Icon
	}
	elapsed := tracker.Elapsed(h.status.Session, h.now)
	clock := lipgloss.NewStyle().Foreground(theme.Reward).Bold(true).
		Render(stats.FormatClock(elapsed.Milliseconds()))
	label := theme.Body.Render(fmt.Sprintf("%s %s · %s", icon, name,
		i18n.T(h.settings.Language, i18n.KeyRunning)))
	return theme.Popup.Render(lipgloss.JoinVertical(lipgloss.Center, label, "", clock))
}

func (h *HomeScreen) renderGrid(width int) string {
	cols := h.columns(width)
	today := tracker.DateString(h.now, h.deps.Tracker.Location())

	var rows []string
	var row []string
	for i, a := range h.activities {
		total := stats.RunningTotal(a.ID, today, h.logs, h.status.Session, h.now)
		row = append(row, h.renderCard(a, total, i == h.selected))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (h *HomeScreen) renderCard(a store.Activity, totalMs int64, selected bool) string {
	running := h.status.Running() && h.status.Session.ActivityID == a.ID

	border := theme.Border
	switch {
	case running:
		border = theme.Success
	case selected:
		border = theme.Primary
	}

	nameStyle := lipgloss.NewStyle().Foreground(theme.ActivityColor(a.Color)).Bold(true)
	lines := []string{
		nameStyle.Render(a.Icon + " " + a.Name),
		theme.Body.Render(stats.FormatRunning(totalMs)),
	}
	detail := fmt.Sprintf("×%g", a.RewardMultiplier)
	if a.Goal.Active() {
		detail += fmt.Sprintf("  🎯 %d×%dm", a.Goal.Sessions, a.Goal.MinutesPerSession)
	}
	lines = append(lines, theme.Hint.Render(detail))
	if running {
		lines = append(lines, theme.Good.Render("● "+i18n.T(h.settings.Language, i18n.KeyRunning)))
	}

	return theme.Card.
		BorderForeground(border).
		Width(cardWidth).
		MarginRight(cardGap).
		Render(strings.Join(lines, "\n"))
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// speakCmd reads text aloud in the background. Failures are logged and
// otherwise ignored.
func speakCmd(sp *speech.Speaker, text, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := sp.Speak(ctx, text, lang); err != nil {
			logger.Warn("speak failed", "error", err)
		}
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// Package activityform is the add/edit activity screen.
package activityform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/screen"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/ui/components"
	"github.com/abhisek/kidtimer/internal/ui/layout"
	"github.com/abhisek/kidtimer/internal/ui/theme"
)

// Field order.
const (
	fieldName = iota
	fieldIcon
	fieldColor
	fieldMultiplier
	fieldGoalSessions
	fieldGoalMinutes
	fieldCount
)

type savedMsg struct {
	err error
}

// FormScreen edits a new or existing activity.
type FormScreen struct {
	svc     *tracker.Service
	user    string
	editing *store.Activity
	rewards []store.Reward
	reward  int // index into rewards; -1 means none
	inputs  []components.TextInput
	focus   int
	errMsg  string
}

var (
	_ screen.Screen          = (*FormScreen)(nil)
	_ screen.KeyHintProvider = (*FormScreen)(nil)
)

// New creates the form. A nil act adds a new activity.
func New(svc *tracker.Service, user string, act *store.Activity, rewards []store.Reward) *FormScreen {
	inputs := make([]components.TextInput, fieldCount)
	inputs[fieldName] = components.NewTextInput("Name", "Piano practice", components.InputText, 40)
	inputs[fieldIcon] = components.NewTextInput("Icon", tracker.DefaultActivityIcon, components.InputText, 4)
	inputs[fieldColor] = components.NewTextInput("Color", tracker.DefaultActivityColor, components.InputText, 7)
	inputs[fieldMultiplier] = components.NewTextInput("Multiplier", "1", components.InputDecimal, 6)
	inputs[fieldGoalSessions] = components.NewTextInput("Weekly goal", "0 sessions", components.InputInteger, 3)
	inputs[fieldGoalMinutes] = components.NewTextInput("Minutes each", "30", components.InputInteger, 4)

	f := &FormScreen{
		svc:     svc,
		user:    user,
		editing: act,
		rewards: rewards,
		reward:  -1,
		inputs:  inputs,
	}
	if act != nil {
		f.inputs[fieldName].SetValue(act.Name)
		f.inputs[fieldIcon].SetValue(act.Icon)
		f.inputs[fieldColor].SetValue(act.Color)
		f.inputs[fieldMultiplier].SetValue(strconv.FormatFloat(act.RewardMultiplier, 'g', -1, 64))
		if act.Goal.Enabled {
			f.inputs[fieldGoalSessions].SetValue(strconv.Itoa(act.Goal.Sessions))
			f.inputs[fieldGoalMinutes].SetValue(strconv.Itoa(act.Goal.MinutesPerSession))
		}
		for i, r := range rewards {
			if r.ID == act.RewardID {
				f.reward = i
			}
		}
	}
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f *FormScreen) Title() string {
	if f.editing != nil {
		return "Edit Activity"
	}
	return "New Activity"
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
	}
	if len(f.rewards) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Reward"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			return f, nil
		}
		return f, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			screen.Refresh,
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "down":
			return f, f.moveFocus(1)
		case "shift+tab", "up":
			return f, f.moveFocus(-1)
		case "ctrl+r":
			if len(f.rewards) > 0 {
				f.reward++
				if f.reward >= len(f.rewards) {
					f.reward = -1
				}
			}
			return f, nil
		case "enter":
			return f, f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *FormScreen) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// submit validates the fields and saves in the background.
func (f *FormScreen) submit() tea.Cmd {
	f.errMsg = ""
	name := f.inputs[fieldName].Value()
	if name == "" {
		f.inputs[fieldName].MarkInvalid()
		f.errMsg = "Name is required"
		return nil
	}
	mult, err := f.inputs[fieldMultiplier].Float(1)
	if err != nil {
		f.inputs[fieldMultiplier].MarkInvalid()
		f.errMsg = "Multiplier must be a number"
		return nil
	}
	sessions, err := f.inputs[fieldGoalSessions].Int(0)
	if err != nil {
		f.inputs[fieldGoalSessions].MarkInvalid()
		f.errMsg = "Weekly goal must be a whole number"
		return nil
	}
	minutes, err := f.inputs[fieldGoalMinutes].Int(30)
	if err != nil {
		f.inputs[fieldGoalMinutes].MarkInvalid()
		f.errMsg = "Minutes must be a whole number"
		return nil
	}

	icon := f.inputs[fieldIcon].Value()
	color := f.inputs[fieldColor].Value()
	rewardID := ""
	if f.reward >= 0 {
		rewardID = f.rewards[f.reward].ID
	}
	goal := store.WeeklyGoal{Enabled: sessions > 0, Sessions: sessions, MinutesPerSession: minutes}

	svc, user := f.svc, f.user
	if f.editing == nil {
		in := tracker.ActivityInput{
			Name:             name,
			Icon:             icon,
			Color:            color,
			RewardMultiplier: &mult,
			RewardID:         rewardID,
			Goal:             goal,
		}
		return func() tea.Msg {
			_, err := svc.CreateActivity(context.Background(), user, in)
			return savedMsg{err: err}
		}
	}

	id := f.editing.ID
	p := tracker.ActivityPatch{
		Name:              &name,
		RewardMultiplier:  &mult,
		RewardID:          &rewardID,
		GoalEnabled:       &goal.Enabled,
		GoalSessions:      &goal.Sessions,
		MinutesPerSession: &goal.MinutesPerSession,
	}
	if icon != "" {
		p.Icon = &icon
	}
	if color != "" {
		p.Color = &color
	}
	return func() tea.Msg {
		_, err := svc.UpdateActivity(context.Background(), user, id, p)
		return savedMsg{err: err}
	}
}

func (f *FormScreen) View(width, height int) string {
	var b strings.Builder
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	reward := "none"
	if f.reward >= 0 {
		r := f.rewards[f.reward]
		reward = r.Icon + " " + r.Name
	}
	b.WriteString(fmt.Sprintf("%-14s%s\n", "Reward", theme.Body.Render(reward)))

	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Bad.Render(f.errMsg))
	}

	card := theme.Card.Padding(1, 2).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

package activityform

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/tracker/trackertest"
)

const user = "kid"

func typeText(f *FormScreen, s string) {
	for _, r := range s {
		f.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestForm_Title(t *testing.T) {
	svc, _ := trackertest.New(t)
	if got := New(svc, user, nil, nil).Title(); got != "New Activity" {
		t.Errorf("Title = %q", got)
	}
	act := &store.Activity{ID: "a1", Name: "Piano"}
	if got := New(svc, user, act, nil).Title(); got != "Edit Activity" {
		t.Errorf("Title = %q", got)
	}
}

func TestForm_CreateActivity(t *testing.T) {
	svc, _ := trackertest.New(t)
	ctx := context.Background()
	f := New(svc, user, nil, nil)
	f.Init()

	typeText(f, "Chess")
	f.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // icon
	f.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // color
	f.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // multiplier
	typeText(f, "0.5")
	f.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // goal sessions
	typeText(f, "3")

	_, cmd := f.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	_, cmd = f.Update(cmd())
	if cmd == nil {
		t.Fatalf("expected pop after save, error: %s", f.errMsg)
	}

	acts, err := svc.Activities(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 1 {
		t.Fatalf("activities = %d, want 1", len(acts))
	}
	a := acts[0]
	if a.Name != "Chess" || a.RewardMultiplier != 0.5 {
		t.Errorf("activity = %+v", a)
	}
	if !a.Goal.Enabled || a.Goal.Sessions != 3 || a.Goal.MinutesPerSession != 30 {
		t.Errorf("goal = %+v", a.Goal)
	}
	if a.Icon != tracker.DefaultActivityIcon {
		t.Errorf("icon = %q, want default", a.Icon)
	}
}

func TestForm_NameRequired(t *testing.T) {
	svc, _ := trackertest.New(t)
	f := New(svc, user, nil, nil)
	_, cmd := f.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty name should not save")
	}
	if f.errMsg == "" || !f.inputs[fieldName].Invalid() {
		t.Error("expected the name field to be flagged")
	}
}

func TestForm_IntegerFieldRejectsLetters(t *testing.T) {
	svc, _ := trackertest.New(t)
	f := New(svc, user, nil, nil)
	f.focus = fieldGoalSessions
	f.Init()
	typeText(f, "4x2")
	if got := f.inputs[fieldGoalSessions].Value(); got != "42" {
		t.Errorf("value = %q, want 42", got)
	}
}

func TestForm_EditActivity(t *testing.T) {
	svc, _ := trackertest.New(t)
	ctx := context.Background()
	reward, err := svc.CreateReward(ctx, user, "TV", "📺")
	if err != nil {
		t.Fatal(err)
	}
	act, err := svc.CreateActivity(ctx, user, tracker.ActivityInput{Name: "Piano"})
	if err != nil {
		t.Fatal(err)
	}

	f := New(svc, user, act, []store.Reward{*reward})
	if f.inputs[fieldName].Value() != "Piano" || f.reward != -1 {
		t.Fatal("form should start from the activity's values")
	}
	f.Init()
	typeText(f, " lessons")
	f.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if f.reward != 0 {
		t.Fatalf("reward = %d, want 0", f.reward)
	}

	_, cmd := f.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	f.Update(cmd())

	got, err := svc.Activity(ctx, user, act.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Piano lessons" || got.RewardID != reward.ID {
		t.Errorf("activity = %+v", got)
	}
}

func TestForm_Esc(t *testing.T) {
	svc, _ := trackertest.New(t)
	f := New(svc, user, nil, nil)
	_, cmd := f.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

package settings

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/tracker/trackertest"
)

const user = "kid"

func newLoaded(t *testing.T) (*SettingsScreen, *tracker.Service) {
	t.Helper()
	svc, _ := trackertest.New(t)
	s := New(svc, user)
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatalf("settings not loaded: %s", s.errMsg)
	}
	return s, svc
}

// apply runs cmd and feeds the resulting messages back, following a
// menu action into its save.
func apply(s *SettingsScreen, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 3; i++ {
		_, cmd = s.Update(cmd())
	}
}

func TestSettings_ChooseLanguage(t *testing.T) {
	s, svc := newLoaded(t)
	if s.menu.Selected != 0 {
		t.Fatalf("selected = %d, want the default language", s.menu.Selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	apply(s, cmd)
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	apply(s, cmd)

	set, err := svc.Settings(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	if set.Language != "en" || s.settings.Language != "en" {
		t.Errorf("language = %q, want en", set.Language)
	}
	if !s.changed {
		t.Error("a saved change should be remembered")
	}
}

func TestSettings_ToggleVoice(t *testing.T) {
	s, svc := newLoaded(t)
	if !s.settings.VoiceEnabled {
		t.Fatal("voice should default to on")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'v', Text: "v"})
	apply(s, cmd)

	set, _ := svc.Settings(context.Background(), user)
	if set.VoiceEnabled {
		t.Error("voice should be off after toggling")
	}
}

func TestSettings_RewardName(t *testing.T) {
	s, svc := newLoaded(t)

	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if !s.editing {
		t.Fatal("n should start editing the reward name")
	}
	s.reward.SetValue("")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil || !s.reward.Invalid() {
		t.Fatal("an empty name should be rejected")
	}

	for _, r := range "TV" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	apply(s, cmd)

	set, _ := svc.Settings(context.Background(), user)
	if set.RewardName != "TV" {
		t.Errorf("reward name = %q, want TV", set.RewardName)
	}
	if s.editing {
		t.Error("editing should end after saving")
	}
}

func TestSettings_EscRefreshesAfterChange(t *testing.T) {
	s, _ := newLoaded(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected a plain pop without changes")
	}

	s.changed = true
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); ok {
		t.Error("expected pop followed by refresh after a change")
	}
}

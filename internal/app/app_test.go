package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kidtimer/internal/screens/home"
	"github.com/abhisek/kidtimer/internal/screens/welcome"
	"github.com/abhisek/kidtimer/internal/tracker/trackertest"
)

func newModel(t *testing.T, opts Options) AppModel {
	t.Helper()
	svc, _ := trackertest.New(t)
	return newAppModel(Deps{Tracker: svc, User: "kid"}, opts)
}

func TestStartsOnSplash(t *testing.T) {
	m := newModel(t, Options{Language: "en"})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("initial screen = %T, want splash", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("splash should start ticking")
	}
}

func TestSkipSplash(t *testing.T) {
	m := newModel(t, Options{SkipSplash: true})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("initial screen = %T, want home", m.router.Active())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel(t, Options{SkipSplash: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestViewFramesHomeScreen(t *testing.T) {
	m := newModel(t, Options{SkipSplash: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)

	// Feed the home screen its data.
	updated, _ = m.Update(m.Init()())
	m = updated.(AppModel)

	out := m.render()
	if !strings.Contains(out, "kidtimer") {
		t.Error("expected the header")
	}
	if !strings.Contains(out, "Start") {
		t.Error("expected home key hints in the footer")
	}
	if m.banner() == "" {
		t.Error("expected the reward banner once home has loaded")
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newModel(t, Options{SkipSplash: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(updated.(AppModel).render(), "too small") {
		t.Error("expected the min-size message")
	}
}

package mentor

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kidtimer/internal/llm"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/router"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
	"github.com/abhisek/kidtimer/internal/tracker/trackertest"
)

const user = "kid"

func setup(t *testing.T, withGoal bool) *tracker.Service {
	t.Helper()
	svc, _ := trackertest.New(t)
	ctx := context.Background()
	in := tracker.ActivityInput{Name: "Piano", Icon: "🎹"}
	if withGoal {
		in.Goal = store.WeeklyGoal{Enabled: true, Sessions: 3, MinutesPerSession: 20}
	}
	if _, err := svc.CreateActivity(ctx, user, in); err != nil {
		t.Fatal(err)
	}
	voice := false
	if _, err := svc.UpdateSettings(ctx, user, tracker.SettingsPatch{VoiceEnabled: &voice}); err != nil {
		t.Fatal(err)
	}
	return svc
}

// load runs Init and the advice request it triggers.
func load(t *testing.T, s *MentorScreen) {
	t.Helper()
	_, cmd := s.Update(s.Init()())
	if cmd == nil {
		t.Fatal("expected the advice request after loading")
	}
	s.Update(cmd())
}

func TestMentor_GeneratedAdvice(t *testing.T) {
	svc := setup(t, true)
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"本周已完成0次","suggestion":"今天练琴吧","encouragement":"加油！"}`),
	})
	s := New(svc, mentor.NewService(mock, mentor.DefaultConfig()), nil, user)

	if !strings.Contains(s.View(80, 30), "小智正在思考") {
		t.Error("expected the loading text before advice arrives")
	}
	load(t, s)

	if s.advice == nil || s.advice.Fallback {
		t.Fatalf("advice = %+v, want generated", s.advice)
	}
	if len(s.report.Goals) != 1 {
		t.Errorf("goals = %d, want 1", len(s.report.Goals))
	}
	view := s.View(100, 40)
	for _, want := range []string{"今天练琴吧", "Piano", "0/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMentor_NoGoalsUsesCannedReply(t *testing.T) {
	svc := setup(t, false)
	s := New(svc, nil, nil, user)
	load(t, s)
	if s.advice == nil || !strings.Contains(s.advice.Summary, "还没有设置每周目标") {
		t.Errorf("advice = %+v", s.advice)
	}
}

func TestMentor_AskAgain(t *testing.T) {
	svc := setup(t, true)
	s := New(svc, nil, nil, user)
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil || s.advice != nil {
		t.Fatal("r should clear the advice and ask again")
	}
	s.Update(cmd())
	if s.advice == nil || !s.advice.Fallback {
		t.Errorf("advice = %+v, want offline fallback", s.advice)
	}
}

func TestMentor_SpeakWithoutSpeaker(t *testing.T) {
	svc := setup(t, true)
	s := New(svc, nil, nil, user)
	load(t, s)
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 's', Text: "s"}); cmd != nil {
		t.Error("speaking without a speaker should be a no-op")
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("hints = %d, want 2", len(s.KeyHints()))
	}
}

func TestMentor_Esc(t *testing.T) {
	svc := setup(t, true)
	s := New(svc, nil, nil, user)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestRenderMascot(t *testing.T) {
	for _, v := range []MascotVariant{MascotIdle, MascotThinking, MascotCelebrating} {
		if RenderMascot(v) == "" {
			t.Errorf("variant %d rendered empty", v)
		}
	}
}

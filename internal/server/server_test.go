package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kidtimer/internal/config"
	"github.com/abhisek/kidtimer/internal/llm"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/speech"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubSynth struct {
	audio *speech.Audio
	lang  string
}

func (s *stubSynth) Name() string { return "stub" }

func (s *stubSynth) Synthesize(_ context.Context, _, lang string) (*speech.Audio, error) {
	s.lang = lang
	return s.audio, nil
}

type env struct {
	t       *testing.T
	handler http.Handler
	clock   *clock
	llm     *llm.MockProvider
	synth   *stubSynth
	token   string
}

var dbSeq atomic.Int64

func newEnv(t *testing.T, mutate func(*config.Config)) *env {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:server_%d?mode=memory&cache=shared", dbSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	// Wednesday afternoon.
	c := &clock{now: time.Date(2024, 5, 8, 16, 0, 0, 0, time.UTC)}
	svc := tracker.NewService(tracker.ReposFromStore(st), tracker.WithClock(c.Now), tracker.WithLocation(time.UTC))

	cfg := config.Default()
	cfg.User = "local"
	if mutate != nil {
		mutate(&cfg)
	}

	mock := llm.NewMockProvider()
	synth := &stubSynth{audio: &speech.Audio{Data: []byte("RIFFdata"), MIME: "audio/wav"}}
	srv := New(cfg, Deps{
		Tracker: svc,
		Mentor:  mentor.NewService(mock, mentor.DefaultConfig()),
		Speech:  synth,
	})
	return &env{t: t, handler: srv.Handler(), clock: c, llm: mock, synth: synth}
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		r = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, r)
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *env) createActivity(body map[string]any) store.Activity {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/activities", body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[store.Activity](e.t, rec)
}

func TestHealthz(t *testing.T) {
	e := newEnv(t, nil)
	rec := e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	e := newEnv(t, nil)
	act := e.createActivity(map[string]any{"name": "Piano", "reward_multiplier": 0.5})

	rec := e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")

	e.clock.Advance(90 * time.Second)
	rec = e.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 90000, status["elapsed_ms"])

	e.clock.Advance(30 * time.Minute)
	rec = e.do(http.MethodPost, "/api/session/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decodeBody[store.LogEntry](t, rec)
	assert.Equal(t, int64(31*60000+30000), entry.Duration)
	assert.InDelta(t, float64(entry.Duration)*0.5, entry.EarnedReward, 1e-6)
	assert.Equal(t, "2024-05-08", entry.DateStr)

	rec = e.do(http.MethodPost, "/api/session/stop", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodGet, "/api/logs?date=2024-05-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]store.LogEntry](t, rec), 1)
}

func TestStopTooShortIs422(t *testing.T) {
	e := newEnv(t, nil)
	act := e.createActivity(map[string]any{"name": "Reading"})
	e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
	e.clock.Advance(59 * time.Second)

	rec := e.do(http.MethodPost, "/api/session/stop", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodGet, "/api/logs", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown activity start", http.MethodPost, "/api/session/start", map[string]string{"activity_id": "nope"}, http.StatusNotFound},
		{"missing activity id", http.MethodPost, "/api/session/start", `{}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/activities", `{"name":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/activities", `{"name":"x","bogus":1}`, http.StatusBadRequest},
		{"empty name", http.MethodPost, "/api/activities", map[string]any{"name": ""}, http.StatusBadRequest},
		{"negative multiplier", http.MethodPost, "/api/activities", map[string]any{"name": "x", "reward_multiplier": -1}, http.StatusBadRequest},
		{"patch missing", http.MethodPatch, "/api/activities/nope", map[string]any{"name": "y"}, http.StatusNotFound},
		{"delete missing log", http.MethodDelete, "/api/logs/nope", nil, http.StatusNotFound},
		{"cancel without session", http.MethodPost, "/api/session/cancel", nil, http.StatusConflict},
		{"bad limit", http.MethodGet, "/api/logs?limit=x", nil, http.StatusBadRequest},
		{"bad week offset", http.MethodGet, "/api/goals?week_offset=x", nil, http.StatusBadRequest},
		{"wrong method", http.MethodPut, "/api/activities", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("x: %w", tracker.ErrSessionActive)))
	assert.Equal(t, http.StatusNotFound, statusFor(store.ErrNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(tracker.ErrSessionTooShort))
	assert.Equal(t, http.StatusBadRequest, statusFor(tracker.ErrInvalidInput))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk full")))
}

func TestActivityPatchAndDelete(t *testing.T) {
	e := newEnv(t, nil)
	act := e.createActivity(map[string]any{"name": "Piano", "icon": "🎹"})

	rec := e.do(http.MethodPatch, "/api/activities/"+act.ID, map[string]any{"is_goal_enabled": true, "weekly_goal_sessions": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[store.Activity](t, rec)
	assert.Equal(t, "Piano", got.Name)
	assert.Equal(t, "🎹", got.Icon)
	assert.True(t, got.Goal.Enabled)
	assert.Equal(t, 3, got.Goal.Sessions)

	rec = e.do(http.MethodDelete, "/api/activities/"+act.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.do(http.MethodGet, "/api/activities", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRewardsAndStatsToday(t *testing.T) {
	e := newEnv(t, nil)
	rec := e.do(http.MethodPost, "/api/rewards", map[string]string{"name": "TV"})
	require.Equal(t, http.StatusCreated, rec.Code)
	reward := decodeBody[store.Reward](t, rec)
	assert.Equal(t, "🏆", reward.Icon)

	act := e.createActivity(map[string]any{"name": "Piano", "reward_multiplier": 2, "reward_id": reward.ID})
	e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
	e.clock.Advance(10 * time.Minute)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/session/stop", nil).Code)

	rec = e.do(http.MethodGet, "/api/stats/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2024-05-08", body["date"])
	assert.EqualValues(t, 600000, body["total_duration_ms"])
	assert.EqualValues(t, 1200000, body["total_earned_ms"])
	assert.Equal(t, "Reward", body["reward_name"])
	rewards := body["rewards"].([]any)
	require.Len(t, rewards, 1)
	assert.Equal(t, reward.ID, rewards[0].(map[string]any)["reward_id"])

	rec = e.do(http.MethodGet, "/api/stats/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decodeBody[[]map[string]any](t, rec)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-05-08", days[0]["date"])
}

func TestResetToday(t *testing.T) {
	e := newEnv(t, nil)
	act := e.createActivity(map[string]any{"name": "Piano"})
	e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
	e.clock.Advance(2 * time.Minute)
	e.do(http.MethodPost, "/api/session/stop", nil)

	rec := e.do(http.MethodPost, "/api/logs/reset-today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":1}`, rec.Body.String())
}

func TestGoalsEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	act := e.createActivity(map[string]any{
		"name": "Piano",
		"goal": map[string]any{"enabled": true, "sessions": 1, "minutes_per_session": 20},
	})
	for range 2 {
		e.do(http.MethodPost, "/api/session/start", map[string]string{"activity_id": act.ID})
		e.clock.Advance(5 * time.Minute)
		e.do(http.MethodPost, "/api/session/stop", nil)
	}

	rec := e.do(http.MethodGet, "/api/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2024-05-06", body["from"])
	assert.Equal(t, "2024-05-12", body["to"])
	assert.EqualValues(t, 4, body["days_left"])
	g := body["goals"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 2, g["completed_sessions"])
	assert.EqualValues(t, 100, g["percent"], "clamped")

	rec = e.do(http.MethodGet, "/api/goals?week_offset=-1", nil)
	body = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "2024-04-29", body["from"])
	assert.EqualValues(t, 0, body["goals"].([]any)[0].(map[string]any)["completed_sessions"])
}

func TestMentorEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	e.createActivity(map[string]any{
		"name": "Piano",
		"goal": map[string]any{"enabled": true, "sessions": 3, "minutes_per_session": 20},
	})
	e.llm.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"s","suggestion":"g","encouragement":"e"}`),
	})

	rec := e.do(http.MethodPost, "/api/mentor", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "s", body["summary"])
	assert.Equal(t, false, body["fallback"])
	assert.Len(t, body["progress"].([]any), 1)

	// Queue is empty now; the provider errors and the mentor falls back.
	rec = e.do(http.MethodPost, "/api/mentor", map[string]string{"language": "en"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, "Welcome back! Keep working towards your goals!", body["summary"])
}

func TestSpeechEndpoint(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(http.MethodPost, "/api/speech", map[string]string{"text": "加油"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "RIFFdata", rec.Body.String())
	assert.Equal(t, "zh", e.synth.lang, "defaults to the settings language")

	e.synth.audio = nil
	rec = e.do(http.MethodPost, "/api/speech", map[string]string{"text": "hi", "lang": "en"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(http.MethodPatch, "/api/settings", map[string]any{"voice_enabled": false})
	require.Equal(t, http.StatusOK, rec.Code)
	e.synth.audio = &speech.Audio{Data: []byte("x"), MIME: "audio/wav"}
	rec = e.do(http.MethodPost, "/api/speech", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSettingsEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	rec := e.do(http.MethodPatch, "/api/settings", map[string]any{"language": "en-GB", "reward_name": "Screen"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(http.MethodGet, "/api/settings", nil)
	s := decodeBody[store.Settings](t, rec)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, "Screen", s.RewardName)
}

func TestBackupRoundTrip(t *testing.T) {
	e := newEnv(t, nil)
	e.createActivity(map[string]any{"name": "Piano"})

	rec := e.do(http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	backup := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	other := newEnv(t, nil)
	rec = other.do(http.MethodPost, "/api/backup", backup)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = other.do(http.MethodGet, "/api/activities", nil)
	acts := decodeBody[[]store.Activity](t, rec)
	require.Len(t, acts, 1)
	assert.Equal(t, "Piano", acts[0].Name)
	assert.Equal(t, "local", acts[0].UserID)

	rec = other.do(http.MethodPost, "/api/backup", `{"version":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupImportRejectsEmptyBody(t *testing.T) {
	e := newEnv(t, nil)
	e.createActivity(map[string]any{"name": "Piano"})

	for _, body := range []any{nil, "", `{}`, `{"activities":[]}`} {
		rec := e.do(http.MethodPost, "/api/backup", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q: %s", body, rec.Body.String())
	}

	rec := e.do(http.MethodGet, "/api/activities", nil)
	acts := decodeBody[[]store.Activity](t, rec)
	require.Len(t, acts, 1, "rejected imports must not wipe data")
	assert.Equal(t, "Piano", acts[0].Name)
}

func TestBearerAuth(t *testing.T) {
	e := newEnv(t, func(c *config.Config) {
		c.Auth.Tokens = map[string]string{"tok-a": "alice", "tok-b": "bob"}
	})

	rec := e.do(http.MethodGet, "/api/activities", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	e.token = "wrong"
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/activities", nil).Code)

	e.token = "tok-a"
	act := e.createActivity(map[string]any{"name": "Piano"})
	assert.Equal(t, "alice", act.UserID)

	e.token = "tok-b"
	rec = e.do(http.MethodGet, "/api/activities", nil)
	assert.JSONEq(t, `[]`, rec.Body.String(), "users are isolated")

	e.token = ""
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/healthz", nil).Code, "healthz is public")
}

func TestTrustHeader(t *testing.T) {
	e := newEnv(t, func(c *config.Config) { c.Auth.TrustHeader = true })

	req := httptest.NewRequest(http.MethodPost, "/api/activities", strings.NewReader(`{"name":"Chess"}`))
	req.Header.Set("X-User-ID", "carol")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "carol", decodeBody[store.Activity](t, rec).UserID)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/activities", nil).Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:server_%d?mode=memory&cache=shared", dbSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	srv := New(cfg, Deps{Tracker: tracker.NewService(tracker.ReposFromStore(st))})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

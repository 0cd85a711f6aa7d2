package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kidtimer/internal/store"
)

func logSession(t *testing.T, svc *Service, clock *fakeClock, activityID string, d time.Duration) *store.LogEntry {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Start(ctx, "kid", activityID)
	require.NoError(t, err)
	clock.Advance(d)
	entry, err := svc.Stop(ctx, "kid")
	require.NoError(t, err)
	return entry
}

func TestResetTodayKeepsOtherDays(t *testing.T) {
	svc, clock, _ := newTestService(t)
	ctx := context.Background()
	act, err := svc.CreateActivity(ctx, "kid", ActivityInput{Name: "Piano"})
	require.NoError(t, err)

	yesterday := logSession(t, svc, clock, act.ID, 5*time.Minute)
	clock.Advance(24 * time.Hour)
	logSession(t, svc, clock, act.ID, 5*time.Minute)
	logSession(t, svc, clock, act.ID, 7*time.Minute)

	_, err = svc.Start(ctx, "kid", act.ID)
	require.NoError(t, err)

	n, err := svc.ResetToday(ctx, "kid")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	logs, err := svc.Logs(ctx, "kid", store.LogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, yesterday.ID, logs[0].ID)

	active, err := svc.Active(ctx, "kid")
	require.NoError(t, err)
	assert.Nil(t, active, "reset clears the running session")

	snap, err := svc.LatestSnapshot(ctx, "kid")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "reset-today", snap.Reason)
	assert.Len(t, snap.Data.Logs, 3, "snapshot holds the state before the reset")
	assert.NotNil(t, snap.Data.ActiveSession)
}

func TestDeleteLog(t *testing.T) {
	svc, clock, _ := newTestService(t)
	ctx := context.Background()
	act, err := svc.CreateActivity(ctx, "kid", ActivityInput{Name: "Piano"})
	require.NoError(t, err)
	entry := logSession(t, svc, clock, act.ID, 3*time.Minute)

	require.NoError(t, svc.DeleteLog(ctx, "kid", entry.ID))
	assert.ErrorIs(t, svc.DeleteLog(ctx, "kid", entry.ID), ErrLogNotFound)
}

func TestSettings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	st, err := svc.Settings(ctx, "kid")
	require.NoError(t, err)
	assert.Equal(t, "zh", st.Language)
	assert.True(t, st.VoiceEnabled)

	st, err = svc.UpdateSettings(ctx, "kid", SettingsPatch{
		Language:     ptr("sv-SE"),
		VoiceEnabled: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "sv", st.Language)
	assert.False(t, st.VoiceEnabled)
	assert.Equal(t, "Reward", st.RewardName)

	st, err = svc.UpdateSettings(ctx, "kid", SettingsPatch{Language: ptr("pt-BR")})
	require.NoError(t, err)
	assert.Equal(t, "zh", st.Language, "unsupported languages fall back")

	_, err = svc.UpdateSettings(ctx, "kid", SettingsPatch{RewardName: ptr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, clock, _ := newTestService(t)
	ctx := context.Background()

	r, err := src.CreateReward(ctx, "kid", "Games", "🎮")
	require.NoError(t, err)
	act, err := src.CreateActivity(ctx, "kid", ActivityInput{Name: "Piano", RewardID: r.ID, Goal: goal(true, 3, 20)})
	require.NoError(t, err)
	logSession(t, src, clock, act.ID, 20*time.Minute)
	_, err = src.UpdateSettings(ctx, "kid", SettingsPatch{RewardName: ptr("Stars")})
	require.NoError(t, err)

	data, err := src.Export(ctx, "kid")
	require.NoError(t, err)
	assert.Equal(t, store.SnapshotVersion, data.Version)

	// Import into another user of the same store, which already has data.
	_, err = src.CreateActivity(ctx, "sib", ActivityInput{Name: "Old"})
	require.NoError(t, err)
	require.NoError(t, src.Import(ctx, "sib", &store.SnapshotData{Version: 1}))

	dst, _, _ := newTestService(t)
	require.NoError(t, dst.Import(ctx, "mia", data))

	acts, err := dst.Activities(ctx, "mia")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, act.ID, acts[0].ID)
	assert.Equal(t, "mia", acts[0].UserID)
	assert.Equal(t, r.ID, acts[0].RewardID)

	logs, err := dst.Logs(ctx, "mia", store.LogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(20*60000), logs[0].Duration)

	st, err := dst.Settings(ctx, "mia")
	require.NoError(t, err)
	assert.Equal(t, "Stars", st.RewardName)

	sibActs, err := src.Activities(ctx, "sib")
	require.NoError(t, err)
	assert.Empty(t, sibActs, "import replaces existing state")
	snap, err := src.LatestSnapshot(ctx, "sib")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "import", snap.Reason)
	assert.Len(t, snap.Data.Activities, 1)
}

func TestImportValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	v := store.SnapshotVersion
	bad := []*store.SnapshotData{
		nil,
		{},
		{Version: v + 1},
		{Version: v, Activities: []store.Activity{{ID: "", Name: "x"}}},
		{Version: v, Activities: []store.Activity{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}}},
		{Version: v, Activities: []store.Activity{{ID: "a", Name: "x", RewardMultiplier: -2}}},
		{Version: v, Logs: []store.LogEntry{{ID: "l", StartTime: 0, EndTime: 60000, Duration: 1, DateStr: "2024-01-01"}}},
		{Version: v, Logs: []store.LogEntry{{ID: "l", StartTime: 0, EndTime: 60000, Duration: 60000, DateStr: "yesterday"}}},
		{Version: v, Logs: []store.LogEntry{{ID: "l", StartTime: 0, EndTime: 1000, Duration: 1000, DateStr: "2024-01-01"}}},
	}
	for i, data := range bad {
		assert.ErrorIs(t, svc.Import(ctx, "kid", data), ErrInvalidInput, "case %d", i)
	}
}

func TestImportIntoAnotherUserKeepsSourceIntact(t *testing.T) {
	svc, clock, _ := newTestService(t)
	ctx := context.Background()

	r, err := svc.CreateReward(ctx, "kid", "Games", "🎮")
	require.NoError(t, err)
	act, err := svc.CreateActivity(ctx, "kid", ActivityInput{Name: "Piano", RewardID: r.ID})
	require.NoError(t, err)
	logged := logSession(t, svc, clock, act.ID, 10*time.Minute)
	_, err = svc.Start(ctx, "kid", act.ID)
	require.NoError(t, err)

	data, err := svc.Export(ctx, "kid")
	require.NoError(t, err)

	_, err = svc.CreateActivity(ctx, "sib", ActivityInput{Name: "Old"})
	require.NoError(t, err)
	require.NoError(t, svc.Import(ctx, "sib", data))

	// The source user is untouched.
	kidActs, err := svc.Activities(ctx, "kid")
	require.NoError(t, err)
	require.Len(t, kidActs, 1)
	assert.Equal(t, act.ID, kidActs[0].ID)
	kidLogs, err := svc.Logs(ctx, "kid", store.LogQuery{})
	require.NoError(t, err)
	require.Len(t, kidLogs, 1)
	assert.Equal(t, logged.ID, kidLogs[0].ID)

	// The copy gets its own ids with references remapped.
	sibRewards, err := svc.Rewards(ctx, "sib")
	require.NoError(t, err)
	require.Len(t, sibRewards, 1)
	assert.NotEqual(t, r.ID, sibRewards[0].ID)

	sibActs, err := svc.Activities(ctx, "sib")
	require.NoError(t, err)
	require.Len(t, sibActs, 1)
	assert.Equal(t, "Piano", sibActs[0].Name)
	assert.NotEqual(t, act.ID, sibActs[0].ID)
	assert.Equal(t, sibRewards[0].ID, sibActs[0].RewardID)

	sibLogs, err := svc.Logs(ctx, "sib", store.LogQuery{})
	require.NoError(t, err)
	require.Len(t, sibLogs, 1)
	assert.NotEqual(t, logged.ID, sibLogs[0].ID)
	assert.Equal(t, sibActs[0].ID, sibLogs[0].ActivityID)
	assert.Equal(t, sibRewards[0].ID, sibLogs[0].RewardID)

	sess, err := svc.Active(ctx, "sib")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, sibActs[0].ID, sess.ActivityID)
}

func TestImportFailureRollsBack(t *testing.T) {
	svc, clock, st := newTestService(t)
	ctx := context.Background()

	act, err := svc.CreateActivity(ctx, "kid", ActivityInput{Name: "Piano"})
	require.NoError(t, err)
	logSession(t, svc, clock, act.ID, 10*time.Minute)
	data, err := svc.Export(ctx, "kid")
	require.NoError(t, err)

	old, err := svc.CreateActivity(ctx, "sib", ActivityInput{Name: "Old"})
	require.NoError(t, err)

	err = serviceWithBrokenLogs(st, clock).Import(ctx, "sib", data)
	require.ErrorIs(t, err, errDiskFull)

	acts, err := svc.Activities(ctx, "sib")
	require.NoError(t, err)
	require.Len(t, acts, 1, "failed import leaves existing state")
	assert.Equal(t, old.ID, acts[0].ID)
}

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/store"
)

// Logs lists completed sessions, newest first.
func (s *Service) Logs(ctx context.Context, user string, q store.LogQuery) ([]store.LogEntry, error) {
	logs, err := s.repos.Logs.List(ctx, user, q)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

// TodayLogs lists today's logs.
func (s *Service) TodayLogs(ctx context.Context, user string) ([]store.LogEntry, error) {
	return s.Logs(ctx, user, store.LogQuery{Date: s.Today()})
}

// DeleteLog removes one log entry.
func (s *Service) DeleteLog(ctx context.Context, user, id string) error {
	if err := s.repos.Logs.Delete(ctx, user, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLogNotFound, id)
		}
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

// ResetToday deletes every log dated today and clears the running session.
// A snapshot of the prior state is saved first so the reset can be undone
// from a backup. It returns the number of logs removed.
func (s *Service) ResetToday(ctx context.Context, user string) (int64, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	if err := s.snapshot(ctx, user, "reset-today"); err != nil {
		return 0, err
	}

	today := s.Today()
	n, err := s.repos.Logs.DeleteByDate(ctx, user, today)
	if err != nil {
		return 0, fmt.Errorf("delete today's logs: %w", err)
	}
	if err := s.repos.Sessions.Clear(ctx, user); err != nil {
		return 0, fmt.Errorf("clear session: %w", err)
	}
	logger.Info("reset today", "user", user, "date", today, "deleted", n)
	return n, nil
}

// SettingsPatch is a partial settings edit.
type SettingsPatch struct {
	RewardName   *string `json:"reward_name"`
	Language     *string `json:"language"`
	VoiceEnabled *bool   `json:"voice_enabled"`
}

// Settings returns the user's settings.
func (s *Service) Settings(ctx context.Context, user string) (store.Settings, error) {
	st, err := s.repos.Settings.Get(ctx, user)
	if err != nil {
		return store.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

// UpdateSettings applies p. Language values are matched to the closest
// supported language.
func (s *Service) UpdateSettings(ctx context.Context, user string, p SettingsPatch) (store.Settings, error) {
	st, err := s.Settings(ctx, user)
	if err != nil {
		return store.Settings{}, err
	}
	if p.RewardName != nil {
		name := strings.TrimSpace(*p.RewardName)
		if name == "" {
			return store.Settings{}, fmt.Errorf("%w: reward name must not be empty", ErrInvalidInput)
		}
		st.RewardName = name
	}
	if p.Language != nil {
		st.Language = i18n.Match(*p.Language)
	}
	if p.VoiceEnabled != nil {
		st.VoiceEnabled = *p.VoiceEnabled
	}
	st.UserID = user

	if err := s.repos.Settings.Save(ctx, st); err != nil {
		return store.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

// Export captures the user's full state.
func (s *Service) Export(ctx context.Context, user string) (*store.SnapshotData, error) {
	acts, err := s.repos.Activities.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	rewards, err := s.repos.Rewards.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	logs, err := s.repos.Logs.List(ctx, user, store.LogQuery{})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	settings, err := s.repos.Settings.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	sess, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}

	return &store.SnapshotData{
		Version:       store.SnapshotVersion,
		Activities:    acts,
		Rewards:       rewards,
		Logs:          logs,
		Settings:      &settings,
		ActiveSession: sess,
	}, nil
}

// Import replaces the user's state with data. The current state is
// snapshotted first. User ids inside data are rewritten to user, and rows
// whose id already belongs to someone else get a fresh id with every
// reference to it remapped. The replacement happens in one transaction.
func (s *Service) Import(ctx context.Context, user string, data *store.SnapshotData) error {
	if err := validateSnapshot(data); err != nil {
		return err
	}

	unlock := s.locks.lock(user)
	defer unlock()

	if err := s.snapshot(ctx, user, "import"); err != nil {
		return err
	}
	err := s.repos.inTx(ctx, func(tx Repos) error {
		if err := clearUser(ctx, tx, user); err != nil {
			return err
		}
		return importData(ctx, tx, user, data)
	})
	if err != nil {
		return err
	}

	logger.Info("backup imported", "user", user, "activities", len(data.Activities),
		"rewards", len(data.Rewards), "logs", len(data.Logs))
	return nil
}

// importData inserts data for user. The user's rows must already be gone.
func importData(ctx context.Context, tx Repos, user string, data *store.SnapshotData) error {
	rewardIDs := make(map[string]string, len(data.Rewards))
	for i := range data.Rewards {
		r := data.Rewards[i]
		orig := r.ID
		id, err := claimID(ctx, tx.Rewards.Exists, orig)
		if err != nil {
			return err
		}
		r.ID, r.UserID = id, user
		if err := tx.Rewards.Create(ctx, &r); err != nil {
			return fmt.Errorf("import reward %s: %w", orig, err)
		}
		rewardIDs[orig] = r.ID
	}

	activityIDs := make(map[string]string, len(data.Activities))
	for i := range data.Activities {
		a := data.Activities[i]
		orig := a.ID
		id, err := claimID(ctx, tx.Activities.Exists, orig)
		if err != nil {
			return err
		}
		a.ID, a.UserID = id, user
		a.RewardID = remap(rewardIDs, a.RewardID)
		if err := tx.Activities.Create(ctx, &a); err != nil {
			return fmt.Errorf("import activity %s: %w", orig, err)
		}
		activityIDs[orig] = a.ID
	}

	for i := range data.Logs {
		l := data.Logs[i]
		orig := l.ID
		id, err := claimID(ctx, tx.Logs.Exists, orig)
		if err != nil {
			return err
		}
		l.ID, l.UserID = id, user
		l.ActivityID = remap(activityIDs, l.ActivityID)
		l.RewardID = remap(rewardIDs, l.RewardID)
		if err := tx.Logs.Append(ctx, &l); err != nil {
			return fmt.Errorf("import log %s: %w", orig, err)
		}
	}

	if data.Settings != nil {
		st := *data.Settings
		st.UserID = user
		st.Language = i18n.Match(st.Language)
		if err := tx.Settings.Save(ctx, st); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}
	if data.ActiveSession != nil {
		sess := *data.ActiveSession
		sess.UserID = user
		sess.ActivityID = remap(activityIDs, sess.ActivityID)
		if err := tx.Sessions.Begin(ctx, &sess); err != nil {
			return fmt.Errorf("import active session: %w", err)
		}
	}
	return nil
}

// claimID returns id when no stored row uses it yet, or "" so the
// repository assigns a fresh one.
func claimID(ctx context.Context, exists func(context.Context, string) (bool, error), id string) (string, error) {
	if id == "" {
		return "", nil
	}
	taken, err := exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("check id %s: %w", id, err)
	}
	if taken {
		return "", nil
	}
	return id, nil
}

func remap(ids map[string]string, id string) string {
	if v, ok := ids[id]; ok {
		return v
	}
	return id
}

// LatestSnapshot returns the most recent automatic snapshot, or nil.
func (s *Service) LatestSnapshot(ctx context.Context, user string) (*store.Snapshot, error) {
	snap, err := s.repos.Snapshots.Latest(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// snapshot saves the current state under reason and prunes old ones.
// Callers hold the user lock.
func (s *Service) snapshot(ctx context.Context, user, reason string) error {
	data, err := s.Export(ctx, user)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", reason, err)
	}
	snap := &store.Snapshot{
		UserID:    user,
		Timestamp: s.now(),
		Reason:    reason,
		Data:      *data,
	}
	if err := s.repos.Snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("snapshot %s: %w", reason, err)
	}
	if err := s.repos.Snapshots.Prune(ctx, user, snapshotsKept); err != nil {
		logger.Warn("failed to prune snapshots", "user", user, "err", err)
	}
	return nil
}

// clearUser removes every activity, reward, log and the running session.
func clearUser(ctx context.Context, repos Repos, user string) error {
	logs, err := repos.Logs.List(ctx, user, store.LogQuery{})
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}
	for _, l := range logs {
		if err := repos.Logs.Delete(ctx, user, l.ID); err != nil {
			return fmt.Errorf("delete log %s: %w", l.ID, err)
		}
	}
	acts, err := repos.Activities.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	for _, a := range acts {
		if err := repos.Activities.Delete(ctx, user, a.ID); err != nil {
			return fmt.Errorf("delete activity %s: %w", a.ID, err)
		}
	}
	rewards, err := repos.Rewards.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list rewards: %w", err)
	}
	for _, r := range rewards {
		if err := repos.Rewards.Delete(ctx, user, r.ID); err != nil {
			return fmt.Errorf("delete reward %s: %w", r.ID, err)
		}
	}
	if err := repos.Sessions.Clear(ctx, user); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func validateSnapshot(data *store.SnapshotData) error {
	if data == nil {
		return fmt.Errorf("%w: empty backup", ErrInvalidInput)
	}
	if data.Version < 1 {
		return fmt.Errorf("%w: backup has no format version", ErrInvalidInput)
	}
	if data.Version > store.SnapshotVersion {
		return fmt.Errorf("%w: backup version %d is newer than supported version %d",
			ErrInvalidInput, data.Version, store.SnapshotVersion)
	}
	seen := make(map[string]bool)
	for _, a := range data.Activities {
		if a.ID == "" || strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: activity without id or name", ErrInvalidInput)
		}
		if seen[a.ID] {
			return fmt.Errorf("%w: duplicate activity id %s", ErrInvalidInput, a.ID)
		}
		seen[a.ID] = true
		if a.RewardMultiplier < 0 {
			return fmt.Errorf("%w: activity %s has a negative multiplier", ErrInvalidInput, a.ID)
		}
	}
	for _, l := range data.Logs {
		if l.Duration != l.EndTime-l.StartTime {
			return fmt.Errorf("%w: log %s duration does not match its start and end", ErrInvalidInput, l.ID)
		}
		if l.Duration < MinSessionDuration.Milliseconds() {
			return fmt.Errorf("%w: log %s is shorter than %s", ErrInvalidInput, l.ID, MinSessionDuration)
		}
		if l.DateStr == "" {
			return fmt.Errorf("%w: log %s has no date", ErrInvalidInput, l.ID)
		}
		if _, err := time.Parse("2006-01-02", l.DateStr); err != nil {
			return fmt.Errorf("%w: log %s date %q", ErrInvalidInput, l.ID, l.DateStr)
		}
	}
	return nil
}

// Package tracker owns session and reward bookkeeping: starting and
// stopping the activity timer, converting elapsed time into reward time,
// and the CRUD operations on activities, rewards, logs and settings.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/store"
)

// MinSessionDuration is the shortest session that gets logged.
const MinSessionDuration = time.Minute

// snapshotsKept is how many automatic snapshots are retained per user.
const snapshotsKept = 20

// Repos bundles the repositories the service depends on.
type Repos struct {
	Activities store.ActivityRepo
	Rewards    store.RewardRepo
	Logs       store.LogRepo
	Sessions   store.SessionRepo
	Settings   store.SettingsRepo
	Snapshots  store.SnapshotRepo

	// Tx runs fn with repositories bound to one transaction. When nil,
	// fn runs on these repositories directly.
	Tx func(ctx context.Context, fn func(tx Repos) error) error
}

// ReposFromStore returns the repositories backed by st.
func ReposFromStore(st *store.Store) Repos {
	return Repos{
		Activities: st.ActivityRepo(),
		Rewards:    st.RewardRepo(),
		Logs:       st.LogRepo(),
		Sessions:   st.SessionRepo(),
		Settings:   st.SettingsRepo(),
		Snapshots:  st.SnapshotRepo(),
		Tx: func(ctx context.Context, fn func(tx Repos) error) error {
			return st.WithTx(ctx, func(tx *store.Store) error {
				return fn(ReposFromStore(tx))
			})
		},
	}
}

func (r Repos) inTx(ctx context.Context, fn func(tx Repos) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx(ctx, fn)
}

// Service implements the tracker operations for any number of users.
type Service struct {
	repos Repos
	now   func() time.Time
	loc   *time.Location
	locks keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone used for "today" and log date strings.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a tracker service.
func NewService(repos Repos, opts ...Option) *Service {
	s := &Service{
		repos: repos,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now returns the service clock's current time in the configured zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the configured zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns today's date string.
func (s *Service) Today() string {
	return DateString(s.now(), s.loc)
}

// DateString formats t as YYYY-MM-DD in loc.
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// EarnedReward converts a session duration into reward time, both in
// milliseconds.
func EarnedReward(durationMs int64, multiplier float64) float64 {
	return float64(durationMs) * multiplier
}

// Status is the current timer state.
type Status struct {
	Session  *store.ActiveSession `json:"session"`
	Activity *store.Activity      `json:"activity,omitempty"`
	Elapsed  time.Duration        `json:"-"`
	// ElapsedMs mirrors Elapsed for JSON clients.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// Running reports whether a timer is active.
func (st Status) Running() bool { return st.Session != nil }

// Elapsed returns how long sess has been running at now. A start time in
// the future yields zero.
func Elapsed(sess *store.ActiveSession, now time.Time) time.Duration {
	if sess == nil {
		return 0
	}
	d := time.Duration(now.UnixMilli()-sess.StartTime) * time.Millisecond
	return max(d, 0)
}

// Start begins timing activityID for user.
func (s *Service) Start(ctx context.Context, user, activityID string) (*store.ActiveSession, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	cur, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}
	if cur != nil {
		return nil, ErrSessionActive
	}
	if _, err := s.activity(ctx, user, activityID); err != nil {
		return nil, err
	}

	sess := &store.ActiveSession{
		UserID:     user,
		ActivityID: activityID,
		StartTime:  s.now().UnixMilli(),
	}
	if err := s.repos.Sessions.Begin(ctx, sess); err != nil {
		if errors.Is(err, store.ErrSessionExists) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("begin session: %w", err)
	}
	logger.Info("session started", "user", user, "activity", activityID)
	return sess, nil
}

// Stop ends the running session. Sessions shorter than MinSessionDuration
// are cleared and return ErrSessionTooShort. Otherwise the log is written
// and the session cleared together, and the new log entry is returned; on
// a storage error the session stays in place.
func (s *Service) Stop(ctx context.Context, user string) (*store.LogEntry, error) {
	unlock := s.locks.lock(user)
	defer unlock()

	sess, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}
	if sess == nil {
		return nil, ErrNoActiveSession
	}

	end := s.now().UnixMilli()
	duration := max(end-sess.StartTime, 0)

	if duration < MinSessionDuration.Milliseconds() {
		if err := s.repos.Sessions.Clear(ctx, user); err != nil {
			return nil, fmt.Errorf("clear session: %w", err)
		}
		logger.Info("session discarded", "user", user, "activity", sess.ActivityID, "duration_ms", duration)
		return nil, ErrSessionTooShort
	}

	// A deleted activity still logs with multiplier 1 and no reward link.
	multiplier, rewardID := 1.0, ""
	act, err := s.repos.Activities.Get(ctx, user, sess.ActivityID)
	switch {
	case err == nil:
		multiplier, rewardID = act.RewardMultiplier, act.RewardID
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("stopping session of deleted activity", "user", user, "activity", sess.ActivityID)
	default:
		return nil, fmt.Errorf("load activity: %w", err)
	}

	entry := &store.LogEntry{
		UserID:       user,
		ActivityID:   sess.ActivityID,
		RewardID:     rewardID,
		StartTime:    sess.StartTime,
		EndTime:      sess.StartTime + duration,
		Duration:     duration,
		EarnedReward: EarnedReward(duration, multiplier),
		DateStr:      DateString(sess.Started(), s.loc),
	}
	// The session survives until its log is stored.
	err = s.repos.inTx(ctx, func(tx Repos) error {
		if err := tx.Logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("append log: %w", err)
		}
		if err := tx.Sessions.Clear(ctx, user); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("session logged", "user", user, "activity", entry.ActivityID,
		"duration_ms", entry.Duration, "earned_ms", entry.EarnedReward)
	return entry, nil
}

// Cancel drops the running session without logging it.
func (s *Service) Cancel(ctx context.Context, user string) error {
	unlock := s.locks.lock(user)
	defer unlock()

	sess, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return fmt.Errorf("load active session: %w", err)
	}
	if sess == nil {
		return ErrNoActiveSession
	}
	if err := s.repos.Sessions.Clear(ctx, user); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logger.Info("session cancelled", "user", user, "activity", sess.ActivityID)
	return nil
}

// Active returns the running session, or nil.
func (s *Service) Active(ctx context.Context, user string) (*store.ActiveSession, error) {
	sess, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}
	return sess, nil
}

// Status returns the running session with its activity and elapsed time.
func (s *Service) Status(ctx context.Context, user string) (Status, error) {
	sess, err := s.Active(ctx, user)
	if err != nil || sess == nil {
		return Status{}, err
	}
	elapsed := Elapsed(sess, s.now())
	st := Status{Session: sess, Elapsed: elapsed, ElapsedMs: elapsed.Milliseconds()}
	act, err := s.repos.Activities.Get(ctx, user, sess.ActivityID)
	switch {
	case err == nil:
		st.Activity = act
	case !errors.Is(err, store.ErrNotFound):
		return Status{}, fmt.Errorf("load activity: %w", err)
	}
	return st, nil
}

// keyedMutex serializes operations per user. Entries are dropped once no
// caller holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

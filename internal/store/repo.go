package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrSessionExists is returned when a user already has a running timer.
var ErrSessionExists = errors.New("active session already exists")

// Activity is a trackable task a child can time.
type Activity struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon"`
	Color            string     `json:"color"`
	RewardMultiplier float64    `json:"reward_multiplier"`
	RewardID         string     `json:"reward_id,omitempty"`
	Goal             WeeklyGoal `json:"goal"`
	CreatedAt        int64      `json:"created_at"` // unix ms
}

// WeeklyGoal is a per-activity target for the Monday–Sunday week.
type WeeklyGoal struct {
	Enabled           bool `json:"enabled"`
	Sessions          int  `json:"sessions"`
	MinutesPerSession int  `json:"minutes_per_session"`
}

// Active reports whether the goal participates in progress tracking.
func (g WeeklyGoal) Active() bool {
	return g.Enabled && g.Sessions > 0
}

// Reward is a named bucket that earned time accrues into.
type Reward struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	CreatedAt int64  `json:"created_at"` // unix ms
}

// LogEntry is an immutable record of one completed activity session.
// Times and durations are in milliseconds.
type LogEntry struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	ActivityID   string  `json:"activity_id"`
	RewardID     string  `json:"reward_id,omitempty"`
	StartTime    int64   `json:"start_time"`
	EndTime      int64   `json:"end_time"`
	Duration     int64   `json:"duration"`
	EarnedReward float64 `json:"earned_reward"`
	DateStr      string  `json:"date_str"` // YYYY-MM-DD of StartTime
}

// ActiveSession is the currently running, not yet logged timer.
type ActiveSession struct {
	UserID     string `json:"user_id"`
	ActivityID string `json:"activity_id"`
	StartTime  int64  `json:"start_time"` // unix ms
}

// Started returns the session start as a time.Time.
func (s ActiveSession) Started() time.Time {
	return time.UnixMilli(s.StartTime)
}

// Settings holds per-user preferences.
type Settings struct {
	UserID       string `json:"user_id"`
	RewardName   string `json:"reward_name"`
	Language     string `json:"language"`
	VoiceEnabled bool   `json:"voice_enabled"`
}

// DefaultSettings returns the settings used when a user has none saved.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:       userID,
		RewardName:   "Reward",
		Language:     "zh",
		VoiceEnabled: true,
	}
}

// LogQuery filters log listings. Zero values mean "no filter".
type LogQuery struct {
	Date       string // exact YYYY-MM-DD
	From       string // YYYY-MM-DD inclusive
	To         string // YYYY-MM-DD inclusive
	ActivityID string
	Limit      int // max results (0 = unlimited)
}

// QueryOpts configures event queries with pagination.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// SnapshotVersion is the current full-state snapshot format version.
const SnapshotVersion = 1

// SnapshotData captures a user's full state at a point in time.
type SnapshotData struct {
	Version       int            `json:"version"`
	Activities    []Activity     `json:"activities"`
	Rewards       []Reward       `json:"rewards"`
	Logs          []LogEntry     `json:"logs"`
	Settings      *Settings      `json:"settings,omitempty"`
	ActiveSession *ActiveSession `json:"active_session,omitempty"`
}

// Snapshot represents a point-in-time capture of user state.
type Snapshot struct {
	ID        int64
	UserID    string
	Timestamp time.Time
	Reason    string
	Data      SnapshotData
}

// ActivityRepo manages activities.
type ActivityRepo interface {
	// Create inserts a new activity, assigning ID and CreatedAt when unset.
	Create(ctx context.Context, a *Activity) error
	// Get returns ErrNotFound if the activity does not exist for the user.
	Get(ctx context.Context, userID, id string) (*Activity, error)
	// List returns the user's activities in creation order.
	List(ctx context.Context, userID string) ([]Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, userID, id string) error
	// Exists reports whether any user owns an activity with id.
	Exists(ctx context.Context, id string) (bool, error)
}

// RewardRepo manages reward buckets.
type RewardRepo interface {
	Create(ctx context.Context, r *Reward) error
	Get(ctx context.Context, userID, id string) (*Reward, error)
	List(ctx context.Context, userID string) ([]Reward, error)
	Delete(ctx context.Context, userID, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// LogRepo manages completed session logs.
type LogRepo interface {
	Append(ctx context.Context, l *LogEntry) error
	// List returns matching logs ordered by start time, newest first.
	List(ctx context.Context, userID string, q LogQuery) ([]LogEntry, error)
	Delete(ctx context.Context, userID, id string) error
	// DeleteByDate removes every log of the user dated date and reports
	// how many were removed.
	DeleteByDate(ctx context.Context, userID, date string) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// SessionRepo persists the in-progress timer.
type SessionRepo interface {
	// Get returns the user's active session, or nil if none is running.
	Get(ctx context.Context, userID string) (*ActiveSession, error)
	// Begin stores a new session. Returns ErrSessionExists if one is
	// already stored for the user.
	Begin(ctx context.Context, s *ActiveSession) error
	// Clear removes the user's session. Clearing a missing session is not
	// an error.
	Clear(ctx context.Context, userID string) error
}

// SettingsRepo manages per-user settings.
type SettingsRepo interface {
	// Get returns the stored settings or DefaultSettings when none exist.
	Get(ctx context.Context, userID string) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// SnapshotRepo manages full-state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot of the user, or nil if none exist.
	Latest(ctx context.Context, userID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots of the user.
	Prune(ctx context.Context, userID string, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose or model.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	// GetLLMEvent returns nil if the event does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)
}

package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions used by auto-migration. Column order matters: the
// repositories select columns in the same order they are declared here.

var (
	// ActivitiesColumns holds the columns for the "activities" table.
	ActivitiesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "icon", Type: field.TypeString, Default: ""},
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "reward_multiplier", Type: field.TypeFloat64, Default: 1},
		{Name: "reward_id", Type: field.TypeString, Nullable: true},
		{Name: "is_goal_enabled", Type: field.TypeBool, Default: false},
		{Name: "weekly_goal_sessions", Type: field.TypeInt, Default: 0},
		{Name: "goal_duration_minutes", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// ActivitiesTable holds the schema information for the "activities" table.
	ActivitiesTable = &schema.Table{
		Name:       "activities",
		Columns:    ActivitiesColumns,
		PrimaryKey: []*schema.Column{ActivitiesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "activity_user_id", Columns: []*schema.Column{ActivitiesColumns[1]}},
		},
	}

	// RewardsColumns holds the columns for the "rewards" table.
	RewardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "icon", Type: field.TypeString, Default: "🏆"},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// RewardsTable holds the schema information for the "rewards" table.
	RewardsTable = &schema.Table{
		Name:       "rewards",
		Columns:    RewardsColumns,
		PrimaryKey: []*schema.Column{RewardsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "reward_user_id", Columns: []*schema.Column{RewardsColumns[1]}},
		},
	}

	// LogsColumns holds the columns for the "logs" table.
	LogsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "activity_id", Type: field.TypeString},
		{Name: "reward_id", Type: field.TypeString, Nullable: true},
		{Name: "start_time", Type: field.TypeInt64},
		{Name: "end_time", Type: field.TypeInt64},
		{Name: "duration", Type: field.TypeInt64},
		{Name: "earned_reward", Type: field.TypeFloat64, Default: 0},
		{Name: "date_str", Type: field.TypeString},
	}
	// LogsTable holds the schema information for the "logs" table.
	LogsTable = &schema.Table{
		Name:       "logs",
		Columns:    LogsColumns,
		PrimaryKey: []*schema.Column{LogsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "log_user_id_date_str", Columns: []*schema.Column{LogsColumns[1], LogsColumns[8]}},
			{Name: "log_user_id_activity_id", Columns: []*schema.Column{LogsColumns[1], LogsColumns[2]}},
		},
	}

	// ActiveSessionsColumns holds the columns for the "active_sessions" table.
	// The primary key on user_id allows at most one running timer per user.
	ActiveSessionsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "activity_id", Type: field.TypeString},
		{Name: "start_time", Type: field.TypeInt64},
	}
	// ActiveSessionsTable holds the schema information for the "active_sessions" table.
	ActiveSessionsTable = &schema.Table{
		Name:       "active_sessions",
		Columns:    ActiveSessionsColumns,
		PrimaryKey: []*schema.Column{ActiveSessionsColumns[0]},
	}

	// SettingsColumns holds the columns for the "settings" table.
	SettingsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "reward_name", Type: field.TypeString, Default: ""},
		{Name: "language", Type: field.TypeString, Default: ""},
		{Name: "voice_enabled", Type: field.TypeBool, Default: true},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &schema.Table{
		Name:       "settings",
		Columns:    SettingsColumns,
		PrimaryKey: []*schema.Column{SettingsColumns[0]},
	}

	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "reason", Type: field.TypeString, Default: ""},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_user_id_timestamp", Columns: []*schema.Column{SnapshotsColumns[1], SnapshotsColumns[2]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[4]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LlmRequestEventsColumns[1]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ActivitiesTable,
		RewardsTable,
		LogsTable,
		ActiveSessionsTable,
		SettingsTable,
		SnapshotsTable,
		LlmRequestEventsTable,
	}
)

// columnNames returns the names of cols in declaration order.
func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

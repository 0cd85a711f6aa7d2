package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// settingsRepo implements SettingsRepo.
type settingsRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *settingsRepo) Get(ctx context.Context, userID string) (Settings, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(SettingsColumns)...).
		From(r.b.Table(SettingsTable.Name)).
		Where(entsql.EQ("user_id", userID)))

	var s Settings
	if err := row.Scan(&s.UserID, &s.RewardName, &s.Language, &s.VoiceEnabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DefaultSettings(userID), nil
		}
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Save(ctx context.Context, s Settings) error {
	_, err := execQuery(ctx, r.db, r.b.Insert(SettingsTable.Name).
		Columns(columnNames(SettingsColumns)...).
		Values(s.UserID, s.RewardName, s.Language, s.VoiceEnabled).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

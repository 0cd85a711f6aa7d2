package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// activityRepo implements ActivityRepo.
type activityRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *activityRepo) Create(ctx context.Context, a *Activity) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = nowMillis()
	}

	_, err := execQuery(ctx, r.db, r.b.Insert(ActivitiesTable.Name).
		Columns(columnNames(ActivitiesColumns)...).
		Values(
			a.ID, a.UserID, a.Name, a.Icon, a.Color, a.RewardMultiplier,
			nullable(a.RewardID), a.Goal.Enabled, a.Goal.Sessions,
			a.Goal.MinutesPerSession, a.CreatedAt,
		))
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *activityRepo) Get(ctx context.Context, userID, id string) (*Activity, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(ActivitiesColumns)...).
		From(r.b.Table(ActivitiesTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id))))

	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query activity: %w", err)
	}
	return &a, nil
}

func (r *activityRepo) List(ctx context.Context, userID string) ([]Activity, error) {
	rows, err := queryRows(ctx, r.db, r.b.Select(columnNames(ActivitiesColumns)...).
		From(r.b.Table(ActivitiesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("created_at", "id"))
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *activityRepo) Update(ctx context.Context, a *Activity) error {
	res, err := execQuery(ctx, r.db, r.b.Update(ActivitiesTable.Name).
		Set("name", a.Name).
		Set("icon", a.Icon).
		Set("color", a.Color).
		Set("reward_multiplier", a.RewardMultiplier).
		Set("reward_id", nullable(a.RewardID)).
		Set("is_goal_enabled", a.Goal.Enabled).
		Set("weekly_goal_sessions", a.Goal.Sessions).
		Set("goal_duration_minutes", a.Goal.MinutesPerSession).
		Where(entsql.And(entsql.EQ("user_id", a.UserID), entsql.EQ("id", a.ID))))
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return requireAffected(res)
}

func (r *activityRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := execQuery(ctx, r.db, r.b.Delete(ActivitiesTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id))))
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return requireAffected(res)
}

func scanActivity(s rowScanner) (Activity, error) {
	var (
		a        Activity
		rewardID sql.NullString
	)
	err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Icon, &a.Color, &a.RewardMultiplier,
		&rewardID, &a.Goal.Enabled, &a.Goal.Sessions, &a.Goal.MinutesPerSession,
		&a.CreatedAt,
	)
	a.RewardID = rewardID.String
	return a, err
}

func (r *activityRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, r.b, ActivitiesTable.Name, id)
}

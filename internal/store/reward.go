package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// rewardRepo implements RewardRepo.
type rewardRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *rewardRepo) Create(ctx context.Context, rw *Reward) error {
	if rw.ID == "" {
		rw.ID = newID()
	}
	if rw.CreatedAt == 0 {
		rw.CreatedAt = nowMillis()
	}
	if rw.Icon == "" {
		rw.Icon = "🏆"
	}

	_, err := execQuery(ctx, r.db, r.b.Insert(RewardsTable.Name).
		Columns(columnNames(RewardsColumns)...).
		Values(rw.ID, rw.UserID, rw.Name, rw.Icon, rw.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}
	return nil
}

func (r *rewardRepo) Get(ctx context.Context, userID, id string) (*Reward, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(RewardsColumns)...).
		From(r.b.Table(RewardsTable.Name)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id))))

	var rw Reward
	if err := row.Scan(&rw.ID, &rw.UserID, &rw.Name, &rw.Icon, &rw.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query reward: %w", err)
	}
	return &rw, nil
}

func (r *rewardRepo) List(ctx context.Context, userID string) ([]Reward, error) {
	rows, err := queryRows(ctx, r.db, r.b.Select(columnNames(RewardsColumns)...).
		From(r.b.Table(RewardsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("created_at", "id"))
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rows.Close()

	var out []Reward
	for rows.Next() {
		var rw Reward
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Name, &rw.Icon, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *rewardRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := execQuery(ctx, r.db, r.b.Delete(RewardsTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id))))
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return requireAffected(res)
}

func (r *rewardRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, r.b, RewardsTable.Name, id)
}

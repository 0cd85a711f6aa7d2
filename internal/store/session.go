package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// sessionRepo implements SessionRepo. The primary key on user_id is what
// enforces a single running timer per user, even across processes.
type sessionRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *sessionRepo) Get(ctx context.Context, userID string) (*ActiveSession, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(ActiveSessionsColumns)...).
		From(r.b.Table(ActiveSessionsTable.Name)).
		Where(entsql.EQ("user_id", userID)))

	var s ActiveSession
	if err := row.Scan(&s.UserID, &s.ActivityID, &s.StartTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query active session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepo) Begin(ctx context.Context, s *ActiveSession) error {
	res, err := execQuery(ctx, r.db, r.b.Insert(ActiveSessionsTable.Name).
		Columns(columnNames(ActiveSessionsColumns)...).
		Values(s.UserID, s.ActivityID, s.StartTime).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()))
	if err != nil {
		return fmt.Errorf("insert active session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrSessionExists
	}
	return nil
}

func (r *sessionRepo) Clear(ctx context.Context, userID string) error {
	_, err := execQuery(ctx, r.db, r.b.Delete(ActiveSessionsTable.Name).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}

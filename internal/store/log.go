package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// logRepo implements LogRepo.
type logRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *logRepo) Append(ctx context.Context, l *LogEntry) error {
	if l.ID == "" {
		l.ID = newID()
	}

	_, err := execQuery(ctx, r.db, r.b.Insert(LogsTable.Name).
		Columns(columnNames(LogsColumns)...).
		Values(
			l.ID, l.UserID, l.ActivityID, nullable(l.RewardID), l.StartTime,
			l.EndTime, l.Duration, l.EarnedReward, l.DateStr,
		))
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (r *logRepo) List(ctx context.Context, userID string, q LogQuery) ([]LogEntry, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if q.Date != "" {
		preds = append(preds, entsql.EQ("date_str", q.Date))
	}
	if q.From != "" {
		preds = append(preds, entsql.GTE("date_str", q.From))
	}
	if q.To != "" {
		preds = append(preds, entsql.LTE("date_str", q.To))
	}
	if q.ActivityID != "" {
		preds = append(preds, entsql.EQ("activity_id", q.ActivityID))
	}

	sel := r.b.Select(columnNames(LogsColumns)...).
		From(r.b.Table(LogsTable.Name)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("start_time"), entsql.Desc("id"))
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var (
			l        LogEntry
			rewardID sql.NullString
		)
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ActivityID, &rewardID, &l.StartTime,
			&l.EndTime, &l.Duration, &l.EarnedReward, &l.DateStr,
		); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		l.RewardID = rewardID.String
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *logRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := execQuery(ctx, r.db, r.b.Delete(LogsTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("id", id))))
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return requireAffected(res)
}

func (r *logRepo) DeleteByDate(ctx context.Context, userID, date string) (int64, error) {
	res, err := execQuery(ctx, r.db, r.b.Delete(LogsTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("date_str", date))))
	if err != nil {
		return 0, fmt.Errorf("delete logs by date: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *logRepo) Exists(ctx context.Context, id string) (bool, error) {
	return rowExists(ctx, r.db, r.b, LogsTable.Name, id)
}

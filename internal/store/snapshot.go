package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo. Snapshot data is stored as a JSON
// text column so the same schema works on SQLite and Postgres.
type snapshotRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Data.Version == 0 {
		snap.Data.Version = SnapshotVersion
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	_, err = execQuery(ctx, r.db, r.b.Insert(SnapshotsTable.Name).
		Columns(columnNames(SnapshotsColumns[1:])...).
		Values(snap.UserID, snap.Timestamp.UnixMilli(), snap.Reason, string(data)))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, userID string) (*Snapshot, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(SnapshotsColumns)...).
		From(r.b.Table(SnapshotsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id")).
		Limit(1))

	var (
		s    Snapshot
		ts   int64
		data string
	)
	if err := row.Scan(&s.ID, &s.UserID, &ts, &s.Reason, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	s.Timestamp = time.UnixMilli(ts)
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, userID string, keep int) error {
	// Find the ID threshold: the first snapshot past the ones we keep.
	row := queryRow(ctx, r.db, r.b.Select("id").
		From(r.b.Table(SnapshotsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1))

	var threshold int64
	if err := row.Scan(&threshold); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil // fewer than keep snapshots exist
		}
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	_, err := execQuery(ctx, r.db, r.b.Delete(SnapshotsTable.Name).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.LTE("id", threshold))))
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// querier is implemented by every ent SQL builder.
type querier interface {
	Query() (string, []any)
}

// conn is satisfied by *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func execQuery(ctx context.Context, db conn, q querier) (sql.Result, error) {
	query, args := q.Query()
	return db.ExecContext(ctx, query, args...)
}

func queryRows(ctx context.Context, db conn, q querier) (*sql.Rows, error) {
	query, args := q.Query()
	return db.QueryContext(ctx, query, args...)
}

func queryRow(ctx context.Context, db conn, q querier) *sql.Row {
	query, args := q.Query()
	return db.QueryRowContext(ctx, query, args...)
}

// rowExists reports whether table holds a row with id, for any user.
func rowExists(ctx context.Context, db conn, b *entsql.DialectBuilder, table, id string) (bool, error) {
	var n int
	err := queryRow(ctx, db, b.Select(entsql.Count("*")).
		From(b.Table(table)).
		Where(entsql.EQ("id", id))).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query %s id: %w", table, err)
	}
	return n > 0, nil
}

// requireAffected maps a zero-row update or delete to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// newID returns a time-ordered UUIDv7, so rows created within the same
// millisecond still sort in insertion order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

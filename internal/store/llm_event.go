package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo.
type eventRepo struct {
	db conn
	b  *entsql.DialectBuilder
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := execQuery(ctx, r.db, r.b.Insert(LlmRequestEventsTable.Name).
		Columns(columnNames(LlmRequestEventsColumns[1:])...).
		Values(
			nowMillis(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		))
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := r.b.Select(columnNames(LlmRequestEventsColumns)...).
		From(r.b.Table(LlmRequestEventsTable.Name)).
		OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error) {
	row := queryRow(ctx, r.db, r.b.Select(columnNames(LlmRequestEventsColumns)...).
		From(r.b.Table(LlmRequestEventsTable.Name)).
		Where(entsql.EQ("id", id)))

	rec, err := scanLLMEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query LLM event: %w", err)
	}
	return &rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	return r.usageBy(ctx, "purpose", func(s *LLMUsageStats) any { return &s.Purpose })
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error) {
	return r.usageBy(ctx, "model", func(s *LLMUsageStats) any { return &s.Model })
}

// usageBy aggregates token and latency totals grouped by one column.
func (r *eventRepo) usageBy(ctx context.Context, column string, key func(*LLMUsageStats) any) ([]LLMUsageStats, error) {
	rows, err := queryRows(ctx, r.db, r.b.Select(
		column,
		entsql.Count("*"),
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Avg("latency_ms"),
	).
		From(r.b.Table(LlmRequestEventsTable.Name)).
		GroupBy(column).
		OrderBy(column))
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			s          LLMUsageStats
			avgLatency float64
		)
		if err := rows.Scan(key(&s), &s.Calls, &s.InputTokens, &s.OutputTokens, &avgLatency); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		s.AvgLatencyMs = int64(avgLatency)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanLLMEvent(s rowScanner) (LLMRequestEventRecord, error) {
	var (
		rec LLMRequestEventRecord
		ts  int64
	)
	err := s.Scan(
		&rec.ID, &ts, &rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success,
		&rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	rec.Timestamp = time.UnixMilli(ts)
	return rec, err
}

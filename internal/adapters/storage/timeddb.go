package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"aula/internal/adapters/http/perf"
)

// SQLDB is the database interface used by the preference store.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the threshold above which a query is logged as slow.
const DefaultSlowQuery = 50 * time.Millisecond

// QueryObserver receives every query duration, labeled by operation.
type QueryObserver func(op string, d time.Duration)

// TimingOptions configures a TimedDB. The zero value logs with the default
// threshold and records nowhere.
type TimingOptions struct {
	Collector *perf.Collector
	SlowQuery time.Duration
	Observe   QueryObserver
}

// TimedDB wraps a *sql.DB to log slow queries and report every timing to the
// perf collector and an optional observer.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	observe   QueryObserver
	threshold time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: returns a TimedDB that logs slow queries and reports timings
func NewTimedDB(db *sql.DB, opts TimingOptions) *TimedDB {
	threshold := opts.SlowQuery
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	return &TimedDB{
		db:        db,
		collector: opts.Collector,
		observe:   opts.Observe,
		threshold: threshold,
	}
}

// RawDB returns the underlying *sql.DB.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) logQuery(op string, start time.Time) {
	d := time.Since(start)
	durationMs := float64(d.Microseconds()) / 1000.0

	if d >= t.threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
	if t.observe != nil {
		t.observe(op, d)
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
// POST: timing is reported even when the statement fails
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("exec", start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("query", start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("query_row", start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("begin_tx", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

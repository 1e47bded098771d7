package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

type Entry struct {
	ID         int64
	TraceID    string
	Method     string
	Query      string
	Outcome    string
	Error      string
	DurationMS int64
	CreatedAt  time.Time
}

type Repository interface {
	Migrate(ctx context.Context) error
	Record(ctx context.Context, e Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS search_history (
	id          BIGSERIAL PRIMARY KEY,
	trace_id    TEXT NOT NULL DEFAULT '',
	method      TEXT NOT NULL,
	query       TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	error       TEXT,
	duration_ms BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type dbEntry struct {
	ID         int64     `db:"id"`
	TraceID    string    `db:"trace_id"`
	Method     string    `db:"method"`
	Query      string    `db:"query"`
	Outcome    string    `db:"outcome"`
	Error      *string   `db:"error"`
	DurationMS int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

type pgRepo struct {
	db *sqlx.DB
}

var _ Repository = (*pgRepo)(nil)

func NewPgRepository(db *sql.DB) *pgRepo {
	return &pgRepo{db: sqlx.NewDb(db, "postgres")}
}

func (r *pgRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create search_history: %w", err)
	}

	return nil
}

// Record stores one relayed call. Query must already be free of secrets.
func (r *pgRepo) Record(ctx context.Context, e Entry) error {
	var errText *string
	if e.Error != "" {
		errText = &e.Error
	}

	query := `
	INSERT INTO search_history (trace_id, method, query, outcome, error, duration_ms)
	VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := r.db.ExecContext(ctx, query, e.TraceID, e.Method, e.Query, e.Outcome, errText, e.DurationMS)
	if err != nil {
		return fmt.Errorf("insert search_history: %w", err)
	}

	return nil
}

func (r *pgRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	var rows []dbEntry

	query := `
	SELECT id, trace_id, method, query, outcome, error, duration_ms, created_at
	FROM search_history
	ORDER BY created_at DESC, id DESC
	LIMIT $1;`

	err := r.db.SelectContext(ctx, &rows, query, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select search_history: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].Map()
	}

	return entries, nil
}

func (e dbEntry) Map() Entry {
	entry := Entry{
		ID:         e.ID,
		TraceID:    e.TraceID,
		Method:     e.Method,
		Query:      e.Query,
		Outcome:    e.Outcome,
		DurationMS: e.DurationMS,
		CreatedAt:  e.CreatedAt,
	}

	if e.Error != nil {
		entry.Error = *e.Error
	}

	return entry
}

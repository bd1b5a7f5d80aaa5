// Package sqlite provides a SQLite-backed implementation of dispatchlog.Repository.
//
// WAL mode is enabled on Open so that the confirm handler can append while
// operators read the log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/menu-cart/internal/dispatchlog"

	// Pure-Go driver, registered as "sqlite"; no CGO needed in the container.
	_ "modernc.org/sqlite"
)

// ErrNotFound aliases dispatchlog.ErrNotFound for callers of this package.
var ErrNotFound = dispatchlog.ErrNotFound

var (
	_ dispatchlog.Repository = (*Repository)(nil)
	_ dispatchlog.Reader     = (*Repository)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS order_dispatches (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    dispatch_id     TEXT        NOT NULL UNIQUE,
    session_id      TEXT        NOT NULL,
    channel         TEXT        NOT NULL,
    message         TEXT        NOT NULL,
    -- Deep link; NULL for dialog checkouts.
    link            TEXT,
    total_quantity  INTEGER     NOT NULL,
    total_price     INTEGER     NOT NULL,
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    -- RFC3339 stored as TEXT.
    created_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_dispatches_session ON order_dispatches(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_order_dispatches_trace ON order_dispatches(trace_id);
`

// Repository is the SQLite implementation of dispatchlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/dispatch.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new dispatch entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *dispatchlog.Dispatch) error {
	const q = `
		INSERT INTO order_dispatches
			(dispatch_id, session_id, channel, message, link, total_quantity, total_price, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.SessionID,
		string(entry.Channel),
		entry.Message,
		nullableString(entry.Link),
		entry.TotalQuantity,
		entry.TotalPrice,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save dispatch for session %q: %w", entry.SessionID, err)
	}
	return nil
}

// GetLatest returns the most recent dispatch of a session.
func (r *Repository) GetLatest(ctx context.Context, sessionID string) (*dispatchlog.Dispatch, error) {
	const q = `
		SELECT dispatch_id, session_id, channel, message, COALESCE(link,''),
		       total_quantity, total_price, trace_id, span_id, created_at
		FROM   order_dispatches
		WHERE  session_id = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  1`

	var (
		entry     dispatchlog.Dispatch
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, q, sessionID).Scan(
		&entry.ID,
		&entry.SessionID,
		&entry.Channel,
		&entry.Message,
		&entry.Link,
		&entry.TotalQuantity,
		&entry.TotalPrice,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %q", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", sessionID, err)
	}

	entry.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountBySession returns how many orders a session has handed off.
func (r *Repository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_dispatches WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count dispatches for %q: %w", sessionID, err)
	}
	return n, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

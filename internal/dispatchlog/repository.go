package dispatchlog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session has no dispatch rows.
var ErrNotFound = errors.New("dispatchlog: dispatch not found")

// Repository persists dispatch entries.
type Repository interface {
	// Save appends a new entry; existing rows are never updated.
	Save(ctx context.Context, entry *Dispatch) error
}

// Reader answers read-only queries over the log.
type Reader interface {
	// GetLatest returns ErrNotFound when the session never confirmed an order.
	GetLatest(ctx context.Context, sessionID string) (*Dispatch, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

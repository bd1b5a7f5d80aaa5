package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
)

// ErrSessionNotFound is returned when a session id is unknown or has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps page-session snapshots for at most ttl after their last save.
type SessionStore interface {
	Load(ctx context.Context, id string) (*domain.SessionSnapshot, error)
	Save(ctx context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// Touch restarts the ttl of a stored session without rewriting it.
	Touch(ctx context.Context, id string, ttl time.Duration) error
}

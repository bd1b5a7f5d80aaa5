// Package service drives page sessions: it loads a session, applies one intent,
// stores the result and hands confirmed orders to the dispatch log.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog"
)

const DefaultSessionTTL = 2 * time.Hour

// CartService owns every page session of the process.
type CartService struct {
	store     ports.SessionStore
	formatter domain.CurrencyFormatter
	builder   *summary.Builder
	dispatch  dispatchlog.Repository // nil-safe: hand-offs are not logged if nil
	ttl       time.Duration
	metrics   *metrics
	tracer    trace.Tracer
	now       func() time.Time

	// locks serialises intents per session id.
	locks sync.Map
}

// NewCartService wires the service. dispatch may be nil.
func NewCartService(
	store ports.SessionStore,
	f domain.CurrencyFormatter,
	b *summary.Builder,
	dispatch dispatchlog.Repository,
	ttl time.Duration,
) (*CartService, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("service: register metrics: %w", err)
	}

	return &CartService{
		store:     store,
		formatter: f,
		builder:   b,
		dispatch:  dispatch,
		ttl:       ttl,
		metrics:   m,
		tracer:    otel.Tracer(instrumentationName),
		now:       time.Now,
	}, nil
}

// CreateSession starts an empty page session.
func (s *CartService) CreateSession(ctx context.Context) (string, Result, error) {
	sess := newSession(uuid.NewString())
	if err := s.save(ctx, sess); err != nil {
		return "", Result{}, err
	}

	slog.InfoContext(ctx, "session created", "session_id", sess.id)
	return sess.id, Result{View: sess.cart.View()}, nil
}

// View returns the current render model of a session without changing it.
func (s *CartService) View(ctx context.Context, id string) (Result, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if err := s.store.Touch(ctx, id, s.ttl); err != nil {
		return Result{}, err
	}
	return Result{View: sess.cart.View(), Pending: sess.pending}, nil
}

// Dispatch applies one intent to the session and returns the new render model.
// Errors are reserved for unknown sessions and storage failures; an intent the
// cart cannot honour comes back with Applied=false.
func (s *CartService) Dispatch(ctx context.Context, id string, in Intent) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "cart."+IntentName(in), trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			s.locks.Delete(id)
		}
		span.RecordError(err)
		return Result{}, err
	}

	r := sess.apply(in, s.formatter, s.builder)
	span.SetAttributes(attribute.Bool("intent.applied", r.Applied))

	// A rejected intent still counts as activity and keeps the session alive.
	if r.Applied {
		err = s.save(ctx, sess)
	} else {
		err = s.store.Touch(ctx, id, s.ttl)
	}
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	if r.Confirmed {
		s.recordDispatch(ctx, id, r.Summary)
	}

	s.metrics.record(ctx, in, r)
	slog.DebugContext(ctx, "intent handled",
		"session_id", id,
		"intent", IntentName(in),
		"applied", r.Applied,
		"lines", len(r.View.Lines),
	)
	return r, nil
}

// EndSession forgets a session.
func (s *CartService) EndSession(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	defer s.locks.Delete(id)

	return s.store.Delete(ctx, id)
}

func (s *CartService) recordDispatch(ctx context.Context, sessionID string, sum *summary.Summary) {
	slog.InfoContext(ctx, "order confirmed",
		"session_id", sessionID,
		"mode", sum.Mode,
		"total_quantity", sum.TotalQuantity,
		"total", sum.Total,
	)
	if s.dispatch == nil {
		return
	}

	channel := dispatchlog.ChannelMessage
	if sum.Mode == summary.ModeDialog {
		channel = dispatchlog.ChannelDialog
	}
	entry := dispatchlog.NewEntry(ctx, sessionID, channel, sum.Text, sum.Link, sum.TotalQuantity, sum.Total)
	if err := s.dispatch.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to record order dispatch",
			"session_id", sessionID,
			"dispatch_id", entry.ID,
			"error", err,
		)
	}
}

func (s *CartService) load(ctx context.Context, id string) (*session, error) {
	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return restoreSession(snap), nil
}

func (s *CartService) save(ctx context.Context, sess *session) error {
	snap := sess.snapshot()
	snap.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, snap, s.ttl)
}

func (s *CartService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
)

func sampleSnapshot(id string) *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		ID: id,
		Lines: []domain.LineItem{
			{Key: domain.LineKey("Bandeja", ""), Name: "Bandeja", UnitPrice: 25000, Options: domain.StandardPreparation, Quantity: 2},
		},
		Pending: &domain.PendingCustomization{
			Dish: domain.Dish{Name: "Mojarra", BasePrice: 30000, CoconutSurcharge: 2000, RiceApplicable: true},
		},
		UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	snap := sampleSnapshot("s1")

	require.NoError(t, store.Save(ctx, snap, time.Hour))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, snap, got)

	// Mutating the loaded copy must not leak into the store.
	got.Lines[0].Quantity = 99
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, again.Lines[0].Quantity)
}

func TestMemoryUnknownSession(t *testing.T) {
	t.Parallel()

	_, err := NewMemory().Load(context.Background(), "nope")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot("s1"), time.Minute))
	require.NoError(t, store.Save(ctx, sampleSnapshot("s2"), time.Hour))

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Load(ctx, "s2")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	require.Equal(t, 1, store.Sweep())
}

func TestMemoryDelete(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleSnapshot("s1"), 0))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Load(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemoryTouchExtendsExpiry(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot("s1"), time.Hour))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Touch(ctx, "s1", time.Hour))

	now = now.Add(50 * time.Minute)
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	require.ErrorIs(t, store.Touch(ctx, "s1", time.Hour), ports.ErrSessionNotFound)
	require.ErrorIs(t, store.Touch(ctx, "missing", time.Hour), ports.ErrSessionNotFound)
}

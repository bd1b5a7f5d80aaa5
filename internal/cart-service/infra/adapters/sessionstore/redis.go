package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
)

var _ ports.SessionStore = (*Redis)(nil)

// Redis stores snapshots as JSON under "<service>:session:<id>" with a TTL,
// so several service instances can serve the same page session.
type Redis struct {
	client      *redis.Client
	serviceName string
}

func NewRedis(addr, serviceName string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}), serviceName)
}

func NewRedisWithClient(client *redis.Client, serviceName string) *Redis {
	return &Redis{client: client, serviceName: serviceName}
}

// Ping checks connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Load(ctx context.Context, id string) (*domain.SessionSnapshot, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: redis get %q: %w", id, err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("sessionstore: decode %q: %w", id, err)
	}
	return &snap, nil
}

func (r *Redis) Save(ctx context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sessionstore: encode %q: %w", snap.ID, err)
	}
	if err := r.client.Set(ctx, r.key(snap.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("sessionstore: redis set %q: %w", snap.ID, err)
	}
	return nil
}

func (r *Redis) Touch(ctx context.Context, id string, ttl time.Duration) error {
	var (
		ok  bool
		err error
	)
	if ttl > 0 {
		ok, err = r.client.Expire(ctx, r.key(id), ttl).Result()
	} else {
		ok, err = r.client.Persist(ctx, r.key(id)).Result()
		if err == nil && !ok {
			// PERSIST also reports false for a key without a ttl.
			n, existsErr := r.client.Exists(ctx, r.key(id)).Result()
			ok, err = n == 1, existsErr
		}
	}
	if err != nil {
		return fmt.Errorf("sessionstore: redis expire %q: %w", id, err)
	}
	if !ok {
		return ports.ErrSessionNotFound
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("sessionstore: redis del %q: %w", id, err)
	}
	return nil
}

func (r *Redis) key(id string) string {
	return fmt.Sprintf("%s:session:%s", r.serviceName, id)
}

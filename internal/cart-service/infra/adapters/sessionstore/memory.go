package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/ports"
)

// Ensure Memory implements the port at compile time.
var _ ports.SessionStore = (*Memory)(nil)

// Memory keeps snapshots in process. Snapshots are stored encoded so callers
// never share state with the store.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	expiry map[string]time.Time
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data:   make(map[string][]byte),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *Memory) Load(ctx context.Context, id string) (*domain.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	if exp, has := m.expiry[id]; has && m.now().After(exp) {
		delete(m.data, id)
		delete(m.expiry, id)
		return nil, ports.ErrSessionNotFound
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("sessionstore: decode %q: %w", id, err)
	}
	return &snap, nil
}

func (m *Memory) Save(ctx context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sessionstore: encode %q: %w", snap.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[snap.ID] = raw
	if ttl > 0 {
		m.expiry[snap.ID] = m.now().Add(ttl)
	} else {
		delete(m.expiry, snap.ID)
	}
	return nil
}

func (m *Memory) Touch(ctx context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[id]; !ok {
		return ports.ErrSessionNotFound
	}
	now := m.now()
	if exp, has := m.expiry[id]; has && now.After(exp) {
		delete(m.data, id)
		delete(m.expiry, id)
		return ports.ErrSessionNotFound
	}
	if ttl > 0 {
		m.expiry[id] = now.Add(ttl)
	} else {
		delete(m.expiry, id)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, id)
	delete(m.expiry, id)
	return nil
}

// Sweep drops expired snapshots and reports how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int
	for id, exp := range m.expiry {
		if now.After(exp) {
			delete(m.data, id)
			delete(m.expiry, id)
			n++
		}
	}
	return n
}

package storage

import (
	"context"
	"sync"

	"github.com/pantryshop/storefront/model"
)

// MemoryStorage implements Storage in-memory (for local development and tests).
type MemoryStorage struct {
	mu     sync.Mutex
	checks []*model.StatusCheck
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *check
	m.checks = append(m.checks, &cp)
	return nil
}

// ListStatusChecks returns checks in insertion order.
func (m *MemoryStorage) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = normalizeLimit(limit)
	n := len(m.checks)
	if n > limit {
		n = limit
	}
	out := make([]*model.StatusCheck, 0, n)
	for _, c := range m.checks[:n] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStorage) Close(ctx context.Context) error {
	return nil
}

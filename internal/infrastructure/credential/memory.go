package credential

import (
	"context"
	"sync"
)

type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) SaveToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) ClearToken(ctx context.Context) error {
	return m.SaveToken(ctx, "")
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)

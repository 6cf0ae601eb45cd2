package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

// MemoryStorage is an in-process SessionStore for development and tests.
// Values are stored encoded so callers never share memory with the store.
type MemoryStorage[T any] struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStorage creates an empty store. A non-positive ttl means SessionTTL.
func NewMemoryStorage[T any](ttl time.Duration) *MemoryStorage[T] {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &MemoryStorage[T]{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load retrieves a session and refreshes its expiry
func (m *MemoryStorage[T]) Load(ctx context.Context, sessionID string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	now := m.now()
	if now.Sub(entry.updatedAt) > m.ttl {
		delete(m.sessions, sessionID)
		return nil, fmt.Errorf("%w: %s expired", ErrSessionNotFound, sessionID)
	}

	var dest T
	if err := sonic.ConfigStd.Unmarshal(entry.data, &dest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	entry.updatedAt = now
	m.sessions[sessionID] = entry
	return &dest, nil
}

// Save saves or replaces a session
func (m *MemoryStorage[T]) Save(ctx context.Context, sessionID string, data *T) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	encoded, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	m.mu.Lock()
	m.sessions[sessionID] = memoryEntry{data: encoded, updatedAt: m.now()}
	m.mu.Unlock()
	return nil
}

// Delete removes a session
func (m *MemoryStorage[T]) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStorage[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStorage[T]) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStorage[T]) Close() error {
	return nil
}

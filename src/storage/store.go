package storage

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when a session is missing or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists per-browser state between requests
type SessionStore[T any] interface {
	Load(ctx context.Context, sessionID string) (*T, error)
	Save(ctx context.Context, sessionID string, data *T) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ SessionStore[struct{}] = (*RedisStorage[struct{}])(nil)
	_ SessionStore[struct{}] = (*MemoryStorage[struct{}])(nil)
)

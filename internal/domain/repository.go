package domain

import (
	"context"
	"time"
)

// Source is the uniform adapter contract for one external catalog.
// Search returns at most maxResults records in no particular order.
type Source interface {
	ID() string
	DisplayName() string
	Search(ctx context.Context, query string, maxResults int) ([]Product, error)
}

// SourceConstructor builds a fresh adapter that owns its own network client
type SourceConstructor func() Source

// SourceProvider resolves the registered sources for a fan-out
type SourceProvider interface {
	IDs() []string
	Get(id string) (SourceConstructor, bool)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// WatchRepository is the boundary to the external watch store
type WatchRepository interface {
	ListActive(ctx context.Context) ([]Watch, error)
	RecordCheck(ctx context.Context, check WatchCheck) error
	MarkTriggered(ctx context.Context, watchID string, at time.Time) error
}

// Notifier is the boundary to the external notification dispatcher
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

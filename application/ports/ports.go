package ports

import (
	"context"

	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"
)

// SeedSource loads the initial comments of a thread.
// It is consulted once when a session is initialized and is not a sync channel.
type SeedSource interface {
	// LoadSeed returns the seed comments in their stored order
	LoadSeed(ctx context.Context) ([]*entities.Comment, error)

	// Name identifies the source in logs and traces
	Name() string
}

// ThreadSnapshot is a consistent, read-only view of a thread at one version
type ThreadSnapshot struct {
	ThreadID string
	Actor    valueobjects.Actor
	Comments []*entities.Comment
	Version  int
	Ready    bool
}

// CommentStore is the application-facing handle on the comment collection
type CommentStore interface {
	// Add writes a new comment as the session actor
	Add(ctx context.Context, body string) (*entities.Comment, error)

	// Remove deletes a comment on behalf of requesterID
	Remove(ctx context.Context, id valueobjects.CommentID, requesterID string) error

	// Snapshot returns the current comments together with the version they belong to
	Snapshot() ThreadSnapshot
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

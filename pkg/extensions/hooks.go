// Package extensions lets infrastructure react to thread lifecycle changes
// without the application layer knowing who is listening.
package extensions

import (
	"context"
	"fmt"
	"sync"
)

// HookPoint represents a point in the thread lifecycle where hooks can be registered
type HookPoint string

const (
	// Mutation hooks, run after the change is applied
	HookAfterCommentAdded   HookPoint = "after_comment_added"
	HookAfterCommentRemoved HookPoint = "after_comment_removed"

	// Session hooks
	HookThreadSeeded   HookPoint = "thread_seeded"
	HookSeedLoadFailed HookPoint = "seed_load_failed"
)

// MutationPoints lists every hook point fired after the collection changes
var MutationPoints = []HookPoint{
	HookAfterCommentAdded,
	HookAfterCommentRemoved,
	HookThreadSeeded,
}

// Hook represents a function that can be executed at a hook point
type Hook func(ctx context.Context, data HookData) error

// HookData describes the change that triggered a hook
type HookData struct {
	ThreadID  string `json:"thread_id"`
	CommentID int64  `json:"comment_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Version   int    `json:"version"`
	Count     int    `json:"count"`
	Err       error  `json:"-"`
}

// HookManager manages hooks for extension points
type HookManager struct {
	hooks map[HookPoint][]Hook
	mu    sync.RWMutex
}

// NewHookManager creates a new hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register registers a hook for a specific hook point
func (m *HookManager) Register(point HookPoint, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[point] = append(m.hooks[point], hook)
}

// RegisterAll registers the same hook at several points
func (m *HookManager) RegisterAll(points []HookPoint, hook Hook) {
	for _, point := range points {
		m.Register(point, hook)
	}
}

// Execute runs every hook for point in registration order. All hooks run
// even when one fails; the first error is returned.
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data HookData) error {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	hooks := m.hooks[point]
	m.mu.RUnlock()

	var firstErr error
	for i, hook := range hooks {
		if err := hook(ctx, data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("hook %d at %s failed: %w", i, point, err)
		}
	}

	return firstErr
}

// Count returns how many hooks are registered at point
func (m *HookManager) Count(point HookPoint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.hooks[point])
}

// Clear removes all hooks for a specific hook point
func (m *HookManager) Clear(point HookPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hooks, point)
}

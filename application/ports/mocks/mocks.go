// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"comments-backend/application/ports"
	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockSeedSource is a mock implementation of ports.SeedSource
type MockSeedSource struct {
	mock.Mock
}

func (m *MockSeedSource) LoadSeed(ctx context.Context) ([]*entities.Comment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Comment), args.Error(1)
}

func (m *MockSeedSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockCommentStore is a mock implementation of ports.CommentStore
type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Add(ctx context.Context, body string) (*entities.Comment, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *MockCommentStore) Remove(ctx context.Context, id valueobjects.CommentID, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *MockCommentStore) Snapshot() ports.ThreadSnapshot {
	args := m.Called()
	return args.Get(0).(ports.ThreadSnapshot)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockCache is a mock implementation of ports.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	_ ports.SeedSource     = (*MockSeedSource)(nil)
	_ ports.CommentStore   = (*MockCommentStore)(nil)
	_ ports.EventPublisher = (*MockEventPublisher)(nil)
	_ ports.Cache          = (*MockCache)(nil)
)

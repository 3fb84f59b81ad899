// Package logging provides an event publisher that only writes to the log.
// It stands in for EventBridge when events are disabled.
package logging

import (
	"context"

	"comments-backend/domain/events"

	"go.uber.org/zap"
)

// Publisher logs events instead of sending them
type Publisher struct {
	logger *zap.Logger
}

// NewPublisher creates a logging publisher
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Publish logs a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("eventID", event.GetEventID()),
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Int("version", event.GetVersion()),
	)
	return nil
}

// PublishBatch logs every event
func (p *Publisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		_ = p.Publish(ctx, event)
	}
	return nil
}

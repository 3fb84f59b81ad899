package events

import (
	"time"

	"comments-backend/domain/core/valueobjects"

	"github.com/google/uuid"
)

// SourceThread is the source name attached to published thread events
const SourceThread = "comments.thread"

// Event types
const (
	TypeCommentAdded   = "comment.added"
	TypeCommentRemoved = "comment.removed"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func newBaseEvent(aggregateID, eventType string, timestamp time.Time, version int) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// CommentAdded is raised when a comment is appended to a thread
type CommentAdded struct {
	BaseEvent
	CommentID valueobjects.CommentID `json:"comment_id"`
	AuthorID  string                 `json:"author_id"`
	Body      string                 `json:"body"`
}

// NewCommentAdded creates a CommentAdded event
func NewCommentAdded(threadID string, commentID valueobjects.CommentID, authorID, body string, timestamp time.Time, version int) CommentAdded {
	return CommentAdded{
		BaseEvent: newBaseEvent(threadID, TypeCommentAdded, timestamp, version),
		CommentID: commentID,
		AuthorID:  authorID,
		Body:      body,
	}
}

// CommentRemoved is raised when an author deletes one of their comments
type CommentRemoved struct {
	BaseEvent
	CommentID   valueobjects.CommentID `json:"comment_id"`
	RequesterID string                 `json:"requester_id"`
}

// NewCommentRemoved creates a CommentRemoved event
func NewCommentRemoved(threadID string, commentID valueobjects.CommentID, requesterID string, timestamp time.Time, version int) CommentRemoved {
	return CommentRemoved{
		BaseEvent:   newBaseEvent(threadID, TypeCommentRemoved, timestamp, version),
		CommentID:   commentID,
		RequesterID: requesterID,
	}
}

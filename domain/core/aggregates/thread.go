package aggregates

import (
	"fmt"
	"time"

	"comments-backend/domain/config"
	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"
	pkgerrors "comments-backend/pkg/errors"

	"github.com/google/uuid"
)

// ThreadID identifies a discussion thread
type ThreadID string

// NewThreadID creates a new random ThreadID
func NewThreadID() ThreadID {
	return ThreadID(uuid.New().String())
}

// String returns the string representation
func (id ThreadID) String() string {
	return string(id)
}

// Option configures a Thread at construction time
type Option func(*Thread)

// WithClock overrides the time source used for new comments
func WithClock(clock func() time.Time) Option {
	return func(t *Thread) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithDomainConfig overrides the domain rules
func WithDomainConfig(cfg *config.DomainConfig) Option {
	return func(t *Thread) {
		if cfg != nil {
			t.cfg = cfg
		}
	}
}

// WithThreadID sets the thread identifier instead of generating one
func WithThreadID(id ThreadID) Option {
	return func(t *Thread) {
		if id != "" {
			t.id = id
		}
	}
}

// Thread is the aggregate root owning the comments of one discussion.
// It is the only place comments are added or removed, and it enforces that
// only a comment's author may delete it.
//
// Ids come from a counter that starts at max(seed ids)+1 and only moves
// forward, so an id freed by a deletion is never handed out again.
type Thread struct {
	id       ThreadID
	actor    valueobjects.Actor
	comments []*entities.Comment // insertion order, latest addition first
	byID     map[valueobjects.CommentID]*entities.Comment
	nextID   valueobjects.CommentID
	version  int
	clock    func() time.Time
	cfg      *config.DomainConfig
	events   []events.DomainEvent
}

// NewThread creates a thread for actor, optionally pre-seeded with comments.
// Seed order is kept as the initial insertion order.
func NewThread(actor valueobjects.Actor, seed []*entities.Comment, opts ...Option) (*Thread, error) {
	if actor.IsZero() {
		return nil, pkgerrors.NewValidationError("thread requires an actor")
	}

	t := &Thread{
		id:       NewThreadID(),
		actor:    actor,
		comments: make([]*entities.Comment, 0, len(seed)),
		byID:     make(map[valueobjects.CommentID]*entities.Comment, len(seed)),
		clock:    time.Now,
		cfg:      config.DefaultDomainConfig(),
		events:   []events.DomainEvent{},
	}
	for _, opt := range opts {
		opt(t)
	}

	if len(seed) > t.cfg.MaxSeedComments {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("seed exceeds maximum of %d comments", t.cfg.MaxSeedComments),
		).WithDetail("count", len(seed))
	}

	var maxID int64
	for i, comment := range seed {
		if comment == nil {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("seed comment %d is nil", i))
		}
		if _, exists := t.byID[comment.ID()]; exists {
			return nil, pkgerrors.ErrDuplicateID(comment.ID().Int64())
		}
		t.byID[comment.ID()] = comment
		t.comments = append(t.comments, comment)
		if comment.ID().Int64() > maxID {
			maxID = comment.ID().Int64()
		}
	}

	next, err := valueobjects.NewCommentID(maxID + 1)
	if err != nil {
		return nil, err
	}
	t.nextID = next

	return t, nil
}

// ID returns the thread identifier
func (t *Thread) ID() ThreadID {
	return t.id
}

// Actor returns the identity the thread writes new comments as
func (t *Thread) Actor() valueobjects.Actor {
	return t.actor
}

// Version increases by one with every successful mutation
func (t *Thread) Version() int {
	return t.version
}

// NextID returns the id the next added comment will receive
func (t *Thread) NextID() valueobjects.CommentID {
	return t.nextID
}

// Len returns the number of comments
func (t *Thread) Len() int {
	return len(t.comments)
}

// Add writes a new comment as the thread's actor. The body is trimmed; an
// empty result is rejected and the thread is left untouched.
func (t *Thread) Add(text string) (*entities.Comment, error) {
	body, err := valueobjects.NewCommentBodyWithConfig(text, t.cfg)
	if err != nil {
		return nil, err
	}

	comment, err := entities.NewComment(t.nextID, t.actor, body, t.clock())
	if err != nil {
		return nil, err
	}

	t.comments = append([]*entities.Comment{comment}, t.comments...)
	t.byID[comment.ID()] = comment
	t.nextID = t.nextID.Next()
	t.version++

	t.addEvent(events.NewCommentAdded(
		t.id.String(),
		comment.ID(),
		t.actor.ID(),
		body.String(),
		comment.CreatedAt(),
		t.version,
	))

	return comment, nil
}

// Remove deletes the comment with id on behalf of requesterID. It fails with
// a not-found error for unknown ids and a forbidden error when the requester
// is not the comment's author; in both cases nothing changes.
func (t *Thread) Remove(id valueobjects.CommentID, requesterID string) error {
	comment, exists := t.byID[id]
	if !exists {
		return pkgerrors.ErrCommentNotFound(id.Int64())
	}

	if !comment.IsAuthoredBy(requesterID) {
		return pkgerrors.ErrNotAuthor(id.Int64())
	}

	for i, c := range t.comments {
		if c.ID().Equals(id) {
			t.comments = append(t.comments[:i:i], t.comments[i+1:]...)
			break
		}
	}
	delete(t.byID, id)
	t.version++

	t.addEvent(events.NewCommentRemoved(
		t.id.String(),
		id,
		requesterID,
		t.clock(),
		t.version,
	))

	return nil
}

// Get returns a single comment
func (t *Thread) Get(id valueobjects.CommentID) (*entities.Comment, error) {
	comment, exists := t.byID[id]
	if !exists {
		return nil, pkgerrors.ErrCommentNotFound(id.Int64())
	}
	return comment, nil
}

// List returns a snapshot of the comments in insertion order. The slice is
// a copy; later mutations of the thread do not show up in it.
func (t *Thread) List() []*entities.Comment {
	snapshot := make([]*entities.Comment, len(t.comments))
	copy(snapshot, t.comments)
	return snapshot
}

// GetUncommittedEvents returns all uncommitted domain events
func (t *Thread) GetUncommittedEvents() []events.DomainEvent {
	pending := make([]events.DomainEvent, len(t.events))
	copy(pending, t.events)
	return pending
}

// MarkEventsAsCommitted clears all uncommitted events
func (t *Thread) MarkEventsAsCommitted() {
	t.events = []events.DomainEvent{}
}

func (t *Thread) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

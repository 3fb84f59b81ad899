package services

import (
	"context"
	"sync"

	"comments-backend/application/ports"
	"comments-backend/domain/core/aggregates"
	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"
	pkgerrors "comments-backend/pkg/errors"
	"comments-backend/pkg/extensions"

	"go.uber.org/zap"
)

// SessionOption configures a ThreadSession
type SessionOption func(*ThreadSession)

// WithEventPublisher publishes the thread's domain events after each mutation
func WithEventPublisher(publisher ports.EventPublisher) SessionOption {
	return func(s *ThreadSession) {
		s.publisher = publisher
	}
}

// WithHooks runs lifecycle hooks after each mutation and seed attempt
func WithHooks(hooks *extensions.HookManager) SessionOption {
	return func(s *ThreadSession) {
		s.hooks = hooks
	}
}

// WithThreadOptions forwards options to every Thread the session builds
func WithThreadOptions(opts ...aggregates.Option) SessionOption {
	return func(s *ThreadSession) {
		s.threadOpts = append(s.threadOpts, opts...)
	}
}

// ThreadSession is the handle a collaborator holds on one comment thread.
// Every call on the underlying Thread is serialized, so concurrent HTTP
// requests still observe one mutation at a time.
//
// A session is ready once its seed is in place. Until then it lists an empty
// collection and rejects mutations with THREAD_NOT_READY.
type ThreadSession struct {
	mu         sync.RWMutex
	thread     *aggregates.Thread
	actor      valueobjects.Actor
	ready      bool
	version    int
	loadErr    error
	threadOpts []aggregates.Option
	publisher  ports.EventPublisher
	hooks      *extensions.HookManager
	logger     *zap.Logger
}

var _ ports.CommentStore = (*ThreadSession)(nil)

// NewThreadSession initializes a ready session for actor from an in-memory seed
func NewThreadSession(
	actor valueobjects.Actor,
	seed []*entities.Comment,
	logger *zap.Logger,
	opts ...SessionOption,
) (*ThreadSession, error) {
	s := newSession(actor, logger, opts)

	thread, err := aggregates.NewThread(actor, seed, s.threadOpts...)
	if err != nil {
		return nil, err
	}
	s.thread = thread
	s.ready = true

	return s, nil
}

// Initialize builds a session for actor and seeds it from source.
// A nil source yields an empty, ready session. A failed or slow load is not
// an error: the session comes back empty and not ready, and Load may be
// called again later. Only an invalid actor fails.
func Initialize(
	ctx context.Context,
	source ports.SeedSource,
	actor valueobjects.Actor,
	logger *zap.Logger,
	opts ...SessionOption,
) (*ThreadSession, error) {
	s := newSession(actor, logger, opts)

	empty, err := aggregates.NewThread(actor, nil, s.threadOpts...)
	if err != nil {
		return nil, err
	}
	s.thread = empty

	if source == nil {
		s.ready = true
		return s, nil
	}

	_ = s.Load(ctx, source)
	return s, nil
}

func newSession(actor valueobjects.Actor, logger *zap.Logger, opts []SessionOption) *ThreadSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ThreadSession{
		actor:  actor,
		logger: logger,
		// the generated id comes first so a caller's WithThreadID wins
		threadOpts: []aggregates.Option{aggregates.WithThreadID(aggregates.NewThreadID())},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type seedResult struct {
	seed []*entities.Comment
	err  error
}

// Load seeds a session that is not ready yet. It waits for source until ctx
// is done; on any failure the session stays empty and not ready. Loading an
// already ready session is a no-op.
func (s *ThreadSession) Load(ctx context.Context, source ports.SeedSource) error {
	if s.Ready() {
		return nil
	}

	results := make(chan seedResult, 1)
	go func() {
		seed, err := source.LoadSeed(ctx)
		results <- seedResult{seed: seed, err: err}
	}()

	var res seedResult
	select {
	case res = <-results:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	var thread *aggregates.Thread
	if res.err == nil {
		thread, res.err = aggregates.NewThread(s.actor, res.seed, s.threadOpts...)
	}

	if res.err != nil {
		s.mu.Lock()
		s.loadErr = res.err
		threadID := s.thread.ID().String()
		s.mu.Unlock()

		s.logger.Warn("Seed load failed, thread stays empty and not ready",
			zap.String("source", source.Name()),
			zap.String("threadID", threadID),
			zap.Error(res.err),
		)
		s.runHooks(ctx, extensions.HookSeedLoadFailed, extensions.HookData{
			ThreadID: threadID,
			Err:      res.err,
		})
		return pkgerrors.ErrThreadNotReady("seed source "+source.Name(), res.err)
	}

	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	s.thread = thread
	s.ready = true
	s.loadErr = nil
	s.version++
	data := extensions.HookData{
		ThreadID: thread.ID().String(),
		Version:  s.version,
		Count:    thread.Len(),
	}
	s.mu.Unlock()

	s.logger.Info("Thread seeded",
		zap.String("source", source.Name()),
		zap.String("threadID", data.ThreadID),
		zap.Int("comments", data.Count),
	)
	s.runHooks(ctx, extensions.HookThreadSeeded, data)

	return nil
}

// Add writes body as a new comment by the session actor
func (s *ThreadSession) Add(ctx context.Context, body string) (*entities.Comment, error) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return nil, s.notReady()
	}

	comment, err := s.thread.Add(body)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.version++
	pending := s.drainEvents()
	data := extensions.HookData{
		ThreadID:  s.thread.ID().String(),
		CommentID: comment.ID().Int64(),
		UserID:    comment.Author().ID(),
		Version:   s.version,
		Count:     s.thread.Len(),
	}
	s.mu.Unlock()

	s.afterMutation(ctx, extensions.HookAfterCommentAdded, data, pending)
	return comment, nil
}

// Remove deletes comment id on behalf of requesterID
func (s *ThreadSession) Remove(ctx context.Context, id valueobjects.CommentID, requesterID string) error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return s.notReady()
	}

	if err := s.thread.Remove(id, requesterID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	pending := s.drainEvents()
	data := extensions.HookData{
		ThreadID:  s.thread.ID().String(),
		CommentID: id.Int64(),
		UserID:    requesterID,
		Version:   s.version,
		Count:     s.thread.Len(),
	}
	s.mu.Unlock()

	s.afterMutation(ctx, extensions.HookAfterCommentRemoved, data, pending)
	return nil
}

// List returns the comments in insertion order
func (s *ThreadSession) List() []*entities.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.thread.List()
}

// Snapshot returns the comments and the version they were read at
func (s *ThreadSession) Snapshot() ports.ThreadSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ports.ThreadSnapshot{
		ThreadID: s.thread.ID().String(),
		Actor:    s.actor,
		Comments: s.thread.List(),
		Version:  s.version,
		Ready:    s.ready,
	}
}

// Actor returns the session actor
func (s *ThreadSession) Actor() valueobjects.Actor {
	return s.actor
}

// Ready reports whether the seed is in place
func (s *ThreadSession) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready
}

// Version increases with every mutation and successful seed
func (s *ThreadSession) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// LoadErr returns the error of the last failed seed attempt, if any
func (s *ThreadSession) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadErr
}

func (s *ThreadSession) notReady() error {
	return pkgerrors.ErrThreadNotReady("comment thread", nil)
}

// drainEvents must be called with s.mu held
func (s *ThreadSession) drainEvents() []events.DomainEvent {
	pending := s.thread.GetUncommittedEvents()
	s.thread.MarkEventsAsCommitted()
	return pending
}

// afterMutation runs outside the lock. Failures are logged and never undo
// the mutation that already happened.
func (s *ThreadSession) afterMutation(ctx context.Context, point extensions.HookPoint, data extensions.HookData, pending []events.DomainEvent) {
	if s.publisher != nil && len(pending) > 0 {
		if err := s.publisher.PublishBatch(ctx, pending); err != nil {
			s.logger.Error("Failed to publish thread events",
				zap.String("threadID", data.ThreadID),
				zap.Int64("commentID", data.CommentID),
				zap.Int("events", len(pending)),
				zap.Error(err),
			)
		}
	}

	s.runHooks(ctx, point, data)
}

func (s *ThreadSession) runHooks(ctx context.Context, point extensions.HookPoint, data extensions.HookData) {
	if err := s.hooks.Execute(ctx, point, data); err != nil {
		s.logger.Warn("Thread hook failed",
			zap.String("hook", string(point)),
			zap.String("threadID", data.ThreadID),
			zap.Error(err),
		)
	}
}

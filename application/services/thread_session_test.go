package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"comments-backend/application/ports/mocks"
	"comments-backend/domain/core/aggregates"
	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"
	pkgerrors "comments-backend/pkg/errors"
	"comments-backend/pkg/extensions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sessionNow = time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)

func testActor(t *testing.T, id string) valueobjects.Actor {
	t.Helper()
	a, err := valueobjects.NewActor(id, "John", "")
	require.NoError(t, err)
	return a
}

func testSeed(t *testing.T) []*entities.Comment {
	t.Helper()
	build := func(id int64, authorID string, likes int) *entities.Comment {
		cid, err := valueobjects.NewCommentID(id)
		require.NoError(t, err)
		author, err := valueobjects.NewActor(authorID, "", "")
		require.NoError(t, err)
		body, err := valueobjects.NewCommentBody("seed comment")
		require.NoError(t, err)
		c, err := entities.ReconstructComment(cid, author, body, sessionNow.Add(-time.Duration(id)*time.Hour), likes)
		require.NoError(t, err)
		return c
	}
	return []*entities.Comment{
		build(3, "13258165", 88),
		build(2, "36080105", 88),
		build(1, "30009257", 66),
	}
}

func clockOption() SessionOption {
	return WithThreadOptions(aggregates.WithClock(func() time.Time { return sessionNow }))
}

func TestNewThreadSession(t *testing.T) {
	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop(), clockOption())
	require.NoError(t, err)

	assert.True(t, session.Ready())
	assert.Equal(t, 0, session.Version())
	assert.Len(t, session.List(), 3)
	assert.Equal(t, "30009257", session.Actor().ID())

	_, err = NewThreadSession(valueobjects.Actor{}, nil, zap.NewNop())
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestThreadSession_AddPublishesEvents(t *testing.T) {
	ctx := context.Background()
	publisher := new(mocks.MockEventPublisher)
	publisher.On("PublishBatch", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
		return len(evts) == 1 && evts[0].GetEventType() == events.TypeCommentAdded
	})).Return(nil).Once()

	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop(),
		clockOption(), WithEventPublisher(publisher))
	require.NoError(t, err)

	comment, err := session.Add(ctx, "hello")

	require.NoError(t, err)
	assert.Equal(t, int64(4), comment.ID().Int64())
	assert.Equal(t, 0, comment.LikeCount())
	assert.Equal(t, 1, session.Version())
	assert.Len(t, session.List(), 4)
	publisher.AssertExpectations(t)
}

func TestThreadSession_PublishFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	publisher := new(mocks.MockEventPublisher)
	publisher.On("PublishBatch", ctx, mock.Anything).Return(errors.New("eventbridge down"))

	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop(),
		WithEventPublisher(publisher))
	require.NoError(t, err)

	require.NoError(t, session.Remove(ctx, mustCommentID(t, 1), "30009257"))

	assert.Len(t, session.List(), 2)
	publisher.AssertExpectations(t)
}

func TestThreadSession_RejectedMutationsChangeNothing(t *testing.T) {
	ctx := context.Background()
	publisher := new(mocks.MockEventPublisher)
	hooks := extensions.NewHookManager()
	hookCalls := 0
	hooks.RegisterAll(extensions.MutationPoints, func(ctx context.Context, data extensions.HookData) error {
		hookCalls++
		return nil
	})

	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop(),
		WithEventPublisher(publisher), WithHooks(hooks))
	require.NoError(t, err)

	_, err = session.Add(ctx, "   ")
	assert.True(t, pkgerrors.IsValidation(err))

	err = session.Remove(ctx, mustCommentID(t, 3), "30009257")
	assert.True(t, pkgerrors.IsForbidden(err))

	err = session.Remove(ctx, mustCommentID(t, 42), "30009257")
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.Len(t, session.List(), 3)
	assert.Equal(t, 0, session.Version())
	assert.Equal(t, 0, hookCalls)
	publisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestThreadSession_HooksSeeMutations(t *testing.T) {
	ctx := context.Background()
	hooks := extensions.NewHookManager()
	var seen []extensions.HookData
	hooks.Register(extensions.HookAfterCommentAdded, func(ctx context.Context, data extensions.HookData) error {
		seen = append(seen, data)
		return nil
	})
	hooks.Register(extensions.HookAfterCommentRemoved, func(ctx context.Context, data extensions.HookData) error {
		seen = append(seen, data)
		return errors.New("ignored")
	})

	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop(), WithHooks(hooks))
	require.NoError(t, err)

	added, err := session.Add(ctx, "hello")
	require.NoError(t, err)
	require.NoError(t, session.Remove(ctx, added.ID(), "30009257"))

	require.Len(t, seen, 2)
	assert.Equal(t, int64(4), seen[0].CommentID)
	assert.Equal(t, 1, seen[0].Version)
	assert.Equal(t, 4, seen[0].Count)
	assert.Equal(t, int64(4), seen[1].CommentID)
	assert.Equal(t, 2, seen[1].Version)
	assert.Equal(t, 3, seen[1].Count)
}

func TestInitialize_NilSourceIsReadyAndEmpty(t *testing.T) {
	session, err := Initialize(context.Background(), nil, testActor(t, "u1"), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, session.Ready())
	assert.Empty(t, session.List())

	comment, err := session.Add(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, int64(1), comment.ID().Int64())
}

func TestInitialize_LoadsSeed(t *testing.T) {
	ctx := context.Background()
	source := new(mocks.MockSeedSource)
	source.On("LoadSeed", mock.Anything).Return(testSeed(t), nil)
	source.On("Name").Return("sample")

	session, err := Initialize(ctx, source, testActor(t, "30009257"), zap.NewNop(),
		WithThreadOptions(aggregates.WithThreadID("thread-1")))
	require.NoError(t, err)

	snapshot := session.Snapshot()
	assert.True(t, snapshot.Ready)
	assert.Equal(t, "thread-1", snapshot.ThreadID)
	assert.Equal(t, 1, snapshot.Version)
	assert.Len(t, snapshot.Comments, 3)
	assert.NoError(t, session.LoadErr())
	source.AssertExpectations(t)
}

func TestInitialize_FailedLoadIsEmptyAndNotReady(t *testing.T) {
	ctx := context.Background()
	failing := new(mocks.MockSeedSource)
	failing.On("LoadSeed", mock.Anything).Return(nil, errors.New("table not found"))
	failing.On("Name").Return("dynamodb")

	hooks := extensions.NewHookManager()
	failures := 0
	hooks.Register(extensions.HookSeedLoadFailed, func(ctx context.Context, data extensions.HookData) error {
		failures++
		assert.Error(t, data.Err)
		return nil
	})

	session, err := Initialize(ctx, failing, testActor(t, "30009257"), zap.NewNop(), WithHooks(hooks))
	require.NoError(t, err)

	assert.False(t, session.Ready())
	assert.Empty(t, session.List())
	assert.ErrorContains(t, session.LoadErr(), "table not found")
	assert.Equal(t, 1, failures)

	_, err = session.Add(ctx, "hello")
	assert.True(t, pkgerrors.IsUnavailable(err))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeThreadNotReady))

	err = session.Remove(ctx, mustCommentID(t, 1), "30009257")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeThreadNotReady))

	// a later attempt can still seed the thread
	working := new(mocks.MockSeedSource)
	working.On("LoadSeed", mock.Anything).Return(testSeed(t), nil)
	working.On("Name").Return("sample")

	require.NoError(t, session.Load(ctx, working))
	assert.True(t, session.Ready())
	assert.Len(t, session.List(), 3)
	assert.NoError(t, session.LoadErr())

	// loading a ready session does nothing
	require.NoError(t, session.Load(ctx, failing))
	assert.Len(t, session.List(), 3)
}

func TestInitialize_SlowLoadTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	slow := new(mocks.MockSeedSource)
	slow.On("LoadSeed", mock.Anything).After(500*time.Millisecond).Return(testSeed(t), nil)
	slow.On("Name").Return("slow")

	session, err := Initialize(ctx, slow, testActor(t, "30009257"), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, session.Ready())
	assert.Empty(t, session.List())
	assert.ErrorIs(t, session.LoadErr(), context.DeadlineExceeded)
}

func TestInitialize_InvalidSeedIsNotReady(t *testing.T) {
	seed := testSeed(t)
	seed = append(seed, seed[0])

	source := new(mocks.MockSeedSource)
	source.On("LoadSeed", mock.Anything).Return(seed, nil)
	source.On("Name").Return("file")

	session, err := Initialize(context.Background(), source, testActor(t, "30009257"), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, session.Ready())
	assert.True(t, pkgerrors.HasCode(session.LoadErr(), pkgerrors.CodeDuplicateID))
}

func TestThreadSession_ConcurrentAdds(t *testing.T) {
	session, err := NewThreadSession(testActor(t, "30009257"), testSeed(t), zap.NewNop())
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	ids := make(chan int64, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := session.Add(context.Background(), "concurrent")
			if assert.NoError(t, err) {
				ids <- c.ID().Int64()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		assert.Greater(t, id, int64(3))
		seen[id] = true
	}
	assert.Len(t, seen, writers)
	assert.Len(t, session.List(), writers+3)
	assert.Equal(t, writers, session.Version())
}

func mustCommentID(t *testing.T, id int64) valueobjects.CommentID {
	t.Helper()
	cid, err := valueobjects.NewCommentID(id)
	require.NoError(t, err)
	return cid
}

package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"comments-backend/application/commands"
	"comments-backend/application/ports"
	"comments-backend/application/ports/mocks"
	"comments-backend/application/queries"
	domainconfig "comments-backend/domain/config"
	"comments-backend/domain/events"
	"comments-backend/infrastructure/config"
	"comments-backend/infrastructure/messaging/logging"
	"comments-backend/infrastructure/persistence/memory"
	"comments-backend/pkg/extensions"
	"comments-backend/pkg/observability"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		ActorID:         "30009257",
		ActorName:       "John",
		ThreadID:        "default",
		SeedSource:      config.SeedSourceSample,
		SeedTimeout:     time.Second,
		CacheTTLSeconds: 30,
		Domain:          domainconfig.DefaultDomainConfig(),
	}
}

func listIDs(t *testing.T, result interface{}) []int64 {
	t.Helper()
	list, ok := result.(*queries.ListCommentsResult)
	require.True(t, ok, "unexpected result %T", result)

	ids := make([]int64, 0, len(list.Comments))
	for _, c := range list.Comments {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestProvideSeedSource(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test", nil, logger)
	tracer := observability.NewTracer("test", false)

	cfg := testConfig()
	cfg.SeedSource = config.SeedSourceNone
	source, err := ProvideSeedSource(cfg, nil, metrics, tracer, logger)
	require.NoError(t, err)
	assert.Nil(t, source)

	cfg.SeedSource = config.SeedSourceSample
	source, err = ProvideSeedSource(cfg, nil, metrics, tracer, logger)
	require.NoError(t, err)
	assert.Equal(t, "memory", source.Name())

	seed, err := source.LoadSeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, seed, 3)

	cfg.SeedSource = config.SeedSourceDynamoDB
	_, err = ProvideSeedSource(cfg, nil, metrics, tracer, logger)
	assert.Error(t, err)
}

func TestProvideEventPublisher_DefaultsToLogging(t *testing.T) {
	publisher := ProvideEventPublisher(testConfig(), nil, nil, zap.NewNop())
	assert.IsType(t, &logging.Publisher{}, publisher)
}

func TestMultiPublisher_ReportsEveryFailure(t *testing.T) {
	ok := &mocks.MockEventPublisher{}
	ok.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
	failing := &mocks.MockEventPublisher{}
	failing.On("PublishBatch", mock.Anything, mock.Anything).Return(errors.New("bus down"))

	publisher := &multiPublisher{sinks: []ports.EventPublisher{failing, ok}}
	err := publisher.PublishBatch(context.Background(), []events.DomainEvent{})

	assert.ErrorContains(t, err, "bus down")
	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestProvideThreadSession_SlowSourceIsNotReady(t *testing.T) {
	cfg := testConfig()
	cfg.SeedTimeout = 10 * time.Millisecond

	actor, err := ProvideActor(cfg)
	require.NoError(t, err)

	source := &mocks.MockSeedSource{}
	source.On("Name").Return("slow")
	source.On("LoadSeed", mock.Anything).After(200*time.Millisecond).Return(nil, nil)

	session, err := ProvideThreadSession(context.Background(), cfg, actor, source, nil, extensions.NewHookManager(), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, session.Ready())
	assert.Empty(t, session.List())
	assert.ErrorIs(t, session.LoadErr(), context.DeadlineExceeded)
}

func TestBuses_EndToEnd(t *testing.T) {
	cfg := testConfig()
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test", nil, logger)
	tracer := observability.NewTracer("test", false)
	cache := NewInMemoryCache()
	defer cache.Close()

	actor, err := ProvideActor(cfg)
	require.NoError(t, err)
	seedNow := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	source := NewInstrumentedSeedSource(
		memory.NewSampleSeedSource().WithClock(func() time.Time { return seedNow }), metrics, tracer)

	hooks := ProvideHooks(cache, metrics, logger)
	session, err := ProvideThreadSession(context.Background(), cfg, actor, source, logging.NewPublisher(logger), hooks, logger)
	require.NoError(t, err)
	require.True(t, session.Ready())

	store := ProvideCommentStore(session)
	commandBus, err := ProvideCommandBus(store, metrics, logger)
	require.NoError(t, err)
	queryBus, err := ProvideQueryBus(store, session, cache, metrics, cfg, logger)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := queryBus.Ask(ctx, queries.ListCommentsQuery{Sort: "hot", RequesterID: actor.ID()})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, listIDs(t, result))
	assert.Equal(t, 1, cache.Len())

	_, err = commandBus.Send(ctx, commands.AddCommentCommand{Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	result, err = queryBus.Ask(ctx, queries.ListCommentsQuery{Sort: "newest", RequesterID: actor.ID()})
	require.NoError(t, err)
	assert.Equal(t, int64(4), listIDs(t, result)[0])

	_, err = commandBus.Send(ctx, commands.RemoveCommentCommand{CommentID: 3, RequesterID: actor.ID()})
	require.Error(t, err)

	_, err = commandBus.Send(ctx, commands.RemoveCommentCommand{CommentID: 4, RequesterID: actor.ID()})
	require.NoError(t, err)

	result, err = queryBus.Ask(ctx, queries.ListCommentsQuery{Sort: "hot", RequesterID: actor.ID()})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, listIDs(t, result))

	sessionResult, err := queryBus.Ask(ctx, queries.GetSessionQuery{})
	require.NoError(t, err)
	assert.Equal(t, "hot", sessionResult.(*queries.SessionResult).DefaultSort)
}

func TestInMemoryCache(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	cache := NewInMemoryCacheWithClock(clock)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 10))
	got, found := cache.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "v", got)

	clock.Advance(11 * time.Second)
	_, found = cache.Get(ctx, "k")
	assert.False(t, found)
	assert.Equal(t, 1, cache.Len())

	cache.evictExpired()
	assert.Equal(t, 0, cache.Len())

	require.NoError(t, cache.Set(ctx, "a", 1, 10))
	require.NoError(t, cache.Delete(ctx, "a"))
	require.NoError(t, cache.Set(ctx, "b", 2, 10))
	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())

	cache.Close()
	cache.Close()
}

func TestInMemoryCache_JanitorEvicts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := NewInMemoryCacheWithClock(clock)
	defer cache.Close()

	require.NoError(t, cache.Set(context.Background(), "k", "v", 30))
	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))

	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestZapLoggerAdapter_IgnoresDanglingKey(t *testing.T) {
	adapter := &zapLoggerAdapter{logger: zap.NewNop()}
	assert.Len(t, adapter.fieldsToZap("type", "AddCommentCommand", "orphan"), 1)
}

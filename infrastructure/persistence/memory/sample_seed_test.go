package memory

import (
	"context"
	"testing"
	"time"

	"comments-backend/application/ports"
	"comments-backend/domain/core/aggregates"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SeedSource = (*SeedSource)(nil)

func TestSampleSeedSource(t *testing.T) {
	comments, err := NewSampleSeedSource().LoadSeed(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 3)

	var ids []int64
	var likes []int
	for _, c := range comments {
		ids = append(ids, c.ID().Int64())
		likes = append(likes, c.LikeCount())
	}
	assert.Equal(t, []int64{3, 2, 1}, ids)
	assert.Equal(t, []int{88, 88, 66}, likes)
	assert.Equal(t, "13258165", comments[0].Author().ID())
	assert.Equal(t, "30009257", comments[2].Author().ID())
}

func TestSeedSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSampleSeedSource().LoadSeed(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleSeed_AddedCommentIsNewest(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	comments, err := NewSampleSeedSource().WithClock(clock).LoadSeed(context.Background())
	require.NoError(t, err)
	for _, c := range comments {
		assert.False(t, c.CreatedAt().After(now), "comment %d", c.ID().Int64())
	}

	john, err := valueobjects.NewActor("30009257", "John", "")
	require.NoError(t, err)
	thread, err := aggregates.NewThread(john, comments, aggregates.WithClock(clock))
	require.NoError(t, err)

	added, err := thread.Add("hello")
	require.NoError(t, err)
	require.Equal(t, int64(4), added.ID().Int64())

	newest := services.Project(thread.List(), valueobjects.SortNewest)
	assert.Equal(t, int64(4), newest[0].ID().Int64())
}

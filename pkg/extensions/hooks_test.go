package extensions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookManager_ExecuteRunsInOrder(t *testing.T) {
	m := NewHookManager()
	var calls []string

	m.Register(HookAfterCommentAdded, func(ctx context.Context, data HookData) error {
		calls = append(calls, "first")
		return nil
	})
	m.Register(HookAfterCommentAdded, func(ctx context.Context, data HookData) error {
		calls = append(calls, "second")
		assert.Equal(t, int64(4), data.CommentID)
		return nil
	})

	err := m.Execute(context.Background(), HookAfterCommentAdded, HookData{CommentID: 4})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestHookManager_ExecuteContinuesAfterFailure(t *testing.T) {
	m := NewHookManager()
	ran := false

	m.Register(HookAfterCommentRemoved, func(ctx context.Context, data HookData) error {
		return errors.New("cache unavailable")
	})
	m.Register(HookAfterCommentRemoved, func(ctx context.Context, data HookData) error {
		ran = true
		return nil
	})

	err := m.Execute(context.Background(), HookAfterCommentRemoved, HookData{})

	assert.ErrorContains(t, err, "cache unavailable")
	assert.True(t, ran)
}

func TestHookManager_RegisterAllAndClear(t *testing.T) {
	m := NewHookManager()
	m.RegisterAll(MutationPoints, func(ctx context.Context, data HookData) error { return nil })

	for _, point := range MutationPoints {
		assert.Equal(t, 1, m.Count(point))
	}

	m.Clear(HookThreadSeeded)
	assert.Equal(t, 0, m.Count(HookThreadSeeded))
	assert.Equal(t, 1, m.Count(HookAfterCommentAdded))
}

func TestHookManager_NilIsNoop(t *testing.T) {
	var m *HookManager
	assert.NoError(t, m.Execute(context.Background(), HookAfterCommentAdded, HookData{}))
}

package handlers

import (
	"context"
	"fmt"

	"comments-backend/application/ports"
	"comments-backend/application/queries"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/services"

	"go.uber.org/zap"
)

// ListCommentsHandler projects the thread for a sort key
type ListCommentsHandler struct {
	store  ports.CommentStore
	logger *zap.Logger
}

// NewListCommentsHandler creates a new list comments handler
func NewListCommentsHandler(store ports.CommentStore, logger *zap.Logger) *ListCommentsHandler {
	return &ListCommentsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the list comments query
func (h *ListCommentsHandler) Handle(ctx context.Context, query queries.ListCommentsQuery) (*queries.ListCommentsResult, error) {
	key, err := valueobjects.ParseSortKey(query.Sort)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	snapshot := h.store.Snapshot()
	projected := services.Project(snapshot.Comments, key)

	views := make([]queries.CommentView, 0, len(projected))
	for _, c := range projected {
		views = append(views, queries.NewCommentView(c, query.RequesterID))
	}

	h.logger.Debug("Projected comments",
		zap.String("sort", key.String()),
		zap.Int("count", len(views)),
		zap.Int("version", snapshot.Version),
	)

	return &queries.ListCommentsResult{
		ThreadID:  snapshot.ThreadID,
		Actor:     queries.NewAuthorView(snapshot.Actor),
		Sort:      key.String(),
		SortLabel: key.Label(),
		Total:     len(views),
		Ready:     snapshot.Ready,
		Version:   snapshot.Version,
		Comments:  views,
	}, nil
}

package handlers

import (
	"context"

	"comments-backend/application/ports"
	"comments-backend/application/queries"
	"comments-backend/domain/core/valueobjects"
)

// GetSessionHandler reports the session actor and readiness
type GetSessionHandler struct {
	store       ports.CommentStore
	defaultSort valueobjects.SortKey
}

// NewGetSessionHandler creates a new session handler
func NewGetSessionHandler(store ports.CommentStore, defaultSort valueobjects.SortKey) *GetSessionHandler {
	if !defaultSort.IsValid() {
		defaultSort = valueobjects.DefaultSortKey
	}
	return &GetSessionHandler{
		store:       store,
		defaultSort: defaultSort,
	}
}

// Handle executes the session query
func (h *GetSessionHandler) Handle(ctx context.Context, query queries.GetSessionQuery) (*queries.SessionResult, error) {
	snapshot := h.store.Snapshot()

	return &queries.SessionResult{
		ThreadID:    snapshot.ThreadID,
		Actor:       queries.NewAuthorView(snapshot.Actor),
		Ready:       snapshot.Ready,
		Total:       len(snapshot.Comments),
		Version:     snapshot.Version,
		DefaultSort: h.defaultSort.String(),
	}, nil
}

package handlers

import (
	"context"
	"fmt"

	"comments-backend/application/commands"
	"comments-backend/application/ports"
	"comments-backend/domain/core/entities"

	"go.uber.org/zap"
)

// AddCommentHandler handles AddCommentCommand
type AddCommentHandler struct {
	store  ports.CommentStore
	logger *zap.Logger
}

// NewAddCommentHandler creates a new add comment handler
func NewAddCommentHandler(store ports.CommentStore, logger *zap.Logger) *AddCommentHandler {
	return &AddCommentHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the add comment command
func (h *AddCommentHandler) Handle(ctx context.Context, cmd commands.AddCommentCommand) (*entities.Comment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	comment, err := h.store.Add(ctx, cmd.Body)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Comment added",
		zap.Int64("commentID", comment.ID().Int64()),
		zap.String("authorID", comment.Author().ID()),
	)

	return comment, nil
}

package handlers

import (
	"context"
	"fmt"

	"comments-backend/application/commands"
	"comments-backend/application/ports"
	"comments-backend/domain/core/valueobjects"
	pkgerrors "comments-backend/pkg/errors"

	"go.uber.org/zap"
)

// RemoveCommentHandler handles RemoveCommentCommand
type RemoveCommentHandler struct {
	store  ports.CommentStore
	logger *zap.Logger
}

// NewRemoveCommentHandler creates a new remove comment handler
func NewRemoveCommentHandler(store ports.CommentStore, logger *zap.Logger) *RemoveCommentHandler {
	return &RemoveCommentHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the remove comment command
func (h *RemoveCommentHandler) Handle(ctx context.Context, cmd commands.RemoveCommentCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	id, err := valueobjects.NewCommentID(cmd.CommentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %w", err)
	}

	if err := h.store.Remove(ctx, id, cmd.RequesterID); err != nil {
		if pkgerrors.IsForbidden(err) {
			h.logger.Warn("Comment removal denied",
				zap.Int64("commentID", cmd.CommentID),
				zap.String("requesterID", cmd.RequesterID),
			)
		}
		return err
	}

	h.logger.Info("Comment removed",
		zap.Int64("commentID", cmd.CommentID),
		zap.String("requesterID", cmd.RequesterID),
	)

	return nil
}

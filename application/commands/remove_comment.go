package commands

import (
	pkgerrors "comments-backend/pkg/errors"
)

// RemoveCommentCommand deletes a comment. Only the comment's author may do so;
// that rule is enforced by the thread, not here.
type RemoveCommentCommand struct {
	CommentID   int64  `json:"comment_id" validate:"required"`
	RequesterID string `json:"requester_id"`
}

// Validate validates the command
func (cmd RemoveCommentCommand) Validate() error {
	if cmd.CommentID <= 0 {
		return pkgerrors.NewValidationError("comment ID must be a positive integer").
			WithDetail("commentId", cmd.CommentID)
	}
	return nil
}

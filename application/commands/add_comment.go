package commands

import (
	"strings"

	pkgerrors "comments-backend/pkg/errors"
)

// AddCommentCommand writes a new comment as the session actor
type AddCommentCommand struct {
	Body string `json:"body" validate:"required"`
}

// Validate validates the command
func (cmd AddCommentCommand) Validate() error {
	if strings.TrimSpace(cmd.Body) == "" {
		return pkgerrors.ErrEmptyBody()
	}
	return nil
}

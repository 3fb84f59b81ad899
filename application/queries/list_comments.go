package queries

import (
	"time"

	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
)

// ListCommentsQuery asks for the thread ordered by a sort key
type ListCommentsQuery struct {
	Sort        string `json:"sort"`
	RequesterID string `json:"requester_id"`
}

// Validate validates the query
func (q ListCommentsQuery) Validate() error {
	_, err := valueobjects.ParseSortKey(q.Sort)
	return err
}

// AuthorView is the public shape of an Actor
type AuthorView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// CommentView is one comment as rendered for a requester
type CommentView struct {
	ID        int64      `json:"id"`
	Author    AuthorView `json:"author"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	LikeCount int        `json:"likeCount"`
	CanDelete bool       `json:"canDelete"`
}

// ListCommentsResult is the projected thread
type ListCommentsResult struct {
	ThreadID  string        `json:"threadId"`
	Actor     AuthorView    `json:"actor"`
	Sort      string        `json:"sort"`
	SortLabel string        `json:"sortLabel"`
	Total     int           `json:"total"`
	Ready     bool          `json:"ready"`
	Version   int           `json:"version"`
	Comments  []CommentView `json:"comments"`
}

// NewAuthorView converts an Actor
func NewAuthorView(a valueobjects.Actor) AuthorView {
	return AuthorView{
		ID:     a.ID(),
		Name:   a.DisplayName(),
		Avatar: a.AvatarRef(),
	}
}

// NewCommentView converts a comment; CanDelete is set when requesterID wrote it
func NewCommentView(c *entities.Comment, requesterID string) CommentView {
	return CommentView{
		ID:        c.ID().Int64(),
		Author:    NewAuthorView(c.Author()),
		Body:      c.Body().String(),
		CreatedAt: c.CreatedAt(),
		LikeCount: c.LikeCount(),
		CanDelete: c.IsAuthoredBy(requesterID),
	}
}

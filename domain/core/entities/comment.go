package entities

import (
	"time"

	"comments-backend/domain/core/valueobjects"
	pkgerrors "comments-backend/pkg/errors"
)

// Comment is one user-submitted entry of a thread.
// The author is fixed when the comment is created and never changes.
type Comment struct {
	id        valueobjects.CommentID
	author    valueobjects.Actor
	body      valueobjects.CommentBody
	createdAt time.Time
	likeCount int
}

// NewComment creates a fresh comment with no likes
func NewComment(
	id valueobjects.CommentID,
	author valueobjects.Actor,
	body valueobjects.CommentBody,
	createdAt time.Time,
) (*Comment, error) {
	return ReconstructComment(id, author, body, createdAt, 0)
}

// ReconstructComment rebuilds a comment from seed or repository data,
// preserving its timestamp and like count
func ReconstructComment(
	id valueobjects.CommentID,
	author valueobjects.Actor,
	body valueobjects.CommentBody,
	createdAt time.Time,
	likeCount int,
) (*Comment, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("comment ID cannot be empty")
	}
	if author.IsZero() {
		return nil, pkgerrors.NewValidationError("comment author cannot be empty")
	}
	if body.IsEmpty() {
		return nil, pkgerrors.ErrEmptyBody()
	}
	if likeCount < 0 {
		return nil, pkgerrors.NewValidationError("like count cannot be negative").
			WithDetail("likeCount", likeCount)
	}

	return &Comment{
		id:        id,
		author:    author,
		body:      body,
		createdAt: createdAt,
		likeCount: likeCount,
	}, nil
}

// ID returns the comment's identifier
func (c *Comment) ID() valueobjects.CommentID {
	return c.id
}

// Author returns the actor who wrote the comment
func (c *Comment) Author() valueobjects.Actor {
	return c.author
}

// Body returns the comment text
func (c *Comment) Body() valueobjects.CommentBody {
	return c.body
}

// CreatedAt returns when the comment was written
func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

// LikeCount returns the number of likes, never negative
func (c *Comment) LikeCount() int {
	return c.likeCount
}

// IsAuthoredBy reports whether userID wrote this comment
func (c *Comment) IsAuthoredBy(userID string) bool {
	return c.author.Is(userID)
}

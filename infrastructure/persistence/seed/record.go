// Package seed converts stored comment records into domain comments.
// Every seed source reads its own format into Record and shares this mapping.
package seed

import (
	"fmt"
	"time"

	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/pkg/utils"
)

// Record is the storage shape of one seed comment
type Record struct {
	ID           int64  `json:"id" yaml:"id"`
	AuthorID     string `json:"authorId" yaml:"authorId"`
	AuthorName   string `json:"authorName" yaml:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty" yaml:"authorAvatar,omitempty"`
	Body         string `json:"body" yaml:"body"`
	CreatedAt    string `json:"createdAt" yaml:"createdAt"`
	LikeCount    int    `json:"likeCount" yaml:"likeCount"`
}

// ToComment converts the record. now anchors short timestamps without a year.
func (r Record) ToComment(now time.Time) (*entities.Comment, error) {
	id, err := valueobjects.NewCommentID(r.ID)
	if err != nil {
		return nil, err
	}

	author, err := valueobjects.NewActor(r.AuthorID, r.AuthorName, r.AuthorAvatar)
	if err != nil {
		return nil, fmt.Errorf("comment %d: %w", r.ID, err)
	}

	body, err := valueobjects.NewCommentBody(r.Body)
	if err != nil {
		return nil, fmt.Errorf("comment %d: %w", r.ID, err)
	}

	createdAt, err := utils.ParseSeedTimestamp(r.CreatedAt, now)
	if err != nil {
		return nil, fmt.Errorf("comment %d: %w", r.ID, err)
	}

	return entities.ReconstructComment(id, author, body, createdAt, r.LikeCount)
}

// ToComments converts records in order, stopping at the first invalid one
func ToComments(records []Record, now time.Time) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0, len(records))
	for i, r := range records {
		c, err := r.ToComment(now)
		if err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// Package services holds domain logic that does not belong to a single
// aggregate.
package services

import (
	"sort"

	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
)

// Project returns a reordered copy of comments for display under key.
//
//   - SortHot orders by like count, highest first
//   - SortNewest orders by creation time, latest first
//
// Ties keep their relative input order. The input slice is never modified.
// An unknown key yields the input order unchanged.
func Project(comments []*entities.Comment, key valueobjects.SortKey) []*entities.Comment {
	projected := make([]*entities.Comment, len(comments))
	copy(projected, comments)

	switch key {
	case valueobjects.SortHot:
		sort.SliceStable(projected, func(i, j int) bool {
			return projected[i].LikeCount() > projected[j].LikeCount()
		})
	case valueobjects.SortNewest:
		sort.SliceStable(projected, func(i, j int) bool {
			return projected[i].CreatedAt().After(projected[j].CreatedAt())
		})
	}

	return projected
}

package valueobjects

import (
	"strings"

	pkgerrors "comments-backend/pkg/errors"
)

// SortKey selects the order in which a thread is presented
type SortKey string

const (
	// SortHot orders comments by like count, most liked first
	SortHot SortKey = "hot"
	// SortNewest orders comments by creation time, most recent first
	SortNewest SortKey = "newest"
)

// DefaultSortKey is the key a fresh view starts in
const DefaultSortKey = SortHot

// ParseSortKey parses a sort key. An empty value selects DefaultSortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultSortKey, nil
	case SortHot:
		return SortHot, nil
	case SortNewest:
		return SortNewest, nil
	default:
		return "", pkgerrors.NewValidationError("sort must be one of: hot newest").
			WithDetail("sort", s)
	}
}

// IsValid reports whether k is one of the known keys
func (k SortKey) IsValid() bool {
	return k == SortHot || k == SortNewest
}

// Toggle returns the other sort key. Switching tabs is always allowed.
func (k SortKey) Toggle() SortKey {
	if k == SortNewest {
		return SortHot
	}
	return SortNewest
}

// Label returns the tab caption for the key
func (k SortKey) Label() string {
	switch k {
	case SortNewest:
		return "Newest"
	default:
		return "Top"
	}
}

// String returns the wire form of the key
func (k SortKey) String() string {
	return string(k)
}

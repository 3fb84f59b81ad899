package valueobjects

import (
	"errors"
	"strconv"
)

// CommentID identifies a comment inside one thread. Ids are positive integers
// handed out by the thread, never by callers.
type CommentID struct {
	value int64
}

// NewCommentID creates a CommentID from a raw integer
func NewCommentID(id int64) (CommentID, error) {
	if id <= 0 {
		return CommentID{}, errors.New("comment ID must be a positive integer")
	}
	return CommentID{value: id}, nil
}

// ParseCommentID parses a CommentID from its decimal string form
func ParseCommentID(s string) (CommentID, error) {
	if s == "" {
		return CommentID{}, errors.New("comment ID cannot be empty")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return CommentID{}, errors.New("comment ID must be an integer")
	}
	return NewCommentID(id)
}

// Int64 returns the raw integer value
func (id CommentID) Int64() int64 {
	return id.value
}

// String returns the decimal representation of the CommentID
func (id CommentID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// Next returns the id that directly follows this one
func (id CommentID) Next() CommentID {
	return CommentID{value: id.value + 1}
}

// Equals checks if two CommentIDs are equal
func (id CommentID) Equals(other CommentID) bool {
	return id.value == other.value
}

// IsZero checks if the CommentID is the zero value
func (id CommentID) IsZero() bool {
	return id.value == 0
}

// MarshalJSON implements json.Marshaler
func (id CommentID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *CommentID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	parsed, err := ParseCommentID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

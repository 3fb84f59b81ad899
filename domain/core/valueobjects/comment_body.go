package valueobjects

import (
	"strings"
	"unicode/utf8"

	"comments-backend/domain/config"
	pkgerrors "comments-backend/pkg/errors"
)

// CommentBody is the trimmed, validated text of a comment
type CommentBody struct {
	text string
}

// NewCommentBody creates a body with validation using default configuration
func NewCommentBody(text string) (CommentBody, error) {
	return NewCommentBodyWithConfig(text, config.DefaultDomainConfig())
}

// NewCommentBodyWithConfig creates a body with validation and configuration.
// Leading and trailing whitespace is removed before any check.
func NewCommentBodyWithConfig(text string, cfg *config.DomainConfig) (CommentBody, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)

	if text == "" {
		return CommentBody{}, pkgerrors.ErrEmptyBody()
	}

	if length := utf8.RuneCountInString(text); length > cfg.MaxBodyLength {
		return CommentBody{}, pkgerrors.ErrBodyTooLong(cfg.MaxBodyLength, length)
	}

	return CommentBody{text: text}, nil
}

// String returns the body text
func (b CommentBody) String() string {
	return b.text
}

// IsEmpty checks if the body is the zero value
func (b CommentBody) IsEmpty() bool {
	return b.text == ""
}

// Equals checks if two bodies are equal
func (b CommentBody) Equals(other CommentBody) bool {
	return b.text == other.text
}

// Summary returns a truncated preview of the body
func (b CommentBody) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	if utf8.RuneCountInString(b.text) <= maxLength {
		return b.text
	}

	if maxLength <= 3 {
		return string([]rune(b.text)[:maxLength])
	}

	runes := []rune(b.text)
	return string(runes[:maxLength-3]) + "..."
}

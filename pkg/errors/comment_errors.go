package errors

import "fmt"

// Error codes carried by comment thread errors
const (
	CodeEmptyBody       = "EMPTY_COMMENT_BODY"
	CodeBodyTooLong     = "BODY_TOO_LONG"
	CodeNotAuthor       = "NOT_COMMENT_AUTHOR"
	CodeCommentNotFound = "COMMENT_NOT_FOUND"
	CodeDuplicateID     = "DUPLICATE_COMMENT_ID"
	CodeThreadNotReady  = "THREAD_NOT_READY"
)

// ErrEmptyBody is returned when a body is empty after trimming
func ErrEmptyBody() *AppError {
	return NewValidationError("comment body cannot be empty").WithCode(CodeEmptyBody)
}

// ErrBodyTooLong is returned when a body has more than max characters
func ErrBodyTooLong(max, length int) *AppError {
	return NewValidationError(fmt.Sprintf("comment body exceeds maximum length of %d characters", max)).
		WithCode(CodeBodyTooLong).
		WithDetail("length", length)
}

// ErrCommentNotFound is returned for an id the thread does not hold
func ErrCommentNotFound(id int64) *AppError {
	return NewNotFoundError(fmt.Sprintf("comment %d", id)).
		WithCode(CodeCommentNotFound)
}

// ErrNotAuthor is returned when someone other than the author deletes a comment
func ErrNotAuthor(id int64) *AppError {
	return NewForbiddenError("you can only delete your own comments").
		WithCode(CodeNotAuthor).
		WithDetail("commentId", id)
}

// ErrDuplicateID is returned when a seed holds the same id twice
func ErrDuplicateID(id int64) *AppError {
	return NewConflictError(fmt.Sprintf("duplicate comment ID %d in seed", id)).
		WithCode(CodeDuplicateID)
}

// ErrThreadNotReady is returned while the thread has no seed in place. cause
// is the failed load, if any.
func ErrThreadNotReady(what string, cause error) *AppError {
	err := NewUnavailableError(what).WithCode(CodeThreadNotReady)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

package auth

import (
	"context"
	"errors"
)

// Source values describe how a requester was identified
const (
	SourceToken   = "token"
	SourceHeader  = "header"
	SourceSession = "session"
)

// UserContext represents the requester of an HTTP call
type UserContext struct {
	UserID string
	Name   string
	Avatar string
	Source string
}

type contextKey string

const UserContextKey contextKey = "user"

// GetUserFromContext extracts user from context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// SetUserInContext adds user to context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// RequesterID returns the requester id stored in ctx, or fallback when none is set
func RequesterID(ctx context.Context, fallback string) string {
	if user, err := GetUserFromContext(ctx); err == nil && user.UserID != "" {
		return user.UserID
	}
	return fallback
}

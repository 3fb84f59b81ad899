package valueobjects

import (
	"strings"

	pkgerrors "comments-backend/pkg/errors"
)

// Actor is the identity of the user driving a session. It is supplied from
// outside the thread and never changes for the lifetime of that session.
type Actor struct {
	id          string
	displayName string
	avatarRef   string
}

// NewActor creates an Actor. Only the id is required.
func NewActor(id, displayName, avatarRef string) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, pkgerrors.NewValidationError("actor ID cannot be empty")
	}
	return Actor{
		id:          id,
		displayName: strings.TrimSpace(displayName),
		avatarRef:   strings.TrimSpace(avatarRef),
	}, nil
}

// ID returns the actor's identifier
func (a Actor) ID() string {
	return a.id
}

// DisplayName returns the name shown next to the actor's comments
func (a Actor) DisplayName() string {
	return a.displayName
}

// AvatarRef returns the avatar reference, empty when none was given
func (a Actor) AvatarRef() string {
	return a.avatarRef
}

// Is reports whether the given id identifies this actor
func (a Actor) Is(id string) bool {
	return a.id != "" && a.id == id
}

// Equals checks if two actors are equal
func (a Actor) Equals(other Actor) bool {
	return a.id == other.id &&
		a.displayName == other.displayName &&
		a.avatarRef == other.avatarRef
}

// IsZero checks if the Actor is the zero value
func (a Actor) IsZero() bool {
	return a.id == ""
}

package auth

import (
	"github.com/google/uuid"
)

// NewSessionToken returns an opaque, unguessable token for a server-side
// session record. The token carries no embedded claims; everything about
// the session lives in the store.
func NewSessionToken() string {
	return uuid.New().String()
}

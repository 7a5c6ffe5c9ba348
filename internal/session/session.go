package session

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no live session matches a token hash.
var ErrNotFound = errors.New("session not found")

// Session is a refresh-token session. Only the sha256 hash of the token
// is stored.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

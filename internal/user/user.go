package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a profile is not found.
var ErrNotFound = errors.New("user not found")

// AnonymousName is the display fallback for records whose author profile
// is missing or predates denormalization.
const AnonymousName = "anonymous"

// Profile is a user profile document keyed by the id issued at signup.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Name resolves the human-readable name for the profile: display name,
// then email, then the anonymous placeholder.
func (p *Profile) Name() string {
	if p == nil {
		return AnonymousName
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Email != "" {
		return p.Email
	}
	return AnonymousName
}

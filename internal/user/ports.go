package user

import "context"

// Repository defines the contract for profile storage.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
}

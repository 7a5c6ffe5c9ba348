package user

import (
	"context"
	"fmt"
	"io"
)

// BlobStore uploads a blob by path and returns a URL it can later be
// downloaded from.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error)
}

// Service provides profile business logic.
type Service struct {
	repo  Repository
	blobs BlobStore
}

func NewService(repo Repository, blobs BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateDisplayName changes the profile's nickname.
func (s *Service) UpdateDisplayName(ctx context.Context, id, displayName string) (Profile, error) {
	if err := s.repo.UpdateDisplayName(ctx, id, displayName); err != nil {
		return Profile{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// UploadPhoto stores the profile photo in the blob store under a
// per-user path and records the resulting URL.
func (s *Service) UploadPhoto(ctx context.Context, id string, r io.Reader, size int64, contentType string) (Profile, error) {
	url, err := s.blobs.Upload(ctx, fmt.Sprintf("profiles/%s", id), r, size, contentType)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.UpdatePhotoURL(ctx, id, url); err != nil {
		return Profile{}, err
	}
	return s.repo.GetByID(ctx, id)
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookclub/internal/platform/googleauth"
	"bookclub/internal/session"
	"bookclub/internal/user"
)

// GoogleVerifier resolves a federated ID token into an identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (googleauth.Identity, error)
}

// Tokens is the credential pair returned by every sign-in path.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
}

type Service struct {
	secret          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	users           user.Repository
	sessions        session.Repository
	google          GoogleVerifier
}

func NewService(secret string, accessTokenTTL, refreshTokenTTL time.Duration, users user.Repository, sessions session.Repository, google GoogleVerifier) *Service {
	return &Service{
		secret:          secret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		users:           users,
		sessions:        sessions,
		google:          google,
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// SignUp registers an email/password account and its profile document.
// The profile id doubles as the author id on posts and comments.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Tokens, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return Tokens{}, ErrInvalidEmail
	}
	if len(password) < 6 {
		return Tokens{}, ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Tokens{}, err
	}

	profile := &user.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, profile); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return Tokens{}, ErrEmailAlreadyInUse
		}
		return Tokens{}, err
	}

	return s.issueTokens(ctx, profile.ID)
}

// SignIn authenticates an email/password account.
func (s *Service) SignIn(ctx context.Context, email, password string) (Tokens, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	profile, err := s.users.GetByEmail(ctx, email)
	if err != nil || !VerifyPassword(profile.PasswordHash, password) {
		return Tokens{}, ErrInvalidCredential
	}
	return s.issueTokens(ctx, profile.ID)
}

// SignInWithGoogle verifies a federated ID token and signs the account
// in, creating the profile on first use.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (Tokens, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return Tokens{}, ErrInvalidCredential
	}

	profile, err := s.users.GetByEmail(ctx, strings.ToLower(identity.Email))
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return Tokens{}, err
		}
		var photo *string
		if identity.Picture != "" {
			photo = &identity.Picture
		}
		profile = user.Profile{
			ID:          uuid.New().String(),
			Email:       strings.ToLower(identity.Email),
			DisplayName: identity.Name,
			PhotoURL:    photo,
		}
		if err := s.users.Create(ctx, &profile); err != nil {
			return Tokens{}, err
		}
	}

	return s.issueTokens(ctx, profile.ID)
}

// Refresh rotates the refresh token and issues a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return Tokens{}, ErrUnauthorized
	}
	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return Tokens{}, err
	}
	return s.issueTokens(ctx, sess.UserID)
}

// SignOut revokes the refresh session.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteByTokenHash(ctx, hashToken(refreshToken))
}

// ParseAccessToken validates an access token and returns its subject.
func (s *Service) ParseAccessToken(token string) (string, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Service) issueTokens(ctx context.Context, userID string) (Tokens, error) {
	accessToken, err := GenerateToken(s.secret, userID, s.accessTokenTTL)
	if err != nil {
		return Tokens{}, err
	}

	refreshTokenBytes := make([]byte, 32)
	if _, err := rand.Read(refreshTokenBytes); err != nil {
		return Tokens{}, err
	}
	refreshToken := hex.EncodeToString(refreshTokenBytes)

	sess := &session.Session{
		UserID:           userID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        time.Now().Add(s.refreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return Tokens{}, err
	}

	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
		UserID:       userID,
	}, nil
}

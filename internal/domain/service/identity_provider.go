package service

import (
	"context"
	"errors"

	"webcarros/internal/domain/entity"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SignInResult is what a successful password sign-in hands back.
type SignInResult struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	UID          string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	ExpiresIn    string `json:"expiresIn"`
}

type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (*SignInResult, error)
	VerifyToken(ctx context.Context, token string) (*entity.Identity, error)
	RevokeSessions(ctx context.Context, uid string) error
}

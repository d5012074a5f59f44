package usecase

import (
	"context"
	stderrors "errors"
	"strings"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/service"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
)

type AuthUseCase struct {
	identityProvider service.IdentityProvider
}

func NewAuthUseCase(identityProvider service.IdentityProvider) *AuthUseCase {
	return &AuthUseCase{
		identityProvider: identityProvider,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User         *entity.Identity `json:"user"`
	Token        string           `json:"token"`
	RefreshToken string           `json:"refresh_token,omitempty"`
}

// Register creates the account, signs it in and announces the new identity
// to the session.
func (uc *AuthUseCase) Register(ctx context.Context, sess SessionPublisher, input RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)

	if _, err := uc.identityProvider.CreateUser(ctx, email, input.Password, name); err != nil {
		if stderrors.Is(err, service.ErrEmailInUse) {
			return nil, errors.BadRequest("Email already in use", err)
		}
		logger.Error("Failed to create user %s: %v", email, err)
		return nil, errors.BadGateway("Failed to create user in authentication provider", err)
	}

	signIn, err := uc.identityProvider.SignInWithEmailPassword(ctx, email, input.Password)
	if err != nil {
		logger.Error("Sign in after registration failed for %s: %v", email, err)
		return nil, errors.BadGateway("Failed to generate authentication token", err)
	}

	identity := &entity.Identity{
		UID:   signIn.UID,
		Name:  name,
		Email: email,
	}
	sess.SignIn(identity, signIn.IDToken)

	logger.Info("User %s registered", identity.UID)

	return &AuthResult{
		User:         identity,
		Token:        signIn.IDToken,
		RefreshToken: signIn.RefreshToken,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, sess SessionPublisher, input LoginInput) (*AuthResult, error) {
	signIn, err := uc.identityProvider.SignInWithEmailPassword(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidCredentials) {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		logger.Error("Login failed: %v", err)
		return nil, errors.BadGateway("Failed to sign in", err)
	}

	identity := &entity.Identity{
		UID:   signIn.UID,
		Name:  signIn.DisplayName,
		Email: signIn.Email,
	}

	// Older accounts may have no display name in the sign-in response.
	if identity.Name == "" {
		verified, err := uc.identityProvider.VerifyToken(ctx, signIn.IDToken)
		if err != nil {
			logger.Warn("Could not load profile for %s: %v", signIn.UID, err)
		} else {
			identity.Name = verified.Name
		}
	}

	sess.SignIn(identity, signIn.IDToken)

	return &AuthResult{
		User:         identity,
		Token:        signIn.IDToken,
		RefreshToken: signIn.RefreshToken,
	}, nil
}

// Logout signs the session out. When revoke is set, every refresh token of
// the user is invalidated as well.
func (uc *AuthUseCase) Logout(ctx context.Context, sess SessionPublisher, identity *entity.Identity, revoke bool) error {
	sess.SignOut()

	if revoke && identity != nil {
		if err := uc.identityProvider.RevokeSessions(ctx, identity.UID); err != nil {
			logger.Warn("Failed to revoke sessions of %s: %v", identity.UID, err)
			return errors.BadGateway("Failed to revoke sessions", err)
		}
	}

	return nil
}

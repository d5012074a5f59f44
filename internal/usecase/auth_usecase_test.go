package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/service"
	apperrors "webcarros/pkg/errors"
)

func TestAuthUseCase_Register(t *testing.T) {
	provider := new(MockIdentityProvider)
	uc := NewAuthUseCase(provider)
	sess := &recordingSession{}

	provider.On("CreateUser", mock.Anything, "maria@webcarros.dev", "secret123", "Maria").Return("user-1", nil)
	provider.On("SignInWithEmailPassword", mock.Anything, "maria@webcarros.dev", "secret123").
		Return(&service.SignInResult{IDToken: "id-token", RefreshToken: "refresh", UID: "user-1"}, nil)

	result, err := uc.Register(context.Background(), sess, RegisterInput{
		Name:     " Maria ",
		Email:    "maria@webcarros.dev",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-token", result.Token)
	assert.Equal(t, &entity.Identity{UID: "user-1", Name: "Maria", Email: "maria@webcarros.dev"}, result.User)
	assert.Equal(t, 1, sess.signIns)
	assert.Equal(t, "id-token", sess.token)
	assert.Equal(t, "Maria", sess.identity.Name)
}

func TestAuthUseCase_RegisterEmailInUse(t *testing.T) {
	provider := new(MockIdentityProvider)
	uc := NewAuthUseCase(provider)
	sess := &recordingSession{}

	provider.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: maria@webcarros.dev", service.ErrEmailInUse))

	_, err := uc.Register(context.Background(), sess, RegisterInput{Name: "Maria", Email: "maria@webcarros.dev", Password: "secret123"})
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
	assert.Zero(t, sess.signIns)
}

func TestAuthUseCase_Login(t *testing.T) {
	provider := new(MockIdentityProvider)
	uc := NewAuthUseCase(provider)
	sess := &recordingSession{}

	provider.On("SignInWithEmailPassword", mock.Anything, "maria@webcarros.dev", "secret123").
		Return(&service.SignInResult{IDToken: "id-token", UID: "user-1", Email: "maria@webcarros.dev"}, nil)
	provider.On("VerifyToken", mock.Anything, "id-token").
		Return(&entity.Identity{UID: "user-1", Name: "Maria"}, nil)

	result, err := uc.Login(context.Background(), sess, LoginInput{Email: "maria@webcarros.dev", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "Maria", result.User.Name)
	assert.Equal(t, "Maria", sess.identity.Name)
}

func TestAuthUseCase_LoginInvalidCredentials(t *testing.T) {
	provider := new(MockIdentityProvider)
	uc := NewAuthUseCase(provider)
	sess := &recordingSession{}

	provider.On("SignInWithEmailPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("rejected: %w", service.ErrInvalidCredentials))

	_, err := uc.Login(context.Background(), sess, LoginInput{Email: "maria@webcarros.dev", Password: "nope"})
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
	assert.Zero(t, sess.signIns)

	provider.ExpectedCalls = nil
	provider.On("SignInWithEmailPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err = uc.Login(context.Background(), sess, LoginInput{Email: "maria@webcarros.dev", Password: "nope"})
	assert.True(t, apperrors.Is(err, "UPSTREAM_ERROR"))
}

func TestAuthUseCase_Logout(t *testing.T) {
	provider := new(MockIdentityProvider)
	uc := NewAuthUseCase(provider)
	sess := &recordingSession{identity: seller, token: "tok"}

	require.NoError(t, uc.Logout(context.Background(), sess, seller, false))
	assert.Equal(t, 1, sess.signOuts)
	assert.Nil(t, sess.identity)
	provider.AssertNotCalled(t, "RevokeSessions", mock.Anything, mock.Anything)

	provider.On("RevokeSessions", mock.Anything, "user-1").Return(nil)
	require.NoError(t, uc.Logout(context.Background(), sess, seller, true))
	provider.AssertExpectations(t)
}

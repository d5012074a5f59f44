package firebase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"webcarros/internal/domain/entity"
	"webcarros/internal/domain/service"
)

var _ service.IdentityProvider = (*FirebaseAuthClient)(nil)

type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
	// identityToolkitURL is overridable for tests and the auth emulator.
	identityToolkitURL string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:             client,
		apiKey:             apiKey,
		httpClient:         &http.Client{Timeout: 15 * time.Second},
		identityToolkitURL: "https://identitytoolkit.googleapis.com/v1",
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("%w: %s", service.ErrEmailInUse, email)
		}
		return "", err
	}

	return user.UID, nil
}

// VerifyToken checks an ID token and returns who it belongs to. The display
// name comes from the token when present and from the user record otherwise,
// since tokens minted before the profile was set do not carry it.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*entity.Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	identity := &entity.Identity{UID: result.UID}
	if name, ok := result.Claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := result.Claims["email"].(string); ok {
		identity.Email = email
	}

	if identity.Name == "" {
		user, err := f.client.GetUser(ctx, result.UID)
		if err != nil {
			return nil, err
		}
		identity.Name = user.DisplayName
		if identity.Email == "" {
			identity.Email = user.Email
		}
	}

	return identity, nil
}

// RevokeSessions invalidates every refresh token of the user.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"webcarros/internal/domain/service"
)

type identityToolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailPassword exchanges credentials for an ID token. The Admin SDK
// cannot check passwords, so this goes through the public REST endpoint with
// the web API key.
func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*service.SignInResult, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("firebase api key is not configured")
	}

	body, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", f.identityToolkitURL, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr identityToolkitError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error.Message == "" {
			return nil, fmt.Errorf("sign in failed with status %d", resp.StatusCode)
		}
		return nil, &SignInError{Reason: apiErr.Error.Message}
	}

	var result service.SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sign in response: %w", err)
	}

	return &result, nil
}

// SignInError is a rejection from the identity provider, such as
// INVALID_PASSWORD or EMAIL_NOT_FOUND.
type SignInError struct {
	Reason string
}

func (e *SignInError) Error() string {
	return "sign in rejected: " + e.Reason
}

func (e *SignInError) Unwrap() error {
	// Reasons may carry a suffix, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	switch strings.TrimSpace(strings.SplitN(e.Reason, ":", 2)[0]) {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		return service.ErrInvalidCredentials
	}
	return nil
}

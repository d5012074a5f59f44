package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"webcarros/internal/domain/entity"
	"webcarros/internal/session"
	"webcarros/pkg/errors"
	"webcarros/pkg/response"
)

const (
	sessionKey  = "session"
	identityKey = "identity"
	uidKey      = "uid"
)

type SessionMiddleware struct {
	registry     *session.Registry
	cookieName   string
	secureCookie bool
}

func NewSessionMiddleware(registry *session.Registry, cookieName string, secureCookie bool) *SessionMiddleware {
	return &SessionMiddleware{
		registry:     registry,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// Attach puts the caller's session on the context. A bearer token gets a
// throwaway session that verifies it; otherwise the session cookie is used,
// issuing a new one when missing or unknown.
func (m *SessionMiddleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c.Request()); ok {
			sess := m.registry.Ephemeral(token)
			defer sess.Close()
			c.Set(sessionKey, sess)
			return next(c)
		}

		var id string
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			id = cookie.Value
		}

		sess, created := m.registry.Open(id)
		if created {
			c.SetCookie(&http.Cookie{
				Name:     m.cookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(sessionKey, sess)
		return next(c)
	}
}

// RequireUser waits for the session to finish loading and rejects the
// request when nobody is signed in.
func (m *SessionMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := SessionFrom(c)
		if sess == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		state, err := sess.Store.Wait(c.Request().Context())
		if err != nil {
			return response.Error(c, errors.Unavailable("Session is still loading", err))
		}
		if !state.Signed() {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		c.Set(identityKey, state.Identity)
		c.Set(uidKey, state.Identity.UID)
		return next(c)
	}
}

// RequireCookieSession rejects bearer-token requests on routes that build on
// the session's working set, which does not outlive a bearer request.
func (m *SessionMiddleware) RequireCookieSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if sess := SessionFrom(c); sess != nil && sess.Ephemeral() {
			return response.Error(c, errors.BadRequest("Drafts require a session cookie", nil))
		}
		return next(c)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func SessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionKey).(*session.Session)
	return sess
}

func IdentityFrom(c echo.Context) *entity.Identity {
	identity, _ := c.Get(identityKey).(*entity.Identity)
	return identity
}

func UIDFrom(c echo.Context) string {
	uid, _ := c.Get(uidKey).(string)
	return uid
}

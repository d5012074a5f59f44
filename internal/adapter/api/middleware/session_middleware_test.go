package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcarros/internal/domain/entity"
	"webcarros/internal/session"
)

type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(_ context.Context, token string) (*entity.Identity, error) {
	if token == "good" {
		return &entity.Identity{UID: "user-1", Name: "Maria"}, nil
	}
	return nil, errors.New("bad token")
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"missing":     {"", "", false},
		"bearer":      {"Bearer abc", "abc", true},
		"lowercase":   {"bearer abc", "abc", true},
		"basic":       {"Basic abc", "", false},
		"empty token": {"Bearer  ", "", false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			token, ok := bearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func newMiddleware() (*SessionMiddleware, *session.Registry) {
	registry := session.NewRegistry(tokenVerifier{}, time.Hour)
	return NewSessionMiddleware(registry, "webcarros_session", false), registry
}

func run(m *SessionMiddleware, req *http.Request, next echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	m.Attach(m.RequireUser(next))(c)
	return rec
}

func TestRequireUserWithBearer(t *testing.T) {
	m, registry := newMiddleware()
	defer registry.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	var uid string
	rec := run(m, req, func(c echo.Context) error {
		uid = UIDFrom(c)
		assert.Equal(t, "Maria", IdentityFrom(c).Name)
		assert.True(t, SessionFrom(c).Ephemeral())
		return c.NoContent(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", uid)
	assert.Equal(t, 0, registry.Len())
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	m, registry := newMiddleware()
	defer registry.Close()

	called := false
	rec := run(m, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) error {
		called = true
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Equal(t, 1, registry.Len())
}

func TestAttachReusesCookieSession(t *testing.T) {
	m, registry := newMiddleware()
	defer registry.Close()

	e := echo.New()
	var first *session.Session

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, m.Attach(func(c echo.Context) error {
		first = SessionFrom(c)
		return nil
	})(c))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, first.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, m.Attach(func(c echo.Context) error {
		assert.Same(t, first, SessionFrom(c))
		return nil
	})(c))
	assert.Empty(t, rec.Result().Cookies())
}

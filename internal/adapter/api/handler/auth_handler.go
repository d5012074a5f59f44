package handler

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/middleware"
	"webcarros/internal/usecase"
	"webcarros/pkg/errors"
	"webcarros/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := middleware.SessionFrom(c)
	if sess == nil {
		return response.Error(c, errors.Internal("Session is not attached", nil))
	}

	result, err := h.authUseCase.Register(c.Request().Context(), sess.Notifier, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := middleware.SessionFrom(c)
	if sess == nil {
		return response.Error(c, errors.Internal("Session is not attached", nil))
	}

	result, err := h.authUseCase.Login(c.Request().Context(), sess.Notifier, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// Logout signs the session out. Bearer callers, and callers passing
// ?revoke=true, also have their refresh tokens revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	identity := middleware.IdentityFrom(c)

	revoke := sess.Ephemeral() || c.QueryParam("revoke") == "true"
	if err := h.authUseCase.Logout(c.Request().Context(), sess.Notifier, identity, revoke); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Signed out",
	})
}

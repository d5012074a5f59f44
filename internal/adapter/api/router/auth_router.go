package router

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/handler"
	"webcarros/internal/adapter/api/middleware"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(v1 *echo.Group, sessionMiddleware *middleware.SessionMiddleware) {
	authHandler := handler.GetAuthHandler()

	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, sessionMiddleware.RequireUser)
}

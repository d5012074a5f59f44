package router

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/handler"
)

func SetupSessionRouter(v1 *echo.Group) {
	sessionHandler := handler.GetSessionHandler()

	v1.GET("/session", sessionHandler.GetSession)
	v1.GET("/session/stream", sessionHandler.Stream)
}

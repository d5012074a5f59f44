package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, metricsHandler http.Handler) {
	SetupHealthRouter(e, metricsHandler)

	v1 := e.Group("/v1", sessionMiddleware.Attach)
	SetupAuthRouter(v1, sessionMiddleware)
	SetupSessionRouter(v1)
	SetupListingRouter(v1, sessionMiddleware)
	SetupDraftRouter(v1, sessionMiddleware)
}

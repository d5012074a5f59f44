package router

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/handler"
	"webcarros/internal/adapter/api/middleware"
)

func SetupDraftRouter(v1 *echo.Group, sessionMiddleware *middleware.SessionMiddleware) {
	draftHandler := handler.GetDraftHandler()

	drafts := v1.Group("/drafts/images", sessionMiddleware.RequireCookieSession, sessionMiddleware.RequireUser)
	drafts.GET("", draftHandler.ListImages)
	drafts.POST("", draftHandler.UploadImages)
	drafts.GET("/:name/preview", draftHandler.PreviewImage)
	drafts.DELETE("/:name", draftHandler.DeleteImage)

	v1.GET("/my-uploads", draftHandler.ListUploads, sessionMiddleware.RequireUser)
}

package router

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/handler"
	"webcarros/internal/adapter/api/middleware"
)

func SetupListingRouter(v1 *echo.Group, sessionMiddleware *middleware.SessionMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Public routes
	v1.GET("/listings", listingHandler.ListListings)
	v1.GET("/listings/:id", listingHandler.GetListing)

	// Owner dashboard
	mine := v1.Group("/my-listings", sessionMiddleware.RequireUser)
	mine.POST("", listingHandler.CreateListing, sessionMiddleware.RequireCookieSession)
	mine.GET("", listingHandler.ListMyListings)
	mine.DELETE("/:id", listingHandler.DeleteMyListing)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/middleware"
	"webcarros/internal/usecase"
	"webcarros/pkg/errors"
	"webcarros/pkg/response"
)

type ListingHandler struct {
	listingUseCase  *usecase.ListingUseCase
	composerUseCase *usecase.ComposerUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, composerUseCase *usecase.ComposerUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase:  listingUseCase,
		composerUseCase: composerUseCase,
	}
}

// ListListings serves the public feed, or a name-prefix search when q is set.
func (h *ListingHandler) ListListings(c echo.Context) error {
	listings, err := h.listingUseCase.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, listings, len(listings))
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	detail, err := h.listingUseCase.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req usecase.ListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := middleware.SessionFrom(c)
	listing, err := h.composerUseCase.Submit(c.Request().Context(), middleware.IdentityFrom(c), sess.Draft, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	listings, err := h.listingUseCase.ListByOwner(c.Request().Context(), middleware.UIDFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, listings, len(listings))
}

func (h *ListingHandler) DeleteMyListing(c echo.Context) error {
	id := c.Param("id")
	if err := h.listingUseCase.DeleteOwn(c.Request().Context(), middleware.UIDFrom(c), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing deleted",
		"id":      id,
	})
}

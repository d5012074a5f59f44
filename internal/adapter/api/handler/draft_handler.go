package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/middleware"
	"webcarros/internal/usecase"
	"webcarros/pkg/errors"
	"webcarros/pkg/logger"
	"webcarros/pkg/response"
)

type DraftHandler struct {
	mediaUseCase *usecase.MediaUseCase
}

func NewDraftHandler(mediaUseCase *usecase.MediaUseCase) *DraftHandler {
	return &DraftHandler{
		mediaUseCase: mediaUseCase,
	}
}

func (h *DraftHandler) ListImages(c echo.Context) error {
	items := middleware.SessionFrom(c).Draft.Snapshot().Items()
	return response.List(c, items, len(items))
}

// UploadImages accepts one or more images in the multipart field "files".
func (h *DraftHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Expected a multipart form", err))
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return response.Error(c, errors.BadRequest("Missing files", nil))
	}

	inputs := make([]usecase.UploadInput, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			logger.Error("Error opening uploaded file %s: %v", header.Filename, err)
			return response.Error(c, errors.BadRequest("Failed to read "+header.Filename, err))
		}
		defer file.Close()

		inputs = append(inputs, usecase.UploadInput{
			Filename:    header.Filename,
			ContentType: contentTypeOf(header),
			Size:        header.Size,
			Content:     file,
		})
	}

	sess := middleware.SessionFrom(c)
	result, err := h.mediaUseCase.Upload(c.Request().Context(), middleware.UIDFrom(c), sess.Draft, inputs)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func contentTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *DraftHandler) PreviewImage(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	body, contentType, err := h.mediaUseCase.Preview(c.Request().Context(), sess.Draft, c.Param("name"))
	if err != nil {
		return response.Error(c, err)
	}
	defer body.Close()

	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Stream(http.StatusOK, contentType, body)
}

func (h *DraftHandler) DeleteImage(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	items, err := h.mediaUseCase.Delete(c.Request().Context(), middleware.UIDFrom(c), sess.Draft, c.Param("name"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, items, len(items))
}

func (h *DraftHandler) ListUploads(c echo.Context) error {
	uploads, err := h.mediaUseCase.ListUploads(c.Request().Context(), middleware.UIDFrom(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, uploads, len(uploads))
}

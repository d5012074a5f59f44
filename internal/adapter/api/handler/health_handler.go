package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	sessions func() int
}

var healthHandler *HealthHandler

func NewHealthHandler(sessions func() int) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
	}
}

func SetupHealthHandler(sessions func() int) {
	healthHandler = NewHealthHandler(sessions)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions()
	}
	return c.JSON(http.StatusOK, body)
}

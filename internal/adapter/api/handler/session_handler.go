package handler

import (
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"webcarros/internal/adapter/api/middleware"
	ws "webcarros/internal/infrastructure/websocket"
	"webcarros/pkg/errors"
	"webcarros/pkg/response"
)

type SessionHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

func NewSessionHandler(wsManager *ws.Manager) *SessionHandler {
	return &SessionHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// GetSession reports who is signed in, waiting for the session to finish
// loading first.
func (h *SessionHandler) GetSession(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	state, err := sess.Store.Wait(c.Request().Context())
	if err != nil {
		return response.Error(c, errors.Unavailable("Session is still loading", err))
	}

	return response.Success(c, state)
}

// Stream upgrades to a WebSocket that receives the session state on connect
// and after every sign-in or sign-out.
func (h *SessionHandler) Stream(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess.Ephemeral() {
		return response.Error(c, errors.BadRequest("Session streams require a session cookie", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	h.wsManager.Follow(&ws.Client{
		ID:        uuid.New().String(),
		SessionID: sess.ID,
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}, sess.Store)

	return nil
}

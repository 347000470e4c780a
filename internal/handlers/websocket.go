package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "github.com/thereayou/chat-rooms/internal/websocket"
	"github.com/thereayou/chat-rooms/pkg/auth"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// WebSocketHandler аутентифицирует соединение и передаёт его ChatServer
type WebSocketHandler struct {
	chat     *ws.ChatServer
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWebSocketHandler(chat *ws.ChatServer, allowedOrigins []string, log *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     OriginChecker(allowedOrigins),
		},
		log: log,
	}
}

// HandleWebSocket до апгрейда проверяет токен, при ошибке отвечает 401
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token, err := auth.ExtractToken(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": apperrors.Reason(apperrors.ErrUnauthenticated)})
		return
	}

	session, err := h.chat.Connect(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ws.ErrServerClosed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "ServerClosed"})
			return
		}
		c.JSON(apperrors.HTTPStatus(err), gin.H{"success": false, "error": apperrors.Reason(err)})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Info("websocket upgrade failed", "error", err)
		session.Close()
		return
	}

	// операции сессии не отменяются вместе с запросом
	ws.NewClient(conn, session, h.log).Serve(context.WithoutCancel(c.Request.Context()))
}

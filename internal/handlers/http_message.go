package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/chat-rooms/internal/handlers/dto"
	"github.com/thereayou/chat-rooms/internal/middleware"
	"github.com/thereayou/chat-rooms/internal/models"
	"github.com/thereayou/chat-rooms/internal/services"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

type MessagePager interface {
	FetchPage(ctx context.Context, chatID string, page, limit int) (*services.Page, error)
	DeleteMessage(ctx context.Context, messageID, requesterID string) (*models.ChatMessage, error)
}

type ChatAuthorizer interface {
	Authorize(ctx context.Context, chatID, userID string) error
}

type HTTPMessageHandler struct {
	messages MessagePager
	access   ChatAuthorizer
	log      *slog.Logger
}

func NewHTTPMessageHandler(messages MessagePager, access ChatAuthorizer, log *slog.Logger) *HTTPMessageHandler {
	return &HTTPMessageHandler{messages: messages, access: access, log: log}
}

// GetChatMessages страница истории чата, новые сообщения первыми
func (h *HTTPMessageHandler) GetChatMessages(c *gin.Context) {
	userID := middleware.UserID(c)
	chatID := c.Param("chatId")

	var query dto.MessagePageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, apperrors.ErrValidation)
		return
	}

	if err := h.access.Authorize(c.Request.Context(), chatID, userID); err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.messages.FetchPage(c.Request.Context(), chatID, query.Page, query.Limit)
	if err != nil {
		h.log.Error("fetch message page", "chat", chatID, "error", err)
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessagePageResponse{
		Success:     true,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Messages:    page.Messages,
	})
}

// DeleteMessage удаляет сообщение автора. Участникам чата удаление не рассылается.
func (h *HTTPMessageHandler) DeleteMessage(c *gin.Context) {
	deleted, err := h.messages.DeleteMessage(c.Request.Context(), c.Param("messageId"), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResult{Success: true, DeletedID: deleted.ID})
}

func (h *HTTPMessageHandler) fail(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), dto.DeleteResult{Success: false, Error: apperrors.Reason(err)})
}

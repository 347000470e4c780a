package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/chat-rooms/internal/middleware"
	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

type UserReader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type UserHandler struct {
	users UserReader
}

func NewUserHandler(users UserReader) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"success": false, "error": apperrors.Reason(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"image": user.Image,
	})
}

// GetUser публичный профиль автора сообщения
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"success": false, "error": apperrors.Reason(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"image": user.Image,
	})
}

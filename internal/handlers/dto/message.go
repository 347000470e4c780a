package dto

import "github.com/thereayou/chat-rooms/internal/models"

// SendMessagePayload данные кадра send-message
type SendMessagePayload struct {
	Content string `json:"content" binding:"required,min=1,max=2046"`
}

// DeleteMessagePayload данные кадра delete-message
type DeleteMessagePayload struct {
	MessageID string `json:"messageId" binding:"required"`
}

// MessagePageQuery параметры GET /chats/:chatId/messages. Границы
// поправляет MessageService.FetchPage.
type MessagePageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type MessagePageResponse struct {
	Success     bool                 `json:"success"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	Messages    []models.ChatMessage `json:"messages"`
}

// DeleteResult ответ на удаление сообщения
type DeleteResult struct {
	Success   bool   `json:"success"`
	DeletedID string `json:"deletedId,omitempty"`
	Error     string `json:"error,omitempty"`
}

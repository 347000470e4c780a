package services

import (
	"context"

	"github.com/thereayou/chat-rooms/internal/models"
)

// MessageStore контракт хранилища сообщений. Реализуется database.Database.
type MessageStore interface {
	InsertMessage(ctx context.Context, chatID, authorID, content string) (string, error)
	SelectMessage(ctx context.Context, id string) (*models.ChatMessage, error)
	SelectMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]models.ChatMessage, error)
	CountMessagesByChat(ctx context.Context, chatID string) (int64, error)
	DeleteMessage(ctx context.Context, id string) (*models.ChatMessage, error)
}

type MembershipStore interface {
	SelectChatMembership(ctx context.Context, chatID, userID string) (bool, error)
}

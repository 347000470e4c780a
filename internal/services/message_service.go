package services

import (
	"context"
	"fmt"

	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

const (
	DefaultHistoryLimit = 50
	MinPageLimit        = 50
	MaxPageLimit        = 100
)

// Page страница истории сообщений чата
type Page struct {
	Messages    []models.ChatMessage
	TotalPages  int
	CurrentPage int
}

// MessageService единственный писатель сообщений. Конкурентные вставки в один
// чат не сериализуются: порядок определяет хранилище.
type MessageService struct {
	store MessageStore
}

func NewMessageService(store MessageStore) *MessageService {
	return &MessageService{store: store}
}

// SendMessage сохраняет сообщение и перечитывает его с именем автора,
// чтобы у результата был created_at из хранилища.
func (s *MessageService) SendMessage(ctx context.Context, chatID, authorID, content string) (*models.ChatMessage, error) {
	id, err := s.store.InsertMessage(ctx, chatID, authorID, content)
	if err != nil {
		return nil, err
	}

	msg, err := s.store.SelectMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: reload message %s: %v", apperrors.ErrPersistence, id, err)
	}
	return msg, nil
}

// FetchHistory последние limit сообщений чата, новые первыми
func (s *MessageService) FetchHistory(ctx context.Context, chatID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.SelectMessagesByChat(ctx, chatID, limit, 0)
}

// FetchPage постраничная история. Страница за пределами totalPages прижимается
// к последней существующей.
func (s *MessageService) FetchPage(ctx context.Context, chatID string, page, limit int) (*Page, error) {
	limit = clampLimit(limit)
	if page < 1 {
		page = 1
	}

	total, err := s.store.CountMessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		// пустой чат
		return &Page{Messages: []models.ChatMessage{}, TotalPages: 0, CurrentPage: 1}, nil
	}

	messages, err := s.store.SelectMessagesByChat(ctx, chatID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &Page{Messages: messages, TotalPages: totalPages, CurrentPage: page}, nil
}

// DeleteMessage удаляет сообщение, если requesterID его автор
func (s *MessageService) DeleteMessage(ctx context.Context, messageID, requesterID string) (*models.ChatMessage, error) {
	if requesterID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	msg, err := s.store.SelectMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if msg.AuthorID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	return s.store.DeleteMessage(ctx, messageID)
}

func clampLimit(limit int) int {
	switch {
	case limit < MinPageLimit:
		return MinPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return limit
	}
}

// Package testutil содержит in-memory реализации хранилищ для тестов
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// MemStore потокобезопасное хранилище сообщений и членства в чатах
type MemStore struct {
	mu       sync.Mutex
	messages map[string]models.ChatMessage
	members  map[string]map[string]bool
	names    map[string]string
	clock    time.Time

	// FailInsert заставляет InsertMessage возвращать ErrPersistence
	FailInsert bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		messages: make(map[string]models.ChatMessage),
		members:  make(map[string]map[string]bool),
		names:    make(map[string]string),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddMember делает userID участником chatID под именем name
func (s *MemStore) AddMember(chatID, userID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[chatID] == nil {
		s.members[chatID] = make(map[string]bool)
	}
	s.members[chatID][userID] = true
	s.names[userID] = name
}

// GetUser отдаёт пользователя, добавленного через AddMember
func (s *MemStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.User{ID: id, Name: name, Email: id + "@example.com"}, nil
}

func (s *MemStore) SelectChatMembership(_ context.Context, chatID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[chatID][userID], nil
}

func (s *MemStore) InsertMessage(_ context.Context, chatID, authorID, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert {
		return "", apperrors.ErrPersistence
	}

	// монотонные времена, чтобы порядок в тестах был детерминированным
	s.clock = s.clock.Add(time.Second)
	msg := models.ChatMessage{
		ID:         models.NewID(),
		ChatID:     chatID,
		AuthorID:   authorID,
		AuthorName: s.names[authorID],
		Content:    content,
		CreatedAt:  s.clock,
	}
	s.messages[msg.ID] = msg
	return msg.ID, nil
}

func (s *MemStore) SelectMessage(_ context.Context, id string) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &msg, nil
}

func (s *MemStore) SelectMessagesByChat(_ context.Context, chatID string, limit, offset int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, 0)
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []models.ChatMessage{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) CountMessagesByChat(_ context.Context, chatID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.messages {
		if m.ChatID == chatID {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) DeleteMessage(_ context.Context, id string) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(s.messages, id)
	return &msg, nil
}

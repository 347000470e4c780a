package database

import (
	"context"

	"github.com/thereayou/chat-rooms/internal/models"
	"gorm.io/gorm/clause"
)

func (d *Database) CreateChat(ctx context.Context, chat *models.Chat) error {
	if err := d.db.WithContext(ctx).Omit(clause.Associations).Create(chat).Error; err != nil {
		return persistence("create chat", err)
	}
	return nil
}

func (d *Database) AddUserToChat(ctx context.Context, chatID, userID string) error {
	member := &models.ChatUser{ChatID: chatID, UserID: userID}
	if err := d.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error; err != nil {
		return persistence("add chat member", err)
	}
	return nil
}

// SelectChatMembership проверяет, состоит ли пользователь в чате
func (d *Database) SelectChatMembership(ctx context.Context, chatID, userID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, persistence("select chat membership", err)
	}
	return count > 0, nil
}

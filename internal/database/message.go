package database

import (
	"context"
	"errors"

	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const chatMessageColumns = "messages.id, messages.chat_id, messages.author_id, " +
	"COALESCE(users.name, '') AS author_name, messages.content, messages.created_at"

func (d *Database) chatMessages(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Table("messages").
		Select(chatMessageColumns).
		Joins("LEFT JOIN users ON users.id = messages.author_id")
}

// InsertMessage сохраняет сообщение, id и created_at назначаются при вставке
func (d *Database) InsertMessage(ctx context.Context, chatID, authorID, content string) (string, error) {
	message := &models.Message{
		ChatID:   chatID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := d.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error; err != nil {
		return "", persistence("insert message", err)
	}
	return message.ID, nil
}

// SelectMessage читает одно сообщение вместе с именем автора
func (d *Database) SelectMessage(ctx context.Context, id string) (*models.ChatMessage, error) {
	var rows []models.ChatMessage
	err := d.chatMessages(ctx).
		Where("messages.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, persistence("select message", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &rows[0], nil
}

// SelectMessagesByChat возвращает страницу сообщений чата, новые первыми
func (d *Database) SelectMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]models.ChatMessage, error) {
	rows := make([]models.ChatMessage, 0, limit)
	err := d.chatMessages(ctx).
		Where("messages.chat_id = ?", chatID).
		Order("messages.created_at DESC").
		Order("messages.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, persistence("select messages", err)
	}
	return rows, nil
}

func (d *Database) CountMessagesByChat(ctx context.Context, chatID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	if err != nil {
		return 0, persistence("count messages", err)
	}
	return count, nil
}

// DeleteMessage удаляет сообщение и возвращает удалённую строку
func (d *Database) DeleteMessage(ctx context.Context, id string) (*models.ChatMessage, error) {
	var deleted *models.ChatMessage
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.ChatMessage
		if err := tx.Table("messages").
			Select(chatMessageColumns).
			Joins("LEFT JOIN users ON users.id = messages.author_id").
			Where("messages.id = ?", id).
			Limit(1).
			Scan(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperrors.ErrNotFound
		}

		result := tx.Delete(&models.Message{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}

		deleted = &rows[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, persistence("delete message", err)
	}
	return deleted, nil
}

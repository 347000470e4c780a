package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID        string    `gorm:"primaryKey;size:24"`
	ChatID    string    `gorm:"size:24;not null;index:idx_messages_chat_created,priority:1"`
	AuthorID  string    `gorm:"size:24;not null"`
	Content   string    `gorm:"size:2046"`
	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2"`
	UpdatedAt time.Time

	// Связи
	Chat   Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

// ChatMessage сообщение вместе с именем автора, в таком виде оно уходит клиентам
type ChatMessage struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

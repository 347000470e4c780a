package models

import (
	"time"

	"gorm.io/gorm"
)

type Chat struct {
	ID              string `gorm:"primaryKey;size:24"`
	Chatname        string `gorm:"not null"`
	ChatLetters     string `gorm:"size:2;not null;default:'CA'"`
	ChatDescription string `gorm:"size:256"`
	ChatAdmin       string `gorm:"size:24;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Связи
	Admin User `gorm:"foreignKey:ChatAdmin"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// ChatUser членство пользователя в чате
type ChatUser struct {
	ChatID string `gorm:"primaryKey;size:24"`
	UserID string `gorm:"primaryKey;size:24"`

	Chat Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (ChatUser) TableName() string {
	return "chats_users"
}

package models

import "gorm.io/gorm"

type User struct {
	ID       string `gorm:"primaryKey;size:24"`
	Name     string
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Image    string
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

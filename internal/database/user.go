package database

import (
	"context"
	"errors"

	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		return persistence("save user", err)
	}
	return nil
}

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, persistence("get user", err)
	}
	return &user, nil
}

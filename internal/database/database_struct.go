package database

import (
	"fmt"

	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrPersistence, op, err)
}

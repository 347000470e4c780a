package database

import (
	"errors"

	"github.com/thereayou/chat-rooms/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect открывает postgres по DSN и применяет миграции
func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	d.db = db
	return d.Migrate()
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(&models.User{}, &models.Chat{}, &models.ChatUser{}, &models.Message{})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thereayou/chat-rooms/internal/models"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// setupTestDB поднимает in-memory SQLite с той же схемой, что и в postgres
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: создаёт отдельную базу на каждое соединение
	sqlDB.SetMaxOpenConns(1)

	d := NewDatabase(db)
	require.NoError(t, d.Migrate())
	return d
}

type fixture struct {
	alice, bob *models.User
	chat       *models.Chat
}

func seed(t *testing.T, d *Database) fixture {
	t.Helper()
	ctx := context.Background()

	alice := &models.User{Name: "alice", Email: "alice@example.com", Password: "x"}
	bob := &models.User{Name: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, d.SaveUser(ctx, alice))
	require.NoError(t, d.SaveUser(ctx, bob))

	chat := &models.Chat{Chatname: "general", ChatLetters: "GE", ChatAdmin: alice.ID}
	require.NoError(t, d.CreateChat(ctx, chat))
	require.NoError(t, d.AddUserToChat(ctx, chat.ID, alice.ID))

	return fixture{alice: alice, bob: bob, chat: chat}
}

func TestDatabase_IDsAreGenerated(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)

	assert.Len(t, f.alice.ID, models.IDLength)
	assert.Len(t, f.chat.ID, models.IDLength)
	assert.NotEqual(t, f.alice.ID, f.bob.ID)
}

func TestDatabase_InsertAndSelectMessage(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)
	ctx := context.Background()

	id, err := d.InsertMessage(ctx, f.chat.ID, f.alice.ID, "hello")
	require.NoError(t, err)
	assert.Len(t, id, models.IDLength)

	msg, err := d.SelectMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, f.chat.ID, msg.ChatID)
	assert.Equal(t, f.alice.ID, msg.AuthorID)
	assert.Equal(t, "alice", msg.AuthorName)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())

	_, err = d.SelectMessage(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDatabase_SelectMessagesByChat(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)
	ctx := context.Background()

	var ids []string
	for _, content := range []string{"one", "two", "three"} {
		id, err := d.InsertMessage(ctx, f.chat.ID, f.alice.ID, content)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	other := &models.Chat{Chatname: "other", ChatLetters: "OT", ChatAdmin: f.bob.ID}
	require.NoError(t, d.CreateChat(ctx, other))
	_, err := d.InsertMessage(ctx, other.ID, f.bob.ID, "elsewhere")
	require.NoError(t, err)

	count, err := d.CountMessagesByChat(ctx, f.chat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	page, err := d.SelectMessagesByChat(ctx, f.chat.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Content)
	assert.Equal(t, "two", page[1].Content)

	page, err = d.SelectMessagesByChat(ctx, f.chat.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
}

func TestDatabase_DeleteMessage(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)
	ctx := context.Background()

	id, err := d.InsertMessage(ctx, f.chat.ID, f.alice.ID, "bye")
	require.NoError(t, err)

	deleted, err := d.DeleteMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, deleted.ID)
	assert.Equal(t, "bye", deleted.Content)

	_, err = d.DeleteMessage(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	count, err := d.CountMessagesByChat(ctx, f.chat.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDatabase_SelectChatMembership(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)
	ctx := context.Background()

	ok, err := d.SelectChatMembership(ctx, f.chat.ID, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.SelectChatMembership(ctx, f.chat.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDatabase_GetUser(t *testing.T) {
	d := setupTestDB(t)
	f := seed(t, d)

	user, err := d.GetUser(context.Background(), f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Name)

	_, err = d.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

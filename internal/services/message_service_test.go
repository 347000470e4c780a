package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/chat-rooms/internal/services"
	"github.com/thereayou/chat-rooms/internal/testutil"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

func newService(t *testing.T) (*services.MessageService, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	store.AddMember("room1", "alice", "Alice")
	return services.NewMessageService(store), store
}

func TestSendMessage_ReturnsStoredMessage(t *testing.T) {
	svc, _ := newService(t)

	msg, err := svc.SendMessage(context.Background(), "room1", "alice", "hello")
	require.NoError(t, err)

	assert.Len(t, msg.ID, 24)
	assert.Equal(t, "room1", msg.ChatID)
	assert.Equal(t, "alice", msg.AuthorID)
	assert.Equal(t, "Alice", msg.AuthorName)
	assert.Equal(t, "hello", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestSendMessage_PersistenceError(t *testing.T) {
	svc, store := newService(t)
	store.FailInsert = true

	_, err := svc.SendMessage(context.Background(), "room1", "alice", "hello")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestFetchHistory_NewestFirstAndLimited(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(ctx, "room1", "alice", fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	msgs, err := svc.FetchHistory(ctx, "room1", 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m4", msgs[0].Content)
	assert.Equal(t, "m2", msgs[2].Content)

	empty, err := svc.FetchHistory(ctx, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFetchPage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		_, err := svc.SendMessage(ctx, "room1", "alice", fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}

	tests := []struct {
		name        string
		page, limit int
		wantPages   int
		wantCurrent int
		wantLen     int
	}{
		{"first page default limit", 1, 0, 3, 1, 50},
		{"last page partial", 3, 50, 3, 3, 20},
		{"page beyond end clamps", 10, 50, 3, 3, 20},
		{"page below one", -2, 50, 3, 1, 50},
		{"limit capped at 100", 2, 500, 2, 2, 20},
		{"limit raised to 50", 1, 10, 3, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.FetchPage(ctx, "room1", tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantCurrent, page.CurrentPage)
			assert.Len(t, page.Messages, tt.wantLen)
		})
	}
}

func TestFetchPage_EmptyChat(t *testing.T) {
	svc, _ := newService(t)

	page, err := svc.FetchPage(context.Background(), "room1", 3, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.NotNil(t, page.Messages)
	assert.Empty(t, page.Messages)
}

func TestDeleteMessage(t *testing.T) {
	svc, store := newService(t)
	store.AddMember("room1", "bob", "Bob")
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, "room1", "alice", "hello")
	require.NoError(t, err)

	_, err = svc.DeleteMessage(ctx, msg.ID, "bob")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.DeleteMessage(ctx, "missing", "alice")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.DeleteMessage(ctx, msg.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	deleted, err := svc.DeleteMessage(ctx, msg.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, msg.ID, deleted.ID)

	_, err = svc.DeleteMessage(ctx, msg.ID, "alice")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

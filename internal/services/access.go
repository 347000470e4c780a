package services

import (
	"context"

	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// AccessControl проверяет членство пользователя в чате перед операциями с сообщениями
type AccessControl struct {
	members MembershipStore
}

func NewAccessControl(members MembershipStore) *AccessControl {
	return &AccessControl{members: members}
}

func (a *AccessControl) Authorize(ctx context.Context, chatID, userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}
	ok, err := a.members.SelectChatMembership(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

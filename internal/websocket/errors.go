package websocket

import (
	"errors"
	"fmt"

	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

var (
	ErrUnknownConnection = errors.New("connection is not registered")
	ErrSessionClosed     = errors.New("session is closed")
	ErrServerClosed      = errors.New("chat server is shut down")

	// Ошибки разбора кадра отдаются клиенту как ValidationError
	ErrInvalidFrame = fmt.Errorf("%w: invalid frame format", apperrors.ErrValidation)
	ErrUnknownType  = fmt.Errorf("%w: unknown frame type", apperrors.ErrValidation)
)

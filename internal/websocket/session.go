package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/thereayou/chat-rooms/internal/handlers/dto"
	"github.com/thereayou/chat-rooms/internal/services"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

// State состояние соединения. Комнаты, в которых состоит соединение,
// хранит Registry.
type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session одно соединение клиента от рукопожатия до отключения. Команды одной
// сессии обрабатываются последовательно, разные сессии работают параллельно.
type Session struct {
	id      uuid.UUID
	server  *ChatServer
	out     *Outbox
	limiter *rate.Limiter
	log     *slog.Logger

	mu       sync.RWMutex
	state    State
	identity services.Identity
}

func newSession(server *ChatServer) *Session {
	id := uuid.New()
	limit := rate.Limit(server.opts.SendRate)
	if server.opts.SendRate <= 0 {
		limit = rate.Inf
	}
	return &Session{
		id:      id,
		server:  server,
		out:     NewOutbox(server.opts.QueueSize),
		limiter: rate.NewLimiter(limit, server.opts.SendBurst),
		log:     server.log.With("connection", id),
		state:   StateConnecting,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Outbox() *Outbox { return s.out }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity пользователь сессии, ok=false до аутентификации
func (s *Session) Identity() (services.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.state == StateAuthenticated
}

// Enqueue реализует Peer
func (s *Session) Enqueue(frame []byte) bool {
	accepted, dropped := s.out.Push(frame)
	if dropped > 0 {
		s.server.metrics.Dropped(dropped)
		s.log.Warn("outbound queue full, dropped oldest frame", "queue_size", s.server.opts.QueueSize)
	}
	return accepted
}

// Authenticate переводит сессию в Authenticated и регистрирует её в Registry.
// При ошибке сессия закрывается.
func (s *Session) Authenticate(ctx context.Context, token string) error {
	switch s.State() {
	case StateDisconnected:
		return ErrSessionClosed
	case StateAuthenticated:
		return fmt.Errorf("session %s is already authenticated", s.id)
	}

	identity, err := s.server.auth.VerifyCredential(ctx, token)
	if err != nil {
		s.server.metrics.AuthFailure()
		s.log.Info("authentication failed", "error", err)
		s.Close()
		return err
	}

	s.mu.Lock()
	if s.state != StateConnecting {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.state = StateAuthenticated
	s.identity = *identity
	s.server.registry.Register(s)
	s.mu.Unlock()

	s.server.refreshGauges()
	s.log.Info("connection authenticated", "user", identity.UserID)
	return nil
}

// HandleFrame разбирает сырой кадр и выполняет команду
func (s *Session) HandleFrame(ctx context.Context, raw []byte) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		s.log.Debug("bad frame", "error", err)
		s.reply(TypeError, "", "", nil, apperrors.Reason(err))
		return
	}
	s.Handle(ctx, cmd)
}

// Handle выполняет одну команду. Ошибки уходят только этому соединению.
func (s *Session) Handle(ctx context.Context, cmd Command) {
	if cmd.Kind == CommandDisconnect {
		s.Close()
		return
	}

	identity, ok := s.Identity()
	if !ok {
		if s.State() == StateConnecting {
			s.fail(cmd, apperrors.ErrUnauthenticated)
		}
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		s.join(ctx, identity, cmd)
	case CommandSend:
		s.send(ctx, identity, cmd)
	case CommandDelete:
		s.deleteMessage(ctx, identity, cmd)
	case CommandLeave:
		s.leave(cmd)
	default:
		s.fail(cmd, ErrUnknownType)
	}
}

func (s *Session) join(ctx context.Context, identity services.Identity, cmd Command) {
	if cmd.RoomID == "" {
		s.fail(cmd, fmt.Errorf("%w: roomId is required", apperrors.ErrValidation))
		return
	}

	if err := s.server.access.Authorize(ctx, cmd.RoomID, identity.UserID); err != nil {
		s.log.Info("join rejected", "user", identity.UserID, "room", cmd.RoomID, "error", err)
		s.fail(cmd, err)
		return
	}

	added, err := s.server.registry.Join(s.id, cmd.RoomID)
	if err != nil {
		// сессия закрылась, пока шла проверка доступа
		return
	}
	if added {
		s.server.refreshGauges()
		s.log.Info("joined room", "user", identity.UserID, "room", cmd.RoomID)
	}

	history, err := s.server.messages.FetchHistory(ctx, cmd.RoomID, s.server.opts.HistoryLimit)
	if err != nil {
		s.server.metrics.PersistenceFailure()
		s.log.Error("fetch history", "room", cmd.RoomID, "error", err)
		s.fail(cmd, err)
		return
	}

	s.reply(TypeInitialMessages, cmd.RoomID, cmd.AckID, history, "")
}

func (s *Session) send(ctx context.Context, identity services.Identity, cmd Command) {
	if cmd.RoomID == "" {
		return
	}

	if err := binding.Validator.ValidateStruct(&dto.SendMessagePayload{Content: cmd.Content}); err != nil {
		s.fail(cmd, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	if !s.limiter.Allow() {
		s.fail(cmd, apperrors.ErrRateLimited)
		return
	}

	if err := s.server.access.Authorize(ctx, cmd.RoomID, identity.UserID); err != nil {
		s.fail(cmd, err)
		return
	}

	msg, err := s.server.messages.SendMessage(ctx, cmd.RoomID, identity.UserID, cmd.Content)
	if err != nil {
		if errors.Is(err, apperrors.ErrPersistence) {
			s.server.metrics.PersistenceFailure()
		}
		s.log.Error("send message", "user", identity.UserID, "room", cmd.RoomID, "error", err)
		s.fail(cmd, err)
		return
	}
	s.server.metrics.MessageSent()

	frame, err := encodeFrame(TypeReceiveMessage, cmd.RoomID, "", msg, "")
	if err != nil {
		s.log.Error("encode message", "error", err)
	} else {
		s.server.broadcaster.Deliver(cmd.RoomID, frame, s.id)
	}

	s.reply(TypeAck, cmd.RoomID, cmd.AckID, msg, "")
}

func (s *Session) deleteMessage(ctx context.Context, identity services.Identity, cmd Command) {
	if cmd.MessageID == "" {
		s.fail(cmd, fmt.Errorf("%w: messageId is required", apperrors.ErrValidation))
		return
	}

	deleted, err := s.server.messages.DeleteMessage(ctx, cmd.MessageID, identity.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPersistence) {
			s.server.metrics.PersistenceFailure()
		}
		s.fail(cmd, err)
		return
	}

	s.log.Info("message deleted", "user", identity.UserID, "message", deleted.ID)
	s.reply(TypeAck, cmd.RoomID, cmd.AckID, dto.DeleteResult{Success: true, DeletedID: deleted.ID}, "")
}

func (s *Session) leave(cmd Command) {
	if s.server.registry.Leave(s.id, cmd.RoomID) {
		s.server.refreshGauges()
		s.log.Info("left room", "room", cmd.RoomID)
	}
}

// fail сообщает об ошибке команды: send получает ack с error, delete ack
// с {success:false}, остальные кадр error.
func (s *Session) fail(cmd Command, err error) {
	reason := apperrors.Reason(err)
	switch cmd.Kind {
	case CommandSend:
		s.reply(TypeAck, cmd.RoomID, cmd.AckID, nil, reason)
	case CommandDelete:
		s.reply(TypeAck, cmd.RoomID, cmd.AckID, dto.DeleteResult{Success: false, Error: reason}, "")
	default:
		s.reply(TypeError, cmd.RoomID, cmd.AckID, nil, reason)
	}
}

func (s *Session) reply(t MessageType, roomID, ackID string, data any, reason string) {
	frame, err := encodeFrame(t, roomID, ackID, data, reason)
	if err != nil {
		s.log.Error("encode frame", "type", t, "error", err)
		return
	}
	s.Enqueue(frame)
}

// Close идемпотентен и безопасен из любой горутины. Соединение покидает все
// комнаты до закрытия очереди.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	s.mu.Unlock()

	left := s.server.registry.Unregister(s.id)
	s.server.forget(s)
	s.out.Close()
	s.server.refreshGauges()

	s.log.Info("connection closed", "rooms_left", len(left))
}

package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/thereayou/chat-rooms/internal/metrics"
	"github.com/thereayou/chat-rooms/internal/models"
	"github.com/thereayou/chat-rooms/internal/services"
	"github.com/thereayou/chat-rooms/pkg/logger"
)

// MessageService операции с сообщениями, которые нужны живому протоколу
type MessageService interface {
	SendMessage(ctx context.Context, chatID, authorID, content string) (*models.ChatMessage, error)
	FetchHistory(ctx context.Context, chatID string, limit int) ([]models.ChatMessage, error)
	DeleteMessage(ctx context.Context, messageID, requesterID string) (*models.ChatMessage, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, chatID, userID string) error
}

type Options struct {
	HistoryLimit int
	QueueSize    int
	SendRate     float64
	SendBurst    int
}

func DefaultOptions() Options {
	return Options{
		HistoryLimit: services.DefaultHistoryLimit,
		QueueSize:    256,
		SendRate:     5,
		SendBurst:    10,
	}
}

// Deps внешние зависимости ChatServer. Metrics и Logger необязательны.
type Deps struct {
	Auth     services.Authenticator
	Access   Authorizer
	Messages MessageService
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// ChatServer владеет Registry и всеми живыми сессиями процесса
type ChatServer struct {
	registry    *Registry
	broadcaster *Broadcaster
	auth        services.Authenticator
	access      Authorizer
	messages    MessageService
	metrics     *metrics.Metrics
	log         *slog.Logger
	opts        Options

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

func NewChatServer(deps Deps, opts Options) *ChatServer {
	def := DefaultOptions()
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = def.HistoryLimit
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.SendBurst <= 0 {
		opts.SendBurst = def.SendBurst
	}

	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	registry := NewRegistry()
	return &ChatServer{
		registry:    registry,
		broadcaster: NewBroadcaster(registry, deps.Metrics, log),
		auth:        deps.Auth,
		access:      deps.Access,
		messages:    deps.Messages,
		metrics:     deps.Metrics,
		log:         log,
		opts:        opts,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

func (s *ChatServer) Registry() *Registry { return s.registry }

func (s *ChatServer) Broadcaster() *Broadcaster { return s.broadcaster }

// Open создаёт сессию в состоянии Connecting
func (s *ChatServer) Open() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServerClosed
	}
	sess := newSession(s)
	s.sessions[sess.id] = sess
	sess.log.Debug("connection opened")
	return sess, nil
}

// Connect открывает сессию и аутентифицирует её. При ошибке сессия уже закрыта.
func (s *ChatServer) Connect(ctx context.Context, token string) (*Session, error) {
	sess, err := s.Open()
	if err != nil {
		return nil, err
	}
	if err := sess.Authenticate(ctx, token); err != nil {
		return nil, err
	}
	return sess, nil
}

// Stats число аутентифицированных соединений и активных комнат
func (s *ChatServer) Stats() (connections, rooms int) {
	return s.registry.Counts()
}

// Shutdown закрывает все сессии. Новые сессии после вызова не открываются.
func (s *ChatServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	s.log.Info("closing sessions", "count", len(sessions))
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess.Close()
	}
	return nil
}

func (s *ChatServer) forget(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
}

func (s *ChatServer) refreshGauges() {
	connections, rooms := s.registry.Counts()
	s.metrics.SetConnections(connections)
	s.metrics.SetRooms(rooms)
}

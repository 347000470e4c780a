package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thereayou/chat-rooms/internal/config"
	"github.com/thereayou/chat-rooms/internal/database"
	"github.com/thereayou/chat-rooms/internal/handlers"
	"github.com/thereayou/chat-rooms/internal/metrics"
	"github.com/thereayou/chat-rooms/internal/middleware"
	"github.com/thereayou/chat-rooms/internal/services"
	ws "github.com/thereayou/chat-rooms/internal/websocket"
	"github.com/thereayou/chat-rooms/pkg/auth"
)

// tokenDuration срок жизни токенов, которые выпускает Generate. Сервер токены
// только проверяет, у проверки свой срок из claims.
const tokenDuration = 24 * time.Hour

type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	DB    *database.Database
	Redis *redis.Client
	Chat  *ws.ChatServer
	HTTP  *http.Server
}

func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)

	var blacklist services.Blacklist = services.NewRedisBlacklist(rdb)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		log.Warn("redis unavailable, token blacklist disabled", "error", err)
		blacklist = nil
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	authenticator := services.NewTokenAuthenticator(jwtMgr, blacklist)
	messages := services.NewMessageService(dbConn)
	access := services.NewAccessControl(dbConn)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	chat := ws.NewChatServer(ws.Deps{
		Auth:     authenticator,
		Access:   access,
		Messages: messages,
		Metrics:  m,
		Logger:   log,
	}, ws.Options{
		HistoryLimit: cfg.Chat.HistoryLimit,
		QueueSize:    cfg.Chat.OutboundQueueSize,
		SendRate:     cfg.Chat.SendRate,
		SendBurst:    cfg.Chat.SendBurst,
	})

	router := gin.Default()
	APIEndpoints(router, endpoints{
		auth:      middleware.AuthMiddleware(authenticator),
		websocket: handlers.NewWebSocketHandler(chat, cfg.AllowedOrigins, log),
		messages:  handlers.NewHTTPMessageHandler(messages, access, log),
		users:     handlers.NewUserHandler(dbConn),
		stats:     chat,
		gatherer:  registry,
	})

	return &Server{
		cfg:   cfg,
		log:   log,
		DB:    dbConn,
		Redis: rdb,
		Chat:  chat,
		HTTP: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run блокируется до остановки HTTP-сервера
func (s *Server) Run() error {
	s.log.Info("server starting", "port", s.cfg.Port, "environment", s.cfg.Environment)
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает приём запросов, закрывает сессии и хранилища
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.HTTP.Shutdown(ctx); err != nil {
		s.log.Error("http shutdown", "error", err)
	}
	// hijacked websocket-соединения http.Server не отслеживает
	if err := s.Chat.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.Redis.Close(); err != nil {
		s.log.Error("redis close", "error", err)
	}
	return s.DB.Close()
}

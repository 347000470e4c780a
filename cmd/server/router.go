package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thereayou/chat-rooms/internal/handlers"
)

type endpoints struct {
	auth      gin.HandlerFunc
	websocket *handlers.WebSocketHandler
	messages  *handlers.HTTPMessageHandler
	users     *handlers.UserHandler
	stats     handlers.StatsProvider
	gatherer  prometheus.Gatherer
}

func APIEndpoints(r *gin.Engine, e endpoints) {
	r.GET("/health", handlers.Health(e.stats))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{})))

	// токен проверяется внутри обработчика до апгрейда
	r.GET("/ws", e.websocket.HandleWebSocket)

	api := r.Group("/", e.auth)
	{
		api.GET("/chats/:chatId/messages", e.messages.GetChatMessages)
		api.DELETE("/messages/:messageId", e.messages.DeleteMessage)
		api.GET("/me", e.users.GetMe)
		api.GET("/users/:userId", e.users.GetUser)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsProvider interface {
	Stats() (connections, rooms int)
}

// Health liveness-проба с числом соединений и комнат
func Health(stats StatsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		connections, rooms := stats.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": connections,
			"rooms":       rooms,
		})
	}
}

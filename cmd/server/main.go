package main

import (
	"context"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"

	"github.com/thereayou/chat-rooms/internal/config"
	"github.com/thereayou/chat-rooms/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("error").Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := NewServer(cfg, log)
	if err != nil {
		log.Error("server init", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"chat-server": func(ctx context.Context) error {
				log.Info("graceful shutdown initiated")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/bootstrap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	appCtx, cleanup, err := bootstrap.Init(configPath)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	logger := appCtx.Logger

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	appCtx.Mount(app)

	go func() {
		addr := fmt.Sprintf(":%d", appCtx.Config.App.Port)
		logger.Infof("listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.ShutdownTimeout)
	defer cancel()

	_ = app.Shutdown()
	cleanup(ctx)
	logger.Info("shutdown completed")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dwellr/internal/bootstrap"
	"dwellr/internal/config"
	"dwellr/internal/middleware"
	"dwellr/internal/server"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to initialize runtime", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg, rt.DB, rt.Redis, rt.Engine, rt.Issuer)

	app := fiber.New(fiber.Config{
		AppName:   "dwellr-api",
		BodyLimit: 1 * 1024 * 1024, // JSON only; media goes straight to storage
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			middleware.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()
	middleware.Logger.Info("Server started", "port", cfg.Port, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	middleware.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		middleware.Logger.Error("Server forced to shutdown", "error", err)
	}
	if err := rt.Close(ctx); err != nil {
		middleware.Logger.Error("Runtime shutdown error", "error", err)
	}

	middleware.Logger.Info("Server exited")
}

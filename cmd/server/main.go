package main

// @title           Social Service API
// @version         1.0
// @description     A social networking service with session-bridged real-time chat
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-service/internal/server"
)

func main() {
	slog.Info("Starting social service")

	app, err := server.NewApp()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Session sweeper evicts chat connections whose sessions expired.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go app.Gateway().RunSweeper(sweepCtx)

	srv := &http.Server{
		Addr:    ":" + app.Config().Port,
		Handler: app.Router(),
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

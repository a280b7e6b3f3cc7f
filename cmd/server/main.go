package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/skypass/booking-orchestrator/internal/config"
	"github.com/skypass/booking-orchestrator/internal/handlers"
	"github.com/skypass/booking-orchestrator/internal/inventory"
	"github.com/skypass/booking-orchestrator/internal/router"
	"github.com/skypass/booking-orchestrator/internal/service"
	ws "github.com/skypass/booking-orchestrator/internal/websocket"
	"github.com/skypass/booking-orchestrator/internal/workflow"
)

func main() {
	cfg := config.Load()

	// Logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Inventory Service client
	inv := inventory.NewClient(cfg.InventoryBaseURL, cfg.InventoryUserID)

	// WebSocket hub for snapshot pushes
	hub := ws.NewHub()
	go hub.Run()

	// Booking service
	bookingService := service.NewBookingService(inv, workflow.Policy{
		ClearSelectionAfterPayment: cfg.ClearSelectionAfterPayment,
		NotificationTTL:            cfg.NotificationTTL,
	}, hub)

	// Handlers and router
	h := handlers.NewHandler(bookingService)
	r := router.SetupRouter(h, hub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("inventory", cfg.InventoryBaseURL).
			Msg("booking gateway starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

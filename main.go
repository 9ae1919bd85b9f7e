package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/AnuragSingh014/castle-backend/config"
	"github.com/AnuragSingh014/castle-backend/database"
	"github.com/AnuragSingh014/castle-backend/events"
	"github.com/AnuragSingh014/castle-backend/handlers"
	"github.com/AnuragSingh014/castle-backend/middleware"
	"github.com/AnuragSingh014/castle-backend/routes"
	"github.com/AnuragSingh014/castle-backend/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found or error loading it")
	}

	config.LoadConfig()

	// Database connection
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancel()

	handlers.InitCollections()

	// Real-time pipeline: handlers publish to the bus, the bus dispatches to
	// the hub, the hub fans out to connected room members.
	hub := websocket.NewHub()
	go hub.Run()
	handlers.SetHub(hub)

	bus := events.NewBus(256)
	bus.Start(hub)
	handlers.SetBus(bus)

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router)

	// Global middlewares (order matters!)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CorsMiddleware)

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("castle-backend listening on http://localhost:%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Server forced shutdown: %v", err)
	}

	bus.Close()
	database.Disconnect()
	log.Info("Server stopped gracefully")
}

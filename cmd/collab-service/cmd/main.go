package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/codehuddle/backend/cmd/collab-service/internal/config"
	"github.com/codehuddle/backend/cmd/collab-service/internal/handlers"
	"github.com/codehuddle/backend/cmd/collab-service/internal/models"
	"github.com/codehuddle/backend/internal/execution"
	"github.com/codehuddle/backend/internal/history"
	"github.com/codehuddle/backend/internal/ratelimit"
)

func main() {
	cfg := config.LoadConfig()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
	}

	var store *history.Store
	if cfg.DatabaseURL != "" {
		var err error
		store, err = history.Open(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[History] Disabled: %v", err)
			store = nil
		}
	}

	env := &handlers.Env{
		Manager: models.NewRoomManager(),
		Runner: execution.NewClient(execution.Config{
			Endpoint:     cfg.ExecEndpoint,
			ClientID:     cfg.ExecClientID,
			ClientSecret: cfg.ExecClientSecret,
		}),
		Limiter: ratelimit.NewLimiter(rdb),
		History: store,
	}

	r := mux.NewRouter()

	// WebSocket endpoint
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handlers.ServeWs(env, w, r)
	})

	// Health check endpoint
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting collab service on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down collab service...")

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	store.Close()

	log.Println("Collab service exited")
}

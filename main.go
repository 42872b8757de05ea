package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"push-notify-go/internal/config"
	"push-notify-go/internal/handlers"
	"push-notify-go/internal/store"
	"push-notify-go/internal/vapid"
	"push-notify-go/internal/webpush"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Decode the VAPID key pair up front; a bad key must fail here, not at
	// the first delivery attempt.
	keys, err := vapid.LoadKeys(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	if err != nil {
		log.Fatalf("Failed to load VAPID keys: %v", err)
	}

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	ctx := context.Background()
	if err := pgStore.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Redis is optional; without it delivery events are simply not streamed.
	var redisStore *store.RedisStore
	if cfg.RedisAddr != "" {
		redisStore = store.NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	dispatcher := webpush.NewDispatcher(keys, cfg.VAPIDSubject, time.Duration(cfg.PushTimeoutSeconds)*time.Second)

	var events webpush.EventPublisher
	if redisStore != nil {
		events = redisStore
	}
	notifier := webpush.NewNotifier(pgStore, dispatcher, events)

	handlers.ConfigureSessions(cfg.SessionSecret)
	h := handlers.NewHandler(pgStore, notifier, redisStore, keys.PublicKeyB64())

	// Trigger-source entry point (internal)
	http.HandleFunc("/api/notify", h.NotifyHandler)

	// Browser subscription lifecycle
	http.HandleFunc("/api/push/key", h.GetVAPIDKeyHandler)
	http.HandleFunc("/api/push/subscribe", handlers.AuthMiddleware(h.SubscribePushHandler))
	http.HandleFunc("/api/push/unsubscribe", handlers.AuthMiddleware(h.UnsubscribePushHandler))

	// Ops
	http.HandleFunc("/events", h.SSEHandler)
	http.Handle("/metrics", promhttp.Handler())

	log.Printf("Listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

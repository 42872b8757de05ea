package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"push-notify-go/internal/models"
	"push-notify-go/internal/store"
)

// Notifier is the delivery orchestrator as seen from HTTP.
type Notifier interface {
	NotifyUser(ctx context.Context, req models.NotifyRequest) (models.NotifyResult, error)
}

type Handler struct {
	Subs      store.SubscriptionStore
	Notifier  Notifier
	Events    *store.RedisStore // nil when Redis is not configured
	PublicKey string
}

func NewHandler(subs store.SubscriptionStore, notifier Notifier, events *store.RedisStore, publicKey string) *Handler {
	return &Handler{
		Subs:      subs,
		Notifier:  notifier,
		Events:    events,
		PublicKey: publicKey,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

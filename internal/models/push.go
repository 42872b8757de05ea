package models

import "time"

// PushSubscription is one browser/device push registration. The endpoint is
// the natural key: a browser re-registering produces the same endpoint, so
// saves upsert on it rather than duplicating rows.
type PushSubscription struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"keys_p256dh"` // Mapped from keys.p256dh
	Auth      string    `json:"keys_auth"`   // Mapped from keys.auth
	CreatedAt time.Time `json:"created_at"`
}

// NotifyRequest is the trigger-source payload for notifying one user.
type NotifyRequest struct {
	UserID string         `json:"user_id"`
	Title  string         `json:"title"`
	Body   string         `json:"body,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// NotifyResult aggregates one fan-out: deliveries that succeeded out of
// subscriptions attempted, plus diagnostics for the failures. Callers use it
// for logging only; nothing retries based on it.
type NotifyResult struct {
	Sent   int      `json:"sent"`
	Total  int      `json:"total"`
	Errors []string `json:"errors"`
}

// DeliveryEvent is published after each dispatch attempt so the events
// stream can show per-device outcomes in real time.
type DeliveryEvent struct {
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

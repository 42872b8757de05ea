package store

import (
	"context"

	"push-notify-go/internal/models"
)

// SubscriptionStore handles push subscription persistence (PostgreSQL).
type SubscriptionStore interface {
	SavePushSubscription(ctx context.Context, userID, endpoint, p256dh, auth string) error
	GetPushSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, id int) error
	DeletePushSubscriptionByEndpoint(ctx context.Context, userID, endpoint string) error
}

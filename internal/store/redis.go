package store

import (
	"context"
	"encoding/json"
	"fmt"

	"push-notify-go/internal/models"

	"github.com/redis/go-redis/v9"
)

const deliveryChannel = "push_events"

// RedisStore publishes per-delivery events for the ops event stream.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(opts *redis.Options) *RedisStore {
	rdb := redis.NewClient(opts)
	return &RedisStore{client: rdb}
}

func (s *RedisStore) PublishDeliveryEvent(ctx context.Context, ev models.DeliveryEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode delivery event: %w", err)
	}
	return s.client.Publish(ctx, deliveryChannel, data).Err()
}

// Subscribe returns a subscription to the delivery event channel for SSE.
func (s *RedisStore) Subscribe(ctx context.Context) *redis.PubSub {
	return s.client.Subscribe(ctx, deliveryChannel)
}

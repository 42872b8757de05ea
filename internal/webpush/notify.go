package webpush

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"push-notify-go/internal/metrics"
	"push-notify-go/internal/models"
)

// SubscriptionStore is the slice of the persistence layer the orchestrator
// needs: read a user's registrations, prune dead ones.
type SubscriptionStore interface {
	GetPushSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, id int) error
}

// Sender delivers one payload to one subscription. Implemented by Dispatcher.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Outcome, error)
}

// EventPublisher receives per-delivery events for the ops stream.
type EventPublisher interface {
	PublishDeliveryEvent(ctx context.Context, ev models.DeliveryEvent) error
}

// Notifier is the public entry point of the delivery core: notify one user
// on every device they registered. It is the only component that mutates the
// subscription store, and only to prune endpoints the push service reported
// gone.
type Notifier struct {
	store  SubscriptionStore
	sender Sender
	events EventPublisher // optional
}

// NewNotifier wires the orchestrator. events may be nil; delivery events are
// then not published.
func NewNotifier(store SubscriptionStore, sender Sender, events EventPublisher) *Notifier {
	return &Notifier{store: store, sender: sender, events: events}
}

type pushPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// NotifyUser delivers one message to every subscription of req.UserID.
// Dispatches run concurrently, one per device; a failure on one endpoint
// never blocks the others, and the aggregate is assembled in subscription
// order so the result is deterministic regardless of completion order. Zero
// subscriptions is a normal state and yields {0, 0, []} without any network
// traffic.
func (n *Notifier) NotifyUser(ctx context.Context, req models.NotifyRequest) (models.NotifyResult, error) {
	metrics.NotifyRequests.Inc()

	payload, err := json.Marshal(pushPayload{Title: req.Title, Body: req.Body, Data: req.Data})
	if err != nil {
		return models.NotifyResult{Errors: []string{}}, fmt.Errorf("failed to encode payload: %w", err)
	}

	subs, err := n.store.GetPushSubscriptions(ctx, req.UserID)
	if err != nil {
		return models.NotifyResult{Errors: []string{}}, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	result := models.NotifyResult{Total: len(subs), Errors: []string{}}
	if len(subs) == 0 {
		return result, nil
	}

	type attempt struct {
		outcome Outcome
		err     error
	}
	attempts := make([]attempt, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub models.PushSubscription) {
			defer wg.Done()
			outcome, err := n.sender.Send(ctx, sub, payload)
			attempts[i] = attempt{outcome: outcome, err: err}
		}(i, sub)
	}
	wg.Wait()

	for i, a := range attempts {
		sub := subs[i]
		metrics.Deliveries.WithLabelValues(string(a.outcome)).Inc()

		switch a.outcome {
		case OutcomeDelivered:
			result.Sent++
		case OutcomeExpired:
			// Deleting an already-absent row is a no-op; a race with a
			// concurrent unsubscribe is fine.
			if err := n.store.DeletePushSubscription(ctx, sub.ID); err != nil {
				log.Printf("Failed to prune subscription %d: %v", sub.ID, err)
			} else {
				metrics.PrunedSubscriptions.Inc()
			}
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sub.Endpoint, a.err))
		}

		n.publish(ctx, req.UserID, sub, a.outcome, a.err)
	}

	return result, nil
}

func (n *Notifier) publish(ctx context.Context, userID string, sub models.PushSubscription, outcome Outcome, err error) {
	if n.events == nil {
		return
	}

	ev := models.DeliveryEvent{
		UserID:    userID,
		Endpoint:  sub.Endpoint,
		Outcome:   string(outcome),
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		ev.Detail = err.Error()
	}
	if err := n.events.PublishDeliveryEvent(ctx, ev); err != nil {
		log.Printf("Failed to publish delivery event: %v", err)
	}
}

package webpush

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"push-notify-go/internal/models"
	"push-notify-go/internal/vapid"
)

// Outcome classifies one delivery attempt.
type Outcome string

const (
	// OutcomeDelivered means the push service accepted the message.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeExpired means the push service permanently invalidated the
	// endpoint; the subscription must be deleted.
	OutcomeExpired Outcome = "expired"
	// OutcomeFailed covers everything else; logged, never retried here.
	OutcomeFailed Outcome = "failed"
)

// pushTTL is the TTL header on every push request, in seconds.
const pushTTL = "86400"

// Dispatcher performs a single authenticated POST to one subscription's
// endpoint. It never touches the subscription store.
type Dispatcher struct {
	client *http.Client
	signer *vapid.TokenSigner
	keyB64 string
}

// NewDispatcher creates a dispatcher using the given key material. The
// timeout bounds every outbound call; a hung push service must not stall a
// user's other devices.
func NewDispatcher(keys *vapid.KeyMaterial, subject string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		signer: vapid.NewTokenSigner(keys, subject),
		keyB64: keys.PublicKeyB64(),
	}
}

// Send delivers payload to one subscription and classifies the result. The
// returned error carries the diagnostic for failed outcomes and is nil for
// delivered and expired.
func (d *Dispatcher) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (Outcome, error) {
	audience, err := endpointAudience(sub.Endpoint)
	if err != nil {
		return OutcomeFailed, err
	}

	token, err := d.signer.Token(audience)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to build VAPID token: %w", err)
	}

	// The body is plaintext JSON: RFC 8291 payload encryption is not
	// implemented and no Content-Encoding header is sent, so the p256dh and
	// auth keys on the subscription go unused. Strict push services may
	// reject such bodies with a 4xx.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return OutcomeFailed, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("TTL", pushTTL)
	req.Header.Set("Authorization", "vapid t="+token+", k="+d.keyB64)

	resp, err := d.client.Do(req)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return OutcomeDelivered, nil
	case http.StatusNotFound, http.StatusGone:
		return OutcomeExpired, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		// Distinct from expiry: this means the push service rejected our
		// signature or key material, and deleting subscriptions over it
		// would misread a signing bug as mass device churn.
		return OutcomeFailed, fmt.Errorf("push service rejected VAPID credentials (status %d): %s", resp.StatusCode, readBody(resp.Body))
	default:
		return OutcomeFailed, fmt.Errorf("push service returned status %d: %s", resp.StatusCode, readBody(resp.Body))
	}
}

// endpointAudience derives the JWT audience from a push endpoint:
// scheme+host, no path.
func endpointAudience(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid push endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid push endpoint %q", endpoint)
	}
	return u.Scheme + "://" + u.Host, nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

package webpush

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"push-notify-go/internal/models"
	"push-notify-go/internal/vapid"
)

func testKeys(t *testing.T) *vapid.KeyMaterial {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pub := make([]byte, 65)
	pub[0] = 0x04
	key.X.FillBytes(pub[1:33])
	key.Y.FillBytes(pub[33:65])
	d := make([]byte, 32)
	key.D.FillBytes(d)

	keys, err := vapid.LoadKeys(base64.RawURLEncoding.EncodeToString(pub), base64.RawURLEncoding.EncodeToString(d))
	require.NoError(t, err)
	return keys
}

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	return NewDispatcher(testKeys(t), "mailto:admin@example.com", 5*time.Second)
}

func TestSend_Classification(t *testing.T) {
	tests := []struct {
		status  int
		outcome Outcome
		wantErr bool
	}{
		{http.StatusOK, OutcomeDelivered, false},
		{http.StatusCreated, OutcomeDelivered, false},
		{http.StatusNotFound, OutcomeExpired, false},
		{http.StatusGone, OutcomeExpired, false},
		{http.StatusBadRequest, OutcomeFailed, true},
		{http.StatusInternalServerError, OutcomeFailed, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			outcome, err := testDispatcher(t).Send(context.Background(), models.PushSubscription{Endpoint: srv.URL + "/push/abc"}, []byte(`{}`))
			require.Equal(t, tt.outcome, outcome)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSend_KeyRejectionIsNotExpiry(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad jwt", status)
		}))

		outcome, err := testDispatcher(t).Send(context.Background(), models.PushSubscription{Endpoint: srv.URL}, []byte(`{}`))
		srv.Close()

		// A signing bug must never classify as expiry, or it would cascade
		// into mass subscription deletion.
		require.Equal(t, OutcomeFailed, outcome)
		require.ErrorContains(t, err, "rejected VAPID credentials")
	}
}

func TestSend_NetworkErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	outcome, err := testDispatcher(t).Send(context.Background(), models.PushSubscription{Endpoint: srv.URL}, []byte(`{}`))
	require.Equal(t, OutcomeFailed, outcome)
	require.Error(t, err)
}

func TestSend_InvalidEndpoint(t *testing.T) {
	outcome, err := testDispatcher(t).Send(context.Background(), models.PushSubscription{Endpoint: "not-a-url"}, []byte(`{}`))
	require.Equal(t, OutcomeFailed, outcome)
	require.Error(t, err)
}

func TestSend_RequestShape(t *testing.T) {
	keys := testKeys(t)
	d := NewDispatcher(keys, "mailto:admin@example.com", 5*time.Second)
	payload := []byte(`{"title":"order shipped"}`)

	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	outcome, err := d.Send(context.Background(), models.PushSubscription{Endpoint: srv.URL + "/wp/token123"}, payload)
	require.NoError(t, err)
	require.Equal(t, OutcomeDelivered, outcome)

	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, "/wp/token123", got.URL.Path)
	require.Equal(t, "application/octet-stream", got.Header.Get("Content-Type"))
	require.Equal(t, "86400", got.Header.Get("TTL"))
	require.Equal(t, payload, gotBody)

	auth := got.Header.Get("Authorization")
	require.True(t, strings.HasPrefix(auth, "vapid t="), auth)
	require.Contains(t, auth, ", k="+keys.PublicKeyB64())

	// The audience must be the endpoint's origin, not the full URL.
	token := strings.TrimPrefix(strings.Split(auth, ",")[0], "vapid t=")
	claimBytes, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)
	var claims struct {
		Aud string `json:"aud"`
	}
	require.NoError(t, json.Unmarshal(claimBytes, &claims))
	require.Equal(t, srv.URL, claims.Aud)
}

package vapid

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeKeyPair renders a generated key in the raw base64url form the
// configuration carries: 0x04||X||Y for the public half, the scalar d for
// the private half.
func encodeKeyPair(t *testing.T, key *ecdsa.PrivateKey) (string, string) {
	t.Helper()

	pub := make([]byte, 65)
	pub[0] = 0x04
	key.X.FillBytes(pub[1:33])
	key.Y.FillBytes(pub[33:65])

	d := make([]byte, 32)
	key.D.FillBytes(d)

	return base64.RawURLEncoding.EncodeToString(pub), base64.RawURLEncoding.EncodeToString(d)
}

func generateKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestLoadKeys_RoundTrip(t *testing.T) {
	key := generateKey(t)
	pub, priv := encodeKeyPair(t, key)

	keys, err := LoadKeys(pub, priv)
	require.NoError(t, err)
	require.Equal(t, pub, keys.PublicKeyB64())
	require.Zero(t, keys.privateKey.D.Cmp(key.D))
	require.Zero(t, keys.privateKey.X.Cmp(key.X))
	require.Zero(t, keys.privateKey.Y.Cmp(key.Y))
}

func TestLoadKeys_AcceptsPaddedBase64(t *testing.T) {
	key := generateKey(t)
	pub, priv := encodeKeyPair(t, key)

	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	require.NoError(t, err)
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	require.NoError(t, err)

	keys, err := LoadKeys(base64.URLEncoding.EncodeToString(pubBytes), base64.URLEncoding.EncodeToString(privBytes))
	require.NoError(t, err)
	require.Equal(t, pub, keys.PublicKeyB64())
}

func TestLoadKeys_Invalid(t *testing.T) {
	key := generateKey(t)
	pub, priv := encodeKeyPair(t, key)

	tests := []struct {
		name string
		pub  string
		priv string
	}{
		{"missing public", "", priv},
		{"missing private", pub, ""},
		{"bad base64 public", "!!!", priv},
		{"bad base64 private", pub, "!!!"},
		{"truncated public", pub[:40], priv},
		{"truncated private", pub, priv[:20]},
		{"compressed point", "A" + pub[1:], priv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadKeys(tt.pub, tt.priv)
			require.Error(t, err)
		})
	}
}

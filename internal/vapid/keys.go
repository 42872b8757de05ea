package vapid

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	rawPublicKeyLen  = 65 // 0x04 prefix + 32-byte X + 32-byte Y
	rawPrivateKeyLen = 32
)

// KeyMaterial is the application server's VAPID key pair, decoded once at
// startup and immutable for the process lifetime.
type KeyMaterial struct {
	publicKey  []byte // raw uncompressed point, 65 bytes
	privateKey *ecdsa.PrivateKey
}

// LoadKeys decodes the base64url public and private keys from configuration
// and reconstructs the P-256 private key. X and Y are sliced from the raw
// public bytes at [1:33] and [33:65]; slicing these wrong yields a key that
// signs fine but never verifies at the push service. Key-pair correspondence
// is not checked here.
func LoadKeys(publicKey, privateKey string) (*KeyMaterial, error) {
	if publicKey == "" || privateKey == "" {
		return nil, errors.New("VAPID keys are not configured")
	}

	pub, err := decodeBase64URL(publicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid VAPID public key: %w", err)
	}
	if len(pub) != rawPublicKeyLen {
		return nil, fmt.Errorf("invalid VAPID public key: got %d bytes, want %d", len(pub), rawPublicKeyLen)
	}
	if pub[0] != 0x04 {
		return nil, errors.New("invalid VAPID public key: not an uncompressed EC point")
	}

	d, err := decodeBase64URL(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid VAPID private key: %w", err)
	}
	if len(d) != rawPrivateKeyLen {
		return nil, fmt.Errorf("invalid VAPID private key: got %d bytes, want %d", len(d), rawPrivateKeyLen)
	}

	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(pub[1:33]),
			Y:     new(big.Int).SetBytes(pub[33:65]),
		},
		D: new(big.Int).SetBytes(d),
	}
	if key.D.Sign() == 0 {
		return nil, errors.New("invalid VAPID private key: zero scalar")
	}

	return &KeyMaterial{publicKey: pub, privateKey: key}, nil
}

// PublicKeyB64 returns the unpadded base64url form of the raw public key,
// used both for the k= parameter of the Authorization header and for the
// browser's applicationServerKey.
func (k *KeyMaterial) PublicKeyB64() string {
	return base64.RawURLEncoding.EncodeToString(k.publicKey)
}

// decodeBase64URL decodes base64url with or without padding; subscription
// keys and configured VAPID keys arrive in both forms.
func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

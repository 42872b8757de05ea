package vapid

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// tokenTTL is how long a VAPID JWT stays valid. Push services cap expiry at
// 24 hours; these tokens are identity assertions, not credentials, so they
// stay short-lived.
const tokenTTL = 12 * time.Hour

// Signer produces an ES256 signature over the given bytes, in whatever form
// the underlying crypto library emits (raw 64-byte or DER). Keeping this an
// interface isolates the library-specific output format from JWT assembly.
type Signer interface {
	SignES256(data []byte) ([]byte, error)
}

type ecdsaSigner struct {
	key *ecdsa.PrivateKey
}

func (s ecdsaSigner) SignES256(data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	return ecdsa.SignASN1(rand.Reader, s.key, digest[:])
}

// TokenSigner builds the compact JWTs carried in the Authorization header of
// every push request.
type TokenSigner struct {
	signer  Signer
	subject string
	now     func() time.Time
}

// NewTokenSigner creates a signer for the given key material. Subject is the
// operator contact URI (mailto: or https:) asserted in every token.
func NewTokenSigner(keys *KeyMaterial, subject string) *TokenSigner {
	return &TokenSigner{
		signer:  ecdsaSigner{key: keys.privateKey},
		subject: subject,
		now:     time.Now,
	}
}

type tokenHeader struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

type tokenClaims struct {
	Aud string `json:"aud"`
	Sub string `json:"sub"`
	Exp int64  `json:"exp"`
}

// Token returns a signed JWT asserting this application's identity to the
// push service at the given audience (scheme+host of the push endpoint).
func (t *TokenSigner) Token(audience string) (string, error) {
	header, err := json.Marshal(tokenHeader{Typ: "JWT", Alg: "ES256"})
	if err != nil {
		return "", err
	}
	claims, err := json.Marshal(tokenClaims{
		Aud: audience,
		Sub: t.subject,
		Exp: t.now().Add(tokenTTL).Unix(),
	})
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(claims)

	sig, err := t.signer.SignES256([]byte(signingInput))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	raw, err := normalizeSignature(sig)
	if err != nil {
		return "", fmt.Errorf("failed to encode signature: %w", err)
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(raw), nil
}

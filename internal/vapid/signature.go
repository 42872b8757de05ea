package vapid

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
)

// rawSignatureLen is the fixed JWS ES256 signature size: 32-byte r plus
// 32-byte s, each left-padded with zeros.
const rawSignatureLen = 64

type ecdsaSignature struct {
	R, S *big.Int
}

// normalizeSignature converts an ECDSA signature to the raw r||s form JWS
// requires. A 64-byte input is already raw and passes through; anything else
// must parse as a DER SEQUENCE of two INTEGERs. DER strips leading zeros
// from short scalars and prepends one when the high bit is set, so r and s
// can each encode to 31, 32 or 33 bytes and must be repacked to exactly 32.
func normalizeSignature(sig []byte) ([]byte, error) {
	if len(sig) == rawSignatureLen {
		return sig, nil
	}

	var parsed ecdsaSignature
	rest, err := asn1.Unmarshal(sig, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DER signature: %w", err)
	}
	if len(rest) != 0 {
		return nil, errors.New("trailing bytes after DER signature")
	}

	out := make([]byte, rawSignatureLen)
	if err := fillScalar(out[:32], parsed.R); err != nil {
		return nil, fmt.Errorf("invalid signature r: %w", err)
	}
	if err := fillScalar(out[32:], parsed.S); err != nil {
		return nil, fmt.Errorf("invalid signature s: %w", err)
	}

	return out, nil
}

func fillScalar(dst []byte, v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return errors.New("not a positive integer")
	}
	if v.BitLen() > len(dst)*8 {
		return fmt.Errorf("%d bits does not fit in %d bytes", v.BitLen(), len(dst))
	}
	v.FillBytes(dst)
	return nil
}

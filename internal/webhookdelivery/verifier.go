package webhookdelivery

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/flowserve/ledger/internal/domain"
)

// Verifier authenticates a raw provider payload before it may reach the
// ledger. The exact scheme is part of each provider's contract; the engine
// only requires that verification happens before the deposit is applied.
type Verifier interface {
	Verify(provider domain.Provider, body []byte, signature string) error
}

// HMACVerifier verifies hex-encoded HMAC-SHA256 signatures computed over
// the raw request body with a per-provider shared secret.
type HMACVerifier struct {
	secrets map[domain.Provider]string
}

// NewHMACVerifier returns a verifier holding the given provider secrets.
func NewHMACVerifier(cashSecret, cardSecret string) *HMACVerifier {
	return &HMACVerifier{
		secrets: map[domain.Provider]string{
			domain.ProviderCash: cashSecret,
			domain.ProviderCard: cardSecret,
		},
	}
}

// Verify checks the signature against the payload.
func (v *HMACVerifier) Verify(provider domain.Provider, body []byte, signature string) error {
	secret, ok := v.secrets[provider]
	if !ok {
		return domain.ErrUnknownProvider
	}

	want, err := hex.DecodeString(signature)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	if !hmac.Equal(mac.Sum(nil), want) {
		return domain.ErrInvalidSignature
	}

	return nil
}

// Sign computes the signature the verifier expects for the payload.
// Exported for tests and local tooling that emit synthetic events.
func (v *HMACVerifier) Sign(provider domain.Provider, body []byte) string {
	mac := hmac.New(sha256.New, []byte(v.secrets[provider]))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

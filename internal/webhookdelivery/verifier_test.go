package webhookdelivery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowserve/ledger/internal/domain"
)

func TestHMACVerifier(t *testing.T) {
	verifier := NewHMACVerifier("cash-secret", "card-secret")
	body := []byte(`{"voucher_id":"v-1","wallet_id":"1","amount":"10","currency":"USD"}`)

	t.Run("ValidSignature", func(t *testing.T) {
		signature := verifier.Sign(domain.ProviderCash, body)
		require.NoError(t, verifier.Verify(domain.ProviderCash, body, signature))
	})

	t.Run("WrongProviderSecret", func(t *testing.T) {
		signature := verifier.Sign(domain.ProviderCard, body)
		err := verifier.Verify(domain.ProviderCash, body, signature)
		require.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("TamperedBody", func(t *testing.T) {
		signature := verifier.Sign(domain.ProviderCash, body)
		tampered := []byte(`{"voucher_id":"v-1","wallet_id":"1","amount":"9999","currency":"USD"}`)
		err := verifier.Verify(domain.ProviderCash, tampered, signature)
		require.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("MalformedSignature", func(t *testing.T) {
		err := verifier.Verify(domain.ProviderCash, body, "not-hex")
		require.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		err := verifier.Verify(domain.Provider("bank"), body, "")
		require.ErrorIs(t, err, domain.ErrUnknownProvider)
	})
}

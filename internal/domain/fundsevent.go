package domain

import "errors"

var (
	// ErrUnknownProvider indicates an event from an unsupported payment provider.
	ErrUnknownProvider = errors.New("unknown payment provider")
	// ErrCurrencyMismatch indicates that the event currency differs from the ledger currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInvalidSignature indicates that the event signature failed verification.
	ErrInvalidSignature = errors.New("invalid event signature")
	// ErrMissingExternalID indicates an event without a provider transaction id.
	ErrMissingExternalID = errors.New("missing external transaction id")
)

// Provider identifies the source of an externally delivered payment event.
type Provider string

// Supported providers.
const (
	ProviderCash Provider = "cash"
	ProviderCard Provider = "card"
)

// FundsEvent is the canonical form of a provider webhook payload.
// Raw provider JSON is normalized into this type at the ingest boundary;
// nothing downstream sees untyped maps.
type FundsEvent struct {
	Provider              Provider `json:"provider"`
	ExternalTransactionID string   `json:"external_transaction_id"`
	AccountIdentifier     string   `json:"account_identifier"`
	Amount                string   `json:"amount"`
	Currency              string   `json:"currency"`
	Signature             string   `json:"signature"`
}

// ExternalID returns the ledger-wide idempotency key for the event.
// Provider ids are unique per provider, so the key is namespaced.
func (e FundsEvent) ExternalID() string {
	return string(e.Provider) + ":" + e.ExternalTransactionID
}

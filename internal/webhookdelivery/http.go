// Package webhookdelivery ingests payment provider webhooks.
//
// It is the only place raw provider JSON exists: each payload is verified,
// normalized into a domain.FundsEvent and handed to the deposit service,
// which applies it exactly once no matter how many times the provider
// delivers it.
package webhookdelivery

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/flowserve/ledger/pkg/web"
)

// SignatureHeader carries the provider's payload signature.
const SignatureHeader = "X-Provider-Signature"

// Depositor applies a normalized deposit exactly once per external id.
//
//go:generate mockgen -source http.go -destination http_mock.go -package webhookdelivery
type Depositor interface {
	Apply(ctx context.Context, accountID int64, amount, externalID string) (domain.Transaction, error)
}

// Handler translates provider payloads into ledger deposits.
type Handler struct {
	depositor Depositor
	verifier  Verifier
	currency  string
}

// NewHandler returns webhook handler. currency is the ledger currency;
// events in any other currency are rejected at the boundary.
func NewHandler(d Depositor, v Verifier, currency string) *Handler {
	return &Handler{
		depositor: d,
		verifier:  v,
		currency:  currency,
	}
}

// cashPayload is the cash-voucher provider's wire format.
type cashPayload struct {
	VoucherID string `json:"voucher_id"`
	WalletID  string `json:"wallet_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// cardPayload is the card-processor provider's wire format.
type cardPayload struct {
	ChargeID  string `json:"charge_id"`
	WalletID  string `json:"wallet_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	CardBrand string `json:"card_brand"`
}

// HandleCash handles cash-voucher provider deliveries.
func (h *Handler) HandleCash(gctx *gin.Context) {
	h.handle(gctx, domain.ProviderCash)
}

// HandleCard handles card-processor provider deliveries.
func (h *Handler) HandleCard(gctx *gin.Context) {
	h.handle(gctx, domain.ProviderCard)
}

func (h *Handler) handle(gctx *gin.Context, provider domain.Provider) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	body, err := gctx.GetRawData()
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	signature := gctx.GetHeader(SignatureHeader)

	// Verification happens before anything touches the ledger.
	if err := h.verifier.Verify(provider, body, signature); err != nil {
		l.Info().Err(err).Str("provider", string(provider)).Msg("webhook rejected")
		gctx.JSON(http.StatusUnauthorized, web.Error(err))

		return
	}

	event, err := h.normalize(provider, body, signature)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if event.Currency != h.currency {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrCurrencyMismatch))
		return
	}

	accountID, err := strconv.ParseInt(event.AccountIdentifier, 10, 64)
	if err != nil || accountID < 1 {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrAccountNotFound))
		return
	}

	transaction, err := h.depositor.Apply(ctx, accountID, event.Amount, event.ExternalID())
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		case
			domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrAmountTooLarge,
			domain.ErrMissingExternalID,
			domain.ErrAccountClosed:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: struct {
		Transaction domain.Transaction `json:"transaction"`
	}{transaction}})
}

// normalize parses a raw provider payload into the canonical event type.
func (h *Handler) normalize(provider domain.Provider, body []byte, signature string) (domain.FundsEvent, error) {
	event := domain.FundsEvent{
		Provider:  provider,
		Signature: signature,
	}

	switch provider {
	case domain.ProviderCash:
		var p cashPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return event, err
		}

		if p.VoucherID == "" {
			return event, domain.ErrMissingExternalID
		}

		event.ExternalTransactionID = p.VoucherID
		event.AccountIdentifier = p.WalletID
		event.Amount = p.Amount
		event.Currency = p.Currency
	case domain.ProviderCard:
		var p cardPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return event, err
		}

		if p.ChargeID == "" {
			return event, domain.ErrMissingExternalID
		}

		event.ExternalTransactionID = p.ChargeID
		event.AccountIdentifier = p.WalletID
		event.Amount = p.Amount
		event.Currency = p.Currency
	default:
		return event, domain.ErrUnknownProvider
	}

	return event, nil
}

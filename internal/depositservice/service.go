// Package depositservice applies externally delivered deposits exactly once.
package depositservice

import (
	"context"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides the deposit envelope needed by the service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package depositservice
type Repo interface {
	DepositTx(ctx context.Context, arg domain.CreateDepositParams) (domain.DepositTxResult, error)
}

// LogReader provides read access to the transaction log by external id.
type LogReader interface {
	GetByExternalID(ctx context.Context, externalID string) (domain.Transaction, error)
}

// Service guards external deposits against duplicate delivery.
//
// Providers deliver webhooks at least once; the unique index on the log's
// external_id column is the authoritative duplicate detector, and this
// service translates its violation into returning the previously applied
// transaction instead of an error.
type Service struct {
	repo      Repo
	log       LogReader
	maxAmount decimal.Decimal
}

// New returns deposit service struct to manage idempotent deposits.
func New(r Repo, lr LogReader, maxAmount decimal.Decimal) *Service {
	return &Service{
		repo:      r,
		log:       lr,
		maxAmount: maxAmount,
	}
}

// Apply credits accountID by amount exactly once per externalID.
//
// Submitting the same externalID any number of times, sequentially or
// concurrently, results in one balance increase, and every call returns the
// same transaction.
func (s *Service) Apply(ctx context.Context, accountID int64, amount, externalID string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if externalID == "" {
		return domain.Transaction{}, domain.ErrMissingExternalID
	}

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, domain.ErrNegativeAmount
	}

	if amountDecimal.GreaterThan(s.maxAmount) {
		return domain.Transaction{}, domain.ErrAmountTooLarge
	}

	// Fast path for redelivered events. Racing deliveries that both miss
	// here are still collapsed by the unique index below.
	applied, err := s.log.GetByExternalID(ctx, externalID)
	if err == nil {
		l.Info().Str("external_id", externalID).Msg("duplicate deposit delivery ignored")
		return applied, nil
	}

	if err != domain.ErrTransactionNotFound {
		return domain.Transaction{}, err
	}

	result, err := s.repo.DepositTx(ctx, domain.CreateDepositParams{
		AccountID:  accountID,
		Amount:     amount,
		ExternalID: externalID,
	})

	if err == domain.ErrDuplicateExternalID {
		// Lost the insert race; the winner's envelope committed the
		// deposit, so its record is the result of this delivery too.
		l.Info().Str("external_id", externalID).Msg("concurrent duplicate deposit delivery ignored")
		return s.log.GetByExternalID(ctx, externalID)
	}

	if err != nil {
		return domain.Transaction{}, err
	}

	return result.Transaction, nil
}

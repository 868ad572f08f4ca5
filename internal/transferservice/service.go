// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/flowserve/ledger/internal/accountdelivery"
	"github.com/flowserve/ledger/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	maxAmount      decimal.Decimal
}

// New returns transfer service struct to manage transfer business logic.
// maxAmount is the configured ceiling for a single movement.
func New(tr Repo, as accountdelivery.Service, maxAmount decimal.Decimal) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		maxAmount:      maxAmount,
	}
}

// ValidAmount parses amount and checks that it is positive and within the
// configured ceiling.
func (s *Service) ValidAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrNegativeAmount
	}

	if amountDecimal.GreaterThan(s.maxAmount) {
		return decimal.Decimal{}, domain.ErrAmountTooLarge
	}

	return amountDecimal, nil
}

func (s *Service) validRequest(ctx context.Context, fromUsername string, arg domain.CreateTransferParams) error {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := s.ValidAmount(ctx, arg.Amount)
	if err != nil {
		return err
	}

	if arg.FromAccountID == arg.ToAccountID {
		return domain.ErrSameAccount
	}

	fromAccount, err := s.accountService.Get(ctx, arg.FromAccountID)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	if fromAccount.Owner != fromUsername {
		return domain.ErrInvalidOwner
	}

	if fromAccount.Status != domain.StatusActive {
		return domain.ErrAccountClosed
	}

	currentFromAccountBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	if currentFromAccountBalance.LessThan(amountDecimal) {
		return domain.ErrInsufficientBalance
	}

	toAccount, err := s.accountService.Get(ctx, arg.ToAccountID)
	if err != nil {
		l.Info().Err(err).Send()
		return err
	}

	if toAccount.Status != domain.StatusActive {
		return domain.ErrAccountClosed
	}

	return nil
}

// Transfer checks if the transfer request is valid and then executes it.
// The balance pre-check here is advisory; the envelope re-enforces it under
// lock, so a concurrent spend cannot slip a balance below zero.
func (s *Service) Transfer(ctx context.Context, fromUsername string, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	if arg.Type == "" {
		arg.Type = domain.TypeInternalTransfer
	}

	if err := s.validRequest(ctx, fromUsername, arg); err != nil {
		return domain.TransferTxResult{}, err
	}

	result, err := s.repo.TransferTx(ctx, arg)
	if err != nil {
		return result, err
	}

	return result, nil
}

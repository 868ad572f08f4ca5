// Package allowanceservice manages the subaccount lifecycle.
//
// Every lifecycle operation is expressed as a transfer between the owner
// and the subaccount, so allowance changes ride the same atomic envelopes
// and audit log as ordinary transfers; there is no separate bookkeeping
// path that could drift.
package allowanceservice

import (
	"context"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides the allowance envelopes needed by the service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package allowanceservice
type Repo interface {
	CreateSubaccountTx(ctx context.Context, arg domain.CreateSubaccountParams) (domain.AllowanceTxResult, error)
	UpdateLimitTx(ctx context.Context, subaccountID int64, newLimit string) (domain.AllowanceTxResult, error)
	CloseSubaccountTx(ctx context.Context, subaccountID int64) (domain.AllowanceTxResult, error)
}

// AccountReader provides account lookups needed for owner authorization.
type AccountReader interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetPrimaryByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Service facilitates allowance service layer logic.
type Service struct {
	repo      Repo
	accounts  AccountReader
	maxAmount decimal.Decimal
}

// New returns allowance service struct to manage subaccount business logic.
func New(r Repo, ar AccountReader, maxAmount decimal.Decimal) *Service {
	return &Service{
		repo:      r,
		accounts:  ar,
		maxAmount: maxAmount,
	}
}

func (s *Service) validLimit(ctx context.Context, limit string, allowZero bool) error {
	l := zerolog.Ctx(ctx)

	limitDecimal, err := decimal.NewFromString(limit)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if limitDecimal.IsNegative() || (limitDecimal.IsZero() && !allowZero) {
		return domain.ErrNegativeAmount
	}

	if limitDecimal.GreaterThan(s.maxAmount) {
		return domain.ErrAmountTooLarge
	}

	return nil
}

// subaccountOf returns the subaccount after checking the caller owns it.
func (s *Service) subaccountOf(ctx context.Context, owner string, subaccountID int64) (domain.Account, error) {
	sub, err := s.accounts.Get(ctx, subaccountID)
	if err != nil {
		return domain.Account{}, err
	}

	if !sub.IsSubaccount() {
		return domain.Account{}, domain.ErrNotSubaccount
	}

	if sub.Owner != owner {
		return domain.Account{}, domain.ErrInvalidOwner
	}

	return sub, nil
}

// CreateSubaccount creates a subaccount under the caller's primary account
// funded with spendingLimit. The owner must cover the limit in full.
func (s *Service) CreateSubaccount(ctx context.Context, owner, spendingLimit string) (domain.Account, error) {
	if err := s.validLimit(ctx, spendingLimit, false); err != nil {
		return domain.Account{}, err
	}

	primary, err := s.accounts.GetPrimaryByOwner(ctx, owner)
	if err != nil {
		return domain.Account{}, err
	}

	result, err := s.repo.CreateSubaccountTx(ctx, domain.CreateSubaccountParams{
		OwnerAccountID: primary.ID,
		Limit:          spendingLimit,
	})
	if err != nil {
		return domain.Account{}, err
	}

	return result.Subaccount, nil
}

// UpdateSpendingLimit sets the subaccount's limit to newLimit by moving the
// delta between owner and subaccount. Setting the current limit again is a
// no-op that writes no transaction.
func (s *Service) UpdateSpendingLimit(ctx context.Context, owner string, subaccountID int64, newLimit string) (domain.Account, error) {
	if err := s.validLimit(ctx, newLimit, true); err != nil {
		return domain.Account{}, err
	}

	if _, err := s.subaccountOf(ctx, owner, subaccountID); err != nil {
		return domain.Account{}, err
	}

	result, err := s.repo.UpdateLimitTx(ctx, subaccountID, newLimit)
	if err != nil {
		return domain.Account{}, err
	}

	return result.Subaccount, nil
}

// DeleteSubaccount returns the subaccount's full balance to the owner and
// marks it closed. Deleting an already closed subaccount is a no-op.
func (s *Service) DeleteSubaccount(ctx context.Context, owner string, subaccountID int64) error {
	if _, err := s.subaccountOf(ctx, owner, subaccountID); err != nil {
		return err
	}

	if _, err := s.repo.CloseSubaccountTx(ctx, subaccountID); err != nil {
		return err
	}

	return nil
}

// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/flowserve/ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetPrimaryByOwner(ctx context.Context, owner string) (domain.Account, error)
	ListByOwner(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)
	ListSubaccounts(ctx context.Context, ownerAccountID int64, limit, offset int32) ([]domain.Account, error)
}

// LogRepo provides read access to the transaction log.
type LogRepo interface {
	ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
	log  LogRepo
}

// New returns account service struct to manage account business logic.
func New(ar Repo, lr LogRepo) *Service {
	return &Service{repo: ar, log: lr}
}

// Get returns the account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetPrimaryByOwner returns the primary wallet account of the given user.
func (s *Service) GetPrimaryByOwner(ctx context.Context, owner string) (domain.Account, error) {
	account, err := s.repo.GetPrimaryByOwner(ctx, owner)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetBalance returns the current balance of the given account as a decimal string.
func (s *Service) GetBalance(ctx context.Context, id int64) (string, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	return account.Balance, nil
}

// ListByOwner returns accounts that are owned by the given user.
func (s *Service) ListByOwner(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.ListByOwner(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListSubaccounts returns the subaccounts of the given primary account.
func (s *Service) ListSubaccounts(ctx context.Context, ownerAccountID int64, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.ListSubaccounts(ctx, ownerAccountID, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListTransactions pages through the transaction log of the given account.
func (s *Service) ListTransactions(ctx context.Context, accountID int64, pageSize, pageID int32) ([]domain.Transaction, error) {
	arg := domain.ListTransactionsParams{
		AccountID: accountID,
		Limit:     pageSize,
		Offset:    (pageID - 1) * pageSize,
	}

	transactions, err := s.log.ListByAccount(ctx, arg)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// Package transferrepo implements the atomic envelopes that move money.
//
// Every balance mutation in the system goes through one of the Tx methods
// here: each one opens a database transaction, locks the affected account
// rows, applies the balance changes together with exactly one transaction
// log record, and commits. On any error the whole envelope rolls back, so
// a partial movement is never observable.
package transferrepo

import (
	"context"
	"database/sql"

	"github.com/flowserve/ledger/internal/accountrepo"
	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/internal/transactionrepo"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns transfer RepoPGS with a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{
		conn: conn,
	}
}

// repos bundles the per-transaction child repositories.
type repos struct {
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

// execTx executes a function within a database transaction.
func (r *RepoPGS) execTx(ctx context.Context, fn func(q repos) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	q := repos{
		accounts:     accountrepo.NewRepoPGS(tx),
		transactions: transactionrepo.NewRepoPGS(tx),
	}

	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			l.Error().Err(rbErr).Msg("tx rollback failed")
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// lockPair locks and returns two accounts. Rows are always locked in
// ascending id order regardless of transfer direction, so two concurrent
// transfers over the same pair can never deadlock.
func lockPair(ctx context.Context, q repos, firstID, secondID int64) (domain.Account, domain.Account, error) {
	if firstID < secondID {
		first, err := q.accounts.GetForUpdate(ctx, firstID)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		second, err := q.accounts.GetForUpdate(ctx, secondID)

		return first, second, err
	}

	second, err := q.accounts.GetForUpdate(ctx, secondID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	first, err := q.accounts.GetForUpdate(ctx, firstID)

	return first, second, err
}

// apply adds amount to the account's balance. Subaccount funds are entirely
// their allowance, so a subaccount mutation moves the spending limit too.
func apply(ctx context.Context, q repos, account domain.Account, amount string) (domain.Account, error) {
	if account.IsSubaccount() {
		return q.accounts.AddAllowance(ctx, amount, account.ID)
	}

	return q.accounts.AddBalance(ctx, amount, account.ID)
}

func activePair(from, to domain.Account) error {
	if from.Status != domain.StatusActive || to.Status != domain.StatusActive {
		return domain.ErrAccountClosed
	}

	return nil
}

// move debits from and credits to, writing the matching log record.
// Callers must hold locks on both rows.
func move(ctx context.Context, q repos, from, to domain.Account, amount string, typ domain.TransactionType, externalID string) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	var err error

	result.Transaction, err = q.transactions.Create(ctx, transactionrepo.CreateParams{
		SenderAccountID:    from.ID,
		RecipientAccountID: to.ID,
		Amount:             amount,
		Type:               typ,
		ExternalID:         externalID,
	})
	if err != nil {
		return result, err
	}

	result.FromAccount, err = apply(ctx, q, from, "-"+amount)
	if err != nil {
		return result, err
	}

	result.ToAccount, err = apply(ctx, q, to, amount)

	return result, err
}

// TransferTx atomically moves amount between two accounts and records it.
//
// The sender's balance check is enforced by the accounts_balance_check
// constraint, so a concurrent transfer that drains the sender after
// validation still aborts the envelope instead of going negative.
func (r *RepoPGS) TransferTx(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	if arg.FromAccountID == arg.ToAccountID {
		return result, domain.ErrSameAccount
	}

	err := r.execTx(ctx, func(q repos) error {
		from, to, err := lockPair(ctx, q, arg.FromAccountID, arg.ToAccountID)
		if err != nil {
			return err
		}

		if err := activePair(from, to); err != nil {
			return err
		}

		result, err = move(ctx, q, from, to, arg.Amount, arg.Type, "")

		return err
	})
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

// DepositTx atomically credits an account from an external source and
// records the provider id. A duplicate external id aborts the envelope with
// domain.ErrDuplicateExternalID before any balance change commits.
func (r *RepoPGS) DepositTx(ctx context.Context, arg domain.CreateDepositParams) (domain.DepositTxResult, error) {
	var result domain.DepositTxResult

	err := r.execTx(ctx, func(q repos) error {
		account, err := q.accounts.GetForUpdate(ctx, arg.AccountID)
		if err != nil {
			return err
		}

		if account.Status != domain.StatusActive {
			return domain.ErrAccountClosed
		}

		result.Transaction, err = q.transactions.Create(ctx, transactionrepo.CreateParams{
			RecipientAccountID: account.ID,
			Amount:             arg.Amount,
			Type:               domain.TypeDeposit,
			ExternalID:         arg.ExternalID,
		})
		if err != nil {
			return err
		}

		result.Account, err = apply(ctx, q, account, arg.Amount)

		return err
	})
	if err != nil {
		return domain.DepositTxResult{}, err
	}

	return result, nil
}

// CreateSubaccountTx atomically creates a subaccount under the given primary
// account and funds it with the requested limit. The subaccount is never
// observable unfunded or partially funded.
func (r *RepoPGS) CreateSubaccountTx(ctx context.Context, arg domain.CreateSubaccountParams) (domain.AllowanceTxResult, error) {
	var result domain.AllowanceTxResult

	err := r.execTx(ctx, func(q repos) error {
		owner, err := q.accounts.GetForUpdate(ctx, arg.OwnerAccountID)
		if err != nil {
			return err
		}

		if owner.Status != domain.StatusActive {
			return domain.ErrAccountClosed
		}

		if owner.IsSubaccount() {
			return domain.ErrInvalidOwner
		}

		sub, err := q.accounts.CreateSubaccount(ctx, owner.Owner, owner.ID, owner.Currency)
		if err != nil {
			return err
		}

		moved, err := move(ctx, q, owner, sub, arg.Limit, domain.TypeAllowanceFund, "")
		if err != nil {
			return err
		}

		result = domain.AllowanceTxResult{
			Transaction: moved.Transaction,
			Owner:       moved.FromAccount,
			Subaccount:  moved.ToAccount,
		}

		return nil
	})
	if err != nil {
		return domain.AllowanceTxResult{}, err
	}

	return result, nil
}

// UpdateLimitTx atomically sets a subaccount's spending limit to newLimit by
// transferring the delta between the subaccount and its owner. A zero delta
// writes no log record.
func (r *RepoPGS) UpdateLimitTx(ctx context.Context, subaccountID int64, newLimit string) (domain.AllowanceTxResult, error) {
	var result domain.AllowanceTxResult

	err := r.execTx(ctx, func(q repos) error {
		// The owner id is needed to lock in id order; it is immutable,
		// so an unlocked read is safe.
		sub, err := q.accounts.Get(ctx, subaccountID)
		if err != nil {
			return err
		}

		if !sub.IsSubaccount() {
			return domain.ErrNotSubaccount
		}

		owner, sub, err := lockPair(ctx, q, sub.OwnerAccountID, sub.ID)
		if err != nil {
			return err
		}

		if err := activePair(owner, sub); err != nil {
			return err
		}

		currentLimit, err := decimal.NewFromString(sub.SpendingLimit)
		if err != nil {
			return errorspkg.ErrInternal
		}

		target, err := decimal.NewFromString(newLimit)
		if err != nil {
			return domain.ErrInvalidAmount
		}

		delta := target.Sub(currentLimit)

		switch {
		case delta.IsZero():
			result = domain.AllowanceTxResult{Owner: owner, Subaccount: sub}
			return nil
		case delta.IsPositive():
			moved, err := move(ctx, q, owner, sub, delta.String(), domain.TypeAllowanceFund, "")
			if err != nil {
				return err
			}

			result = domain.AllowanceTxResult{
				Transaction: moved.Transaction,
				Owner:       moved.FromAccount,
				Subaccount:  moved.ToAccount,
			}
		default:
			moved, err := move(ctx, q, sub, owner, delta.Neg().String(), domain.TypeAllowanceReturn, "")
			if err != nil {
				return err
			}

			result = domain.AllowanceTxResult{
				Transaction: moved.Transaction,
				Owner:       moved.ToAccount,
				Subaccount:  moved.FromAccount,
			}
		}

		return nil
	})
	if err != nil {
		return domain.AllowanceTxResult{}, err
	}

	return result, nil
}

// CloseSubaccountTx atomically returns a subaccount's remaining balance to
// its owner and marks it closed. Closing an already closed subaccount is a
// no-op, so retried deletes are safe.
func (r *RepoPGS) CloseSubaccountTx(ctx context.Context, subaccountID int64) (domain.AllowanceTxResult, error) {
	var result domain.AllowanceTxResult

	err := r.execTx(ctx, func(q repos) error {
		sub, err := q.accounts.Get(ctx, subaccountID)
		if err != nil {
			return err
		}

		if !sub.IsSubaccount() {
			return domain.ErrNotSubaccount
		}

		owner, sub, err := lockPair(ctx, q, sub.OwnerAccountID, sub.ID)
		if err != nil {
			return err
		}

		if sub.Status == domain.StatusClosed {
			result = domain.AllowanceTxResult{Owner: owner, Subaccount: sub}
			return nil
		}

		balance, err := decimal.NewFromString(sub.Balance)
		if err != nil {
			return errorspkg.ErrInternal
		}

		if balance.IsPositive() {
			moved, err := move(ctx, q, sub, owner, sub.Balance, domain.TypeAllowanceReturn, "")
			if err != nil {
				return err
			}

			result.Transaction = moved.Transaction
			owner = moved.ToAccount
		}

		closed, err := q.accounts.Close(ctx, sub.ID)
		if err != nil {
			return err
		}

		result.Owner = owner
		result.Subaccount = closed

		return nil
	})
	if err != nil {
		return domain.AllowanceTxResult{}, err
	}

	return result, nil
}

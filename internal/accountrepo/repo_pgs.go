// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/dbpkg"
	"github.com/flowserve/ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const allColumns = `
	id, owner, owner_account_id, kind, balance, spending_limit, status, currency, created_at
`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a              domain.Account
		ownerAccountID sql.NullInt64
		spendingLimit  sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.Owner,
		&ownerAccountID,
		&a.Kind,
		&a.Balance,
		&spendingLimit,
		&a.Status,
		&a.Currency,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	a.OwnerAccountID = ownerAccountID.Int64
	a.SpendingLimit = spendingLimit.String

	return a, nil
}

const createPrimaryQuery = `
INSERT INTO
    accounts (owner, kind, balance, currency)
VALUES
    ($1, 'primary', $2, $3)
RETURNING` + allColumns

// CreatePrimary creates the primary account for the given owner and then returns it.
func (r *RepoPGS) CreatePrimary(ctx context.Context, owner, balance, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createPrimaryQuery, owner, balance, currency)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_owner_fkey":
				return a, domain.ErrOwnerNotFound
			case "accounts_owner_primary_key":
				return a, domain.ErrPrimaryAccountExists
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createSubaccountQuery = `
INSERT INTO
    accounts (owner, owner_account_id, kind, balance, spending_limit, currency)
VALUES
    ($1, $2, 'subaccount', 0, 0, $3)
RETURNING` + allColumns

// CreateSubaccount creates an empty subaccount under the given primary account.
// Funding it is the transfer envelope's job.
func (r *RepoPGS) CreateSubaccount(ctx context.Context, owner string, ownerAccountID int64, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createSubaccountQuery, owner, ownerAccountID, currency)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_owner_fkey":
				return a, domain.ErrOwnerNotFound
			case "accounts_owner_account_id_fkey":
				return a, domain.ErrAccountNotFound
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT` + allColumns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getForUpdateQuery = `
SELECT` + allColumns + `
FROM accounts
WHERE id = $1
FOR NO KEY UPDATE
`

// GetForUpdate returns the account with the given id and locks its row for
// the duration of the surrounding transaction. Callers locking two accounts
// must call it in ascending id order.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getForUpdateQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getPrimaryByOwnerQuery = `
SELECT` + allColumns + `
FROM accounts
WHERE owner = $1 AND kind = 'primary'
`

// GetPrimaryByOwner returns the primary account of the given user.
func (r *RepoPGS) GetPrimaryByOwner(ctx context.Context, owner string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getPrimaryByOwnerQuery, owner)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE id = $2
RETURNING` + allColumns

// AddBalance changes a primary account's balance and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	return r.add(ctx, addBalanceQuery, amount, id)
}

const addAllowanceQuery = `
UPDATE accounts
SET balance = balance + $1, spending_limit = spending_limit + $1
WHERE id = $2
RETURNING` + allColumns

// AddAllowance changes a subaccount's balance and spending limit by the same
// amount, keeping the two equal at every commit point.
func (r *RepoPGS) AddAllowance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	return r.add(ctx, addAllowanceQuery, amount, id)
}

func (r *RepoPGS) add(ctx context.Context, query, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, amount, id)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_balance_check", "accounts_spending_limit_check":
				return a, domain.ErrInsufficientBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const closeQuery = `
UPDATE accounts
SET status = 'closed'
WHERE id = $1
RETURNING` + allColumns

// Close marks the account closed. Closed accounts stay in the table because
// the transaction log references them.
func (r *RepoPGS) Close(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, closeQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listByOwnerQuery = `
SELECT` + allColumns + `
FROM accounts
WHERE owner = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListByOwner returns the specified number of accounts for the given user.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	return r.list(ctx, listByOwnerQuery, owner, limit, offset)
}

const listSubaccountsQuery = `
SELECT` + allColumns + `
FROM accounts
WHERE owner_account_id = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListSubaccounts returns the subaccounts of the given primary account.
func (r *RepoPGS) ListSubaccounts(ctx context.Context, ownerAccountID int64, limit, offset int32) ([]domain.Account, error) {
	return r.list(ctx, listSubaccountsQuery, ownerAccountID, limit, offset)
}

func (r *RepoPGS) list(ctx context.Context, query string, key interface{}, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, key, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var (
			a              domain.Account
			ownerAccountID sql.NullInt64
			spendingLimit  sql.NullString
		)

		if err := rows.Scan(
			&a.ID,
			&a.Owner,
			&ownerAccountID,
			&a.Kind,
			&a.Balance,
			&spendingLimit,
			&a.Status,
			&a.Currency,
			&a.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		a.OwnerAccountID = ownerAccountID.Int64
		a.SpendingLimit = spendingLimit.String

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

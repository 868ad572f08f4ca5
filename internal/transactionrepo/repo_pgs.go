// Package transactionrepo manages repository layer of the transaction log.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/dbpkg"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// CreateParams is the input data to append a completed log record.
// SenderAccountID or RecipientAccountID may be zero but not both;
// ExternalID may be empty.
type CreateParams struct {
	SenderAccountID    int64
	RecipientAccountID int64
	Amount             string
	Type               domain.TransactionType
	ExternalID         string
}

const createQuery = `
INSERT INTO
    transactions (sender_account_id, recipient_account_id, amount, status, transaction_type, external_id, completed_at)
VALUES
    ($1, $2, $3, 'completed', $4, $5, now())
RETURNING id, sender_account_id, recipient_account_id, amount, status, transaction_type, external_id, created_at, completed_at
`

// Create appends a completed transaction record and returns it.
// A unique-index violation on external_id means the event was already
// applied and is surfaced as domain.ErrDuplicateExternalID.
func (r *RepoPGS) Create(ctx context.Context, arg CreateParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		nullID(arg.SenderAccountID),
		nullID(arg.RecipientAccountID),
		arg.Amount,
		arg.Type,
		nullString(arg.ExternalID),
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_sender_account_id_fkey", "transactions_recipient_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			case "transactions_external_id_key":
				return t, domain.ErrDuplicateExternalID
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, sender_account_id, recipient_account_id, amount, status, transaction_type, external_id, created_at, completed_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getByExternalIDQuery = `
SELECT
	id, sender_account_id, recipient_account_id, amount, status, transaction_type, external_id, created_at, completed_at
FROM transactions
WHERE external_id = $1
`

// GetByExternalID returns the transaction bearing the given external id.
func (r *RepoPGS) GetByExternalID(ctx context.Context, externalID string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByExternalIDQuery, externalID)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByAccountQuery = `
SELECT
	id, sender_account_id, recipient_account_id, amount, status, transaction_type, external_id, created_at, completed_at
FROM transactions
WHERE
    sender_account_id = $1 OR recipient_account_id = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListByAccount returns the transactions that touch the specified account.
func (r *RepoPGS) ListByAccount(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery,
		arg.AccountID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			t           domain.Transaction
			sender      sql.NullInt64
			recipient   sql.NullInt64
			externalID  sql.NullString
			completedAt sql.NullTime
		)

		if err := rows.Scan(
			&t.ID,
			&sender,
			&recipient,
			&t.Amount,
			&t.Status,
			&t.Type,
			&externalID,
			&t.CreatedAt,
			&completedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		t.SenderAccountID = sender.Int64
		t.RecipientAccountID = recipient.Int64
		t.ExternalID = externalID.String
		t.CompletedAt = completedAt.Time

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var (
		t           domain.Transaction
		sender      sql.NullInt64
		recipient   sql.NullInt64
		externalID  sql.NullString
		completedAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&sender,
		&recipient,
		&t.Amount,
		&t.Status,
		&t.Type,
		&externalID,
		&t.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return t, err
	}

	t.SenderAccountID = sender.Int64
	t.RecipientAccountID = recipient.Int64
	t.ExternalID = externalID.String
	t.CompletedAt = completedAt.Time

	return t, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

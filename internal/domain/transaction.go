package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrAmountTooLarge indicates that the amount exceeds the configured ceiling.
	ErrAmountTooLarge = errors.New("amount exceeds maximum")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSameAccount indicates a transfer where sender and recipient are the same account.
	ErrSameAccount = errors.New("sender and recipient accounts are the same")
	// ErrDuplicateExternalID indicates that a completed transaction already
	// bears the given external id. Callers applying external deposits absorb
	// it and return the previously applied transaction instead.
	ErrDuplicateExternalID = errors.New("external id already applied")
)

// TransactionStatus holds the lifecycle state of a transaction.
// A transaction is created pending and reaches exactly one terminal state;
// terminal rows are never mutated.
type TransactionStatus string

// Supported transaction statuses.
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// TransactionType tags the business meaning of a funds movement.
type TransactionType string

// Supported transaction types.
const (
	TypeDeposit          TransactionType = "deposit"
	TypeAllowanceFund    TransactionType = "allowance_fund"
	TypeAllowanceReturn  TransactionType = "allowance_return"
	TypeInternalTransfer TransactionType = "internal_transfer"
)

// Transaction is one record of the append-only funds movement log.
// SenderAccountID is zero for pure external deposits; ExternalID is set
// only for provider-delivered events and is unique across the log.
type Transaction struct {
	ID                 int64             `json:"id"`
	SenderAccountID    int64             `json:"sender_account_id,omitempty"`
	RecipientAccountID int64             `json:"recipient_account_id,omitempty"`
	Amount             string            `json:"amount"`
	Status             TransactionStatus `json:"status"`
	Type               TransactionType   `json:"transaction_type"`
	ExternalID         string            `json:"external_id,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	CompletedAt        time.Time         `json:"completed_at,omitempty"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        string          `json:"amount"`
	Type          TransactionType `json:"transaction_type"`
}

// CreateDepositParams is the input data for the external deposit transaction.
type CreateDepositParams struct {
	AccountID  int64  `json:"account_id"`
	Amount     string `json:"amount"`
	ExternalID string `json:"external_id"`
}

// ListTransactionsParams is the input data to page through an account's log.
type ListTransactionsParams struct {
	AccountID int64 `json:"account_id"`
	Limit     int32 `json:"limit"`
	Offset    int32 `json:"offset"`
}

// CreateSubaccountParams is the input data for the subaccount creation transaction.
type CreateSubaccountParams struct {
	OwnerAccountID int64  `json:"owner_account_id"`
	Limit          string `json:"limit"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transaction Transaction `json:"transaction"`
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
}

// DepositTxResult is the result of the deposit transaction.
type DepositTxResult struct {
	Transaction Transaction `json:"transaction"`
	Account     Account     `json:"account"`
}

// AllowanceTxResult is the result of a subaccount lifecycle transaction.
// Transaction has a zero id when the operation moved no funds.
type AllowanceTxResult struct {
	Transaction Transaction `json:"transaction,omitempty"`
	Owner       Account     `json:"owner"`
	Subaccount  Account     `json:"subaccount"`
}

// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountClosed indicates that the account is closed.
	ErrAccountClosed = errors.New("account closed")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrNotSubaccount indicates that the account is not a subaccount.
	ErrNotSubaccount = errors.New("account is not a subaccount")
	// ErrPrimaryAccountExists indicates that the user already has a primary account.
	ErrPrimaryAccountExists = errors.New("primary account already exists")
	// ErrInvalidOwner indicates that the user is unauthorized to operate on the account.
	ErrInvalidOwner = errors.New("unauthorized owner")
)

// AccountKind discriminates primary accounts from allowance-bounded subaccounts.
type AccountKind string

// Supported account kinds.
const (
	KindPrimary    AccountKind = "primary"
	KindSubaccount AccountKind = "subaccount"
)

// AccountStatus holds the lifecycle state of an account.
type AccountStatus string

// Supported account statuses.
const (
	StatusActive AccountStatus = "active"
	StatusClosed AccountStatus = "closed"
)

// Account holds balance data for a user wallet.
//
// A subaccount carries the id of its owning primary account and a spending
// limit that equals its balance at rest. Balances are decimal strings; all
// arithmetic on them goes through shopspring/decimal, never floats.
type Account struct {
	ID             int64         `json:"id"`
	Owner          string        `json:"owner"`
	OwnerAccountID int64         `json:"owner_account_id,omitempty"`
	Kind           AccountKind   `json:"kind"`
	Balance        string        `json:"balance"`
	SpendingLimit  string        `json:"spending_limit,omitempty"`
	Status         AccountStatus `json:"status"`
	Currency       string        `json:"currency"`
	CreatedAt      time.Time     `json:"created_at"`
}

// IsSubaccount reports whether the account is an allowance subaccount.
func (a Account) IsSubaccount() bool {
	return a.Kind == KindSubaccount
}

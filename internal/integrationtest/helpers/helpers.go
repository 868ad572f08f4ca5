// Package helpers seeds database rows for integration tests.
package helpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/flowserve/ledger/internal/accountrepo"
	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/internal/transferrepo"
	"github.com/flowserve/ledger/internal/userrepo"
	"github.com/flowserve/ledger/pkg/currencypkg"
	"github.com/flowserve/ledger/pkg/passpkg"
	"github.com/flowserve/ledger/pkg/randompkg"
)

// SeedUser inserts a random user.
func SeedUser(t *testing.T, db *sql.DB) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Owner(),
		Email:          randompkg.Email(),
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedPrimaryAccount inserts a primary account with the given balance.
func SeedPrimaryAccount(t *testing.T, db *sql.DB, owner, balance string) domain.Account {
	t.Helper()

	account, err := accountrepo.NewRepoPGS(db).CreatePrimary(context.Background(), owner, balance, currencypkg.USD)
	if err != nil {
		t.Fatalf("accountRepo.CreatePrimary(ctx, %v, %v, USD) returned error: %v", owner, balance, err)
	}

	return account
}

// SeedAccountWith1000USDBalance inserts a user-owned primary account holding 1000 USD.
func SeedAccountWith1000USDBalance(t *testing.T, db *sql.DB, owner string) domain.Account {
	t.Helper()
	return SeedPrimaryAccount(t, db, owner, "1000")
}

// SeedSubaccount creates and funds a subaccount of the given primary account.
func SeedSubaccount(t *testing.T, db *sql.DB, ownerAccountID int64, limit string) domain.Account {
	t.Helper()

	arg := domain.CreateSubaccountParams{
		OwnerAccountID: ownerAccountID,
		Limit:          limit,
	}

	result, err := transferrepo.NewRepoPGS(db).CreateSubaccountTx(context.Background(), arg)
	if err != nil {
		t.Fatalf("transferRepo.CreateSubaccountTx(ctx, %+v) returned error: %v", arg, err)
	}

	return result.Subaccount
}

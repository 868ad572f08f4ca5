//go:build integration

package transferrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/flowserve/ledger/internal/accountrepo"
	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/internal/integrationtest/helpers"
	"github.com/flowserve/ledger/internal/transferrepo"
	"github.com/flowserve/ledger/pkg/configpkg"
	"github.com/flowserve/ledger/pkg/randompkg"
)

var (
	testDB          *sql.DB
	testRepo        *transferrepo.RepoPGS
	testAccountRepo *accountrepo.RepoPGS
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err = sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = transferrepo.NewRepoPGS(testDB)
	testAccountRepo = accountrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func seedPair(t *testing.T, balance string) (domain.Account, domain.Account) {
	t.Helper()

	user1 := helpers.SeedUser(t, testDB)
	user2 := helpers.SeedUser(t, testDB)

	return helpers.SeedPrimaryAccount(t, testDB, user1.Username, balance),
		helpers.SeedPrimaryAccount(t, testDB, user2.Username, balance)
}

func TestTransferTx(t *testing.T) {
	from, to := seedPair(t, "1000")
	amount := "10"

	// Run n concurrent transfers to check that locking keeps the sum intact.
	n := 5
	errs := make(chan error, n)
	results := make(chan domain.TransferTxResult, n)

	for i := 0; i < n; i++ {
		go func() {
			result, err := testRepo.TransferTx(context.Background(), domain.CreateTransferParams{
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Amount:        amount,
				Type:          domain.TypeInternalTransfer,
			})

			errs <- err
			results <- result
		}()
	}

	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)

		result := <-results

		require.Equal(t, from.ID, result.Transaction.SenderAccountID)
		require.Equal(t, to.ID, result.Transaction.RecipientAccountID)
		require.Equal(t, amount, result.Transaction.Amount)
		require.Equal(t, domain.StatusCompleted, result.Transaction.Status)
		require.Equal(t, domain.TypeInternalTransfer, result.Transaction.Type)
		require.NotZero(t, result.Transaction.ID)
		require.NotZero(t, result.Transaction.CompletedAt)

		// Balances always differ by a whole multiple of amount.
		fromBalance := decimal.RequireFromString(result.FromAccount.Balance)
		toBalance := decimal.RequireFromString(result.ToAccount.Balance)
		diff := decimal.RequireFromString(from.Balance).Sub(fromBalance)

		require.True(t, diff.IsPositive())
		require.True(t, diff.Mod(decimal.RequireFromString(amount)).IsZero())
		require.True(t, fromBalance.Add(toBalance).Equal(decimal.NewFromInt(2000)))
	}

	gotFrom, err := testAccountRepo.Get(context.Background(), from.ID)
	require.NoError(t, err)
	require.Equal(t, "950", gotFrom.Balance)

	gotTo, err := testAccountRepo.Get(context.Background(), to.ID)
	require.NoError(t, err)
	require.Equal(t, "1050", gotTo.Balance)
}

func TestTransferTxErrors(t *testing.T) {
	from, to := seedPair(t, "100")

	testCases := []struct {
		name    string
		arg     domain.CreateTransferParams
		wantErr error
	}{
		{
			name: "ErrSameAccount",
			arg: domain.CreateTransferParams{
				FromAccountID: from.ID,
				ToAccountID:   from.ID,
				Amount:        "10",
				Type:          domain.TypeInternalTransfer,
			},
			wantErr: domain.ErrSameAccount,
		},
		{
			name: "ErrInsufficientBalance",
			arg: domain.CreateTransferParams{
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Amount:        "100.01",
				Type:          domain.TypeInternalTransfer,
			},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name: "ErrAccountNotFound",
			arg: domain.CreateTransferParams{
				FromAccountID: from.ID,
				ToAccountID:   0,
				Amount:        "10",
				Type:          domain.TypeInternalTransfer,
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "ErrInvalidAmount",
			arg: domain.CreateTransferParams{
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Amount:        "0",
				Type:          domain.TypeInternalTransfer,
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			result, err := testRepo.TransferTx(context.Background(), tc.arg)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, result)
		})
	}

	// A failed envelope must leave both balances untouched.
	gotFrom, err := testAccountRepo.Get(context.Background(), from.ID)
	require.NoError(t, err)
	require.Equal(t, "100", gotFrom.Balance)

	gotTo, err := testAccountRepo.Get(context.Background(), to.ID)
	require.NoError(t, err)
	require.Equal(t, "100", gotTo.Balance)
}

func TestDepositTx(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "0")
	externalID := randompkg.ExternalID("cash")

	result, err := testRepo.DepositTx(context.Background(), domain.CreateDepositParams{
		AccountID:  account.ID,
		Amount:     "250",
		ExternalID: externalID,
	})
	require.NoError(t, err)

	require.Equal(t, account.ID, result.Transaction.RecipientAccountID)
	require.Equal(t, "250", result.Transaction.Amount)
	require.Equal(t, domain.TypeDeposit, result.Transaction.Type)
	require.Equal(t, externalID, result.Transaction.ExternalID)
	require.Equal(t, "250", result.Account.Balance)
}

func TestDepositTxDuplicateExternalID(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "0")
	externalID := randompkg.ExternalID("card")

	arg := domain.CreateDepositParams{
		AccountID:  account.ID,
		Amount:     "100",
		ExternalID: externalID,
	}

	// Concurrent same-event deliveries race for the unique index.
	n := 5
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		go func() {
			_, err := testRepo.DepositTx(context.Background(), arg)
			errs <- err
		}()
	}

	var applied, duplicates int

	for i := 0; i < n; i++ {
		err := <-errs
		switch {
		case err == nil:
			applied++
		case err == domain.ErrDuplicateExternalID:
			duplicates++
		default:
			t.Fatalf("testRepo.DepositTx(ctx, %+v) returned error: %v", arg, err)
		}
	}

	require.Equal(t, 1, applied)
	require.Equal(t, n-1, duplicates)

	got, err := testAccountRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, "100", got.Balance)
}

func TestCreateSubaccountTx(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	owner := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")

	result, err := testRepo.CreateSubaccountTx(context.Background(), domain.CreateSubaccountParams{
		OwnerAccountID: owner.ID,
		Limit:          "300",
	})
	require.NoError(t, err)

	require.Equal(t, "700", result.Owner.Balance)
	require.Equal(t, domain.KindSubaccount, result.Subaccount.Kind)
	require.Equal(t, owner.ID, result.Subaccount.OwnerAccountID)
	require.Equal(t, user.Username, result.Subaccount.Owner)
	require.Equal(t, "300", result.Subaccount.Balance)
	require.Equal(t, "300", result.Subaccount.SpendingLimit)
	require.Equal(t, domain.TypeAllowanceFund, result.Transaction.Type)

	t.Run("ErrInvalidOwner", func(t *testing.T) {
		_, err := testRepo.CreateSubaccountTx(context.Background(), domain.CreateSubaccountParams{
			OwnerAccountID: result.Subaccount.ID,
			Limit:          "10",
		})
		require.ErrorIs(t, err, domain.ErrInvalidOwner)
	})

	t.Run("ErrInsufficientBalance", func(t *testing.T) {
		_, err := testRepo.CreateSubaccountTx(context.Background(), domain.CreateSubaccountParams{
			OwnerAccountID: owner.ID,
			Limit:          "100000",
		})
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		// The rejected subaccount row must not survive the rollback.
		subs, listErr := testAccountRepo.ListSubaccounts(context.Background(), owner.ID, 10, 0)
		require.NoError(t, listErr)
		require.Len(t, subs, 1)
	})
}

func TestUpdateLimitTx(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	owner := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")
	sub := helpers.SeedSubaccount(t, testDB, owner.ID, "200")

	t.Run("Raise", func(t *testing.T) {
		result, err := testRepo.UpdateLimitTx(context.Background(), sub.ID, "500")
		require.NoError(t, err)

		require.Equal(t, "500", result.Subaccount.Balance)
		require.Equal(t, "500", result.Subaccount.SpendingLimit)
		require.Equal(t, "500", result.Owner.Balance)
		require.Equal(t, domain.TypeAllowanceFund, result.Transaction.Type)
		require.Equal(t, "300", result.Transaction.Amount)
	})

	t.Run("Lower", func(t *testing.T) {
		result, err := testRepo.UpdateLimitTx(context.Background(), sub.ID, "100")
		require.NoError(t, err)

		require.Equal(t, "100", result.Subaccount.Balance)
		require.Equal(t, "100", result.Subaccount.SpendingLimit)
		require.Equal(t, "900", result.Owner.Balance)
		require.Equal(t, domain.TypeAllowanceReturn, result.Transaction.Type)
		require.Equal(t, "400", result.Transaction.Amount)
	})

	t.Run("NoChange", func(t *testing.T) {
		result, err := testRepo.UpdateLimitTx(context.Background(), sub.ID, "100")
		require.NoError(t, err)

		require.Equal(t, "100", result.Subaccount.SpendingLimit)
		require.Zero(t, result.Transaction.ID)
	})

	t.Run("ErrNotSubaccount", func(t *testing.T) {
		_, err := testRepo.UpdateLimitTx(context.Background(), owner.ID, "100")
		require.ErrorIs(t, err, domain.ErrNotSubaccount)
	})

	t.Run("ErrInsufficientBalance", func(t *testing.T) {
		_, err := testRepo.UpdateLimitTx(context.Background(), sub.ID, "100000")
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})
}

func TestCloseSubaccountTx(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	owner := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")
	sub := helpers.SeedSubaccount(t, testDB, owner.ID, "400")

	result, err := testRepo.CloseSubaccountTx(context.Background(), sub.ID)
	require.NoError(t, err)

	require.Equal(t, domain.StatusClosed, result.Subaccount.Status)
	require.Equal(t, "0", result.Subaccount.Balance)
	require.Equal(t, "1000", result.Owner.Balance)
	require.Equal(t, domain.TypeAllowanceReturn, result.Transaction.Type)
	require.Equal(t, "400", result.Transaction.Amount)

	t.Run("AlreadyClosedIsNoop", func(t *testing.T) {
		again, err := testRepo.CloseSubaccountTx(context.Background(), sub.ID)
		require.NoError(t, err)

		require.Equal(t, domain.StatusClosed, again.Subaccount.Status)
		require.Zero(t, again.Transaction.ID)

		gotOwner, err := testAccountRepo.Get(context.Background(), owner.ID)
		require.NoError(t, err)
		require.Equal(t, "1000", gotOwner.Balance)
	})

	t.Run("ErrNotSubaccount", func(t *testing.T) {
		_, err := testRepo.CloseSubaccountTx(context.Background(), owner.ID)
		require.ErrorIs(t, err, domain.ErrNotSubaccount)
	})
}

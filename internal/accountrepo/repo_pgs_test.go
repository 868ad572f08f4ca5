//go:build integration

package accountrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowserve/ledger/internal/accountrepo"
	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/internal/integrationtest/helpers"
	"github.com/flowserve/ledger/pkg/configpkg"
	"github.com/flowserve/ledger/pkg/currencypkg"
)

var (
	testDB   *sql.DB
	testRepo *accountrepo.RepoPGS
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

	testRepo = accountrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func TestCreatePrimary(t *testing.T) {
	user := helpers.SeedUser(t, testDB)

	account, err := testRepo.CreatePrimary(context.Background(), user.Username, "1000", currencypkg.USD)
	require.NoError(t, err)

	require.Equal(t, user.Username, account.Owner)
	require.Equal(t, domain.KindPrimary, account.Kind)
	require.Equal(t, domain.StatusActive, account.Status)
	require.Equal(t, "1000", account.Balance)
	require.Empty(t, account.SpendingLimit)
	require.Zero(t, account.OwnerAccountID)
	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)

	t.Run("ErrPrimaryAccountExists", func(t *testing.T) {
		_, err := testRepo.CreatePrimary(context.Background(), user.Username, "0", currencypkg.USD)
		require.ErrorIs(t, err, domain.ErrPrimaryAccountExists)
	})

	t.Run("ErrOwnerNotFound", func(t *testing.T) {
		_, err := testRepo.CreatePrimary(context.Background(), "nosuchowner", "0", currencypkg.USD)
		require.ErrorIs(t, err, domain.ErrOwnerNotFound)
	})
}

func TestCreateSubaccount(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	owner := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")

	sub, err := testRepo.CreateSubaccount(context.Background(), owner.Owner, owner.ID, owner.Currency)
	require.NoError(t, err)

	require.Equal(t, domain.KindSubaccount, sub.Kind)
	require.Equal(t, owner.ID, sub.OwnerAccountID)
	require.Equal(t, "0", sub.Balance)
	require.Equal(t, "0", sub.SpendingLimit)
}

func TestGet(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "500")

	got, err := testRepo.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account, got)

	t.Run("ErrAccountNotFound", func(t *testing.T) {
		_, err := testRepo.Get(context.Background(), 0)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestGetPrimaryByOwner(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "500")
	helpers.SeedSubaccount(t, testDB, account.ID, "100")

	got, err := testRepo.GetPrimaryByOwner(context.Background(), user.Username)
	require.NoError(t, err)
	require.Equal(t, account.ID, got.ID)
	require.Equal(t, domain.KindPrimary, got.Kind)

	t.Run("ErrAccountNotFound", func(t *testing.T) {
		_, err := testRepo.GetPrimaryByOwner(context.Background(), "nosuchowner")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAddBalance(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "100")

	got, err := testRepo.AddBalance(context.Background(), "-40", account.ID)
	require.NoError(t, err)
	require.Equal(t, "60", got.Balance)

	t.Run("ErrInsufficientBalance", func(t *testing.T) {
		_, err := testRepo.AddBalance(context.Background(), "-60.01", account.ID)
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})
}

func TestAddAllowance(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	owner := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")
	sub := helpers.SeedSubaccount(t, testDB, owner.ID, "100")

	// Balance and limit always move together on a subaccount.
	got, err := testRepo.AddAllowance(context.Background(), "50", sub.ID)
	require.NoError(t, err)
	require.Equal(t, "150", got.Balance)
	require.Equal(t, "150", got.SpendingLimit)

	got, err = testRepo.AddAllowance(context.Background(), "-150", sub.ID)
	require.NoError(t, err)
	require.Equal(t, "0", got.Balance)
	require.Equal(t, "0", got.SpendingLimit)

	t.Run("ErrInsufficientBalance", func(t *testing.T) {
		_, err := testRepo.AddAllowance(context.Background(), "-1", sub.ID)
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})
}

func TestClose(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "0")

	got, err := testRepo.Close(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, got.Status)
}

func TestListByOwner(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")
	helpers.SeedSubaccount(t, testDB, account.ID, "100")
	helpers.SeedSubaccount(t, testDB, account.ID, "200")

	accounts, err := testRepo.ListByOwner(context.Background(), user.Username, 10, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
}

func TestListSubaccounts(t *testing.T) {
	user := helpers.SeedUser(t, testDB)
	account := helpers.SeedPrimaryAccount(t, testDB, user.Username, "1000")
	sub1 := helpers.SeedSubaccount(t, testDB, account.ID, "100")
	sub2 := helpers.SeedSubaccount(t, testDB, account.ID, "200")

	subs, err := testRepo.ListSubaccounts(context.Background(), account.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.ElementsMatch(t, []int64{sub1.ID, sub2.ID}, []int64{subs[0].ID, subs[1].ID})
}

package depositservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/flowserve/ledger/internal/domain"
	"github.com/flowserve/ledger/pkg/errorspkg"
	"github.com/flowserve/ledger/pkg/randompkg"
)

func TestApply(t *testing.T) {
	testAccountID := int64(1)
	testAmount := "100"
	testExternalID := randompkg.ExternalID("cash")

	testTransaction := domain.Transaction{
		ID:                 1,
		RecipientAccountID: testAccountID,
		Amount:             testAmount,
		Status:             domain.StatusCompleted,
		Type:               domain.TypeDeposit,
		ExternalID:         testExternalID,
		CreatedAt:          time.Now().Truncate(time.Second).UTC(),
	}

	type input struct {
		accountID  int64
		amount     string
		externalID string
	}

	testCases := []struct {
		name          string
		input         input
		buildStubs    func(repo *MockRepo, log *MockLogReader)
		checkResponse func(got domain.Transaction, err error)
	}{
		{
			name:  "OK",
			input: input{testAccountID, testAmount, testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Eq(domain.CreateDepositParams{
					AccountID:  testAccountID,
					Amount:     testAmount,
					ExternalID: testExternalID,
				})).
					Times(1).
					Return(domain.DepositTxResult{Transaction: testTransaction}, nil)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransaction, got)
			},
		},
		{
			name:  "MissingExternalID",
			input: input{testAccountID, testAmount, ""},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrMissingExternalID)
				require.Empty(t, got)
			},
		},
		{
			name:  "InvalidAmount",
			input: input{testAccountID, "!@#$", testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:  "NegativeAmount",
			input: input{testAccountID, "-100", testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:  "AmountTooLarge",
			input: input{testAccountID, "10000.01", testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrAmountTooLarge)
			},
		},
		{
			name:  "RedeliveryReturnsPriorTransaction",
			input: input{testAccountID, testAmount, testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
					Times(1).
					Return(testTransaction, nil)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransaction, got)
			},
		},
		{
			name:  "ConcurrentDuplicateReturnsWinner",
			input: input{testAccountID, testAmount, testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				gomock.InOrder(
					log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
						Return(domain.Transaction{}, domain.ErrTransactionNotFound),
					repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).
						Return(domain.DepositTxResult{}, domain.ErrDuplicateExternalID),
					log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
						Return(testTransaction, nil),
				)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.NoError(t, err)
				require.Equal(t, testTransaction, got)
			},
		},
		{
			name:  "LogReaderError",
			input: input{testAccountID, testAmount, testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
					Times(1).
					Return(domain.Transaction{}, errorspkg.ErrInternal)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name:  "RepoError",
			input: input{testAccountID, testAmount, testExternalID},
			buildStubs: func(repo *MockRepo, log *MockLogReader) {
				log.EXPECT().GetByExternalID(gomock.Any(), gomock.Eq(testExternalID)).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
				repo.EXPECT().DepositTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.DepositTxResult{}, domain.ErrAccountClosed)
			},
			checkResponse: func(got domain.Transaction, err error) {
				require.ErrorIs(t, err, domain.ErrAccountClosed)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			log := NewMockLogReader(ctrl)
			service := New(repo, log, decimal.NewFromInt(10_000))

			tc.buildStubs(repo, log)

			got, err := service.Apply(context.Background(), tc.input.accountID, tc.input.amount, tc.input.externalID)
			tc.checkResponse(got, err)
		})
	}
}

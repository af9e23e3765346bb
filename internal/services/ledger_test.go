package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTx makes the tx runner mock run the unit of work inline.
func passthroughTx(ctrl *gomock.Controller) *services.MockTxRunner {
	tx := services.NewMockTxRunner(ctrl)
	run := func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	tx.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	tx.EXPECT().WithinSnapshot(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	return tx
}

type ledgerMocks struct {
	projects     *services.MockProjectStore
	wallets      *services.MockWalletStore
	transactions *services.MockTransactionStore
	disputes     *services.MockDisputeResolver
	idem         *services.MockIdempotencyStore
	kafka        *services.MockKafkaWriter
}

func newLedger(ctrl *gomock.Controller) (*services.LedgerService, ledgerMocks) {
	m := ledgerMocks{
		projects:     services.NewMockProjectStore(ctrl),
		wallets:      services.NewMockWalletStore(ctrl),
		transactions: services.NewMockTransactionStore(ctrl),
		disputes:     services.NewMockDisputeResolver(ctrl),
		idem:         services.NewMockIdempotencyStore(ctrl),
		kafka:        services.NewMockKafkaWriter(ctrl),
	}
	svc := services.NewLedgerService(passthroughTx(ctrl), m.projects, m.wallets, m.transactions,
		m.disputes, m.idem, m.kafka, services.WithBaseDelay(0))
	return svc, m
}

func personalWallet(userID uuid.UUID, balance models.Amount) *models.Wallet {
	w := models.NewPersonalWallet(userID, models.DefaultCurrency, testNow)
	w.Balance = balance
	return w
}

func escrowWallet(balance models.Amount) *models.Wallet {
	return &models.Wallet{WalletID: uuid.New(), Kind: models.WalletKindEscrow, Currency: models.DefaultCurrency, Balance: balance}
}

func withBalance(w *models.Wallet, delta models.Amount) *models.Wallet {
	c := *w
	c.Balance += delta
	return &c
}

func TestLedgerService_Fund(t *testing.T) {
	clientID, freelancerID := uuid.New(), uuid.New()
	client := models.Caller{UserID: clientID, UserType: models.UserTypeClient}

	tests := []struct {
		name          string
		caller        models.Caller
		status        models.ProjectStatus
		clientBalance models.Amount
		wantErr       error
	}{
		{name: "funds assigned project", caller: client, status: models.StatusAssigned, clientBalance: 10000},
		{name: "balance equal to amount", caller: client, status: models.StatusAssigned, clientBalance: 5000},
		{name: "insufficient funds", caller: client, status: models.StatusAssigned, clientBalance: 4999, wantErr: models.ErrInsufficientFunds},
		{name: "wrong status", caller: client, status: models.StatusOpen, clientBalance: 10000, wantErr: models.ErrInvalidState},
		{name: "already funded", caller: client, status: models.StatusFunded, clientBalance: 10000, wantErr: models.ErrInvalidState},
		{name: "not the client", caller: models.Caller{UserID: freelancerID, UserType: models.UserTypeFreelancer}, status: models.StatusAssigned, clientBalance: 10000, wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, m := newLedger(ctrl)

			p := testProject(clientID, &freelancerID, tt.status, 5000)
			clientWallet := personalWallet(clientID, tt.clientBalance)
			escrow := escrowWallet(0)

			m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil)
			if tt.wantErr == nil || errors.Is(tt.wantErr, models.ErrInsufficientFunds) {
				m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), clientID).Return(clientWallet, nil)
			}
			if tt.wantErr == nil {
				m.wallets.EXPECT().GetEscrowForUpdate(gomock.Any()).Return(escrow, nil)
				m.wallets.EXPECT().AddToBalance(gomock.Any(), clientWallet.WalletID, models.Amount(-5000)).Return(withBalance(clientWallet, -5000), nil)
				m.wallets.EXPECT().AddToBalance(gomock.Any(), escrow.WalletID, models.Amount(5000)).Return(withBalance(escrow, 5000), nil)
				m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, txn *models.Transaction) error {
					assert.Equal(t, models.TransactionPayment, txn.Type)
					assert.Equal(t, models.Amount(5000), txn.Amount)
					assert.Equal(t, clientWallet.WalletID, *txn.SourceWalletID)
					assert.Equal(t, escrow.WalletID, *txn.EscrowWalletID)
					assert.Nil(t, txn.DestinationWalletID)
					return nil
				})
				m.projects.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, up *models.Project) error {
					assert.Equal(t, models.StatusFunded, up.Status)
					return nil
				})
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := svc.Fund(context.Background(), tt.caller, p.ProjectID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.clientBalance-5000, res.Wallet.Balance)
			assert.Equal(t, models.Amount(5000), res.Escrow.Balance)
			assert.Equal(t, models.StatusFunded, res.Project.Status)
		})
	}
}

func TestLedgerService_Fund_StorageErrorAbortsUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newLedger(ctrl)

	clientID, freelancerID := uuid.New(), uuid.New()
	p := testProject(clientID, &freelancerID, models.StatusAssigned, 5000)
	clientWallet := personalWallet(clientID, 5000)
	escrow := escrowWallet(0)
	dbErr := errors.New("connection reset")

	m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil)
	m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), clientID).Return(clientWallet, nil)
	m.wallets.EXPECT().GetEscrowForUpdate(gomock.Any()).Return(escrow, nil)
	m.wallets.EXPECT().AddToBalance(gomock.Any(), clientWallet.WalletID, models.Amount(-5000)).Return(withBalance(clientWallet, -5000), nil)
	m.wallets.EXPECT().AddToBalance(gomock.Any(), escrow.WalletID, models.Amount(5000)).Return(nil, dbErr)

	_, err := svc.Fund(context.Background(), models.Caller{UserID: clientID, UserType: models.UserTypeClient}, p.ProjectID)
	assert.ErrorIs(t, err, dbErr)
}

func TestLedgerService_Fund_RetriesConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newLedger(ctrl)

	clientID, freelancerID := uuid.New(), uuid.New()
	p := testProject(clientID, &freelancerID, models.StatusAssigned, 5000)
	clientWallet := personalWallet(clientID, 5000)
	escrow := escrowWallet(0)
	conflict := fmt.Errorf("%w: lock timeout", models.ErrConflict)

	gomock.InOrder(
		m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(nil, conflict),
		m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil),
	)
	m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), clientID).Return(clientWallet, nil)
	m.wallets.EXPECT().GetEscrowForUpdate(gomock.Any()).Return(escrow, nil)
	m.wallets.EXPECT().AddToBalance(gomock.Any(), clientWallet.WalletID, models.Amount(-5000)).Return(withBalance(clientWallet, -5000), nil)
	m.wallets.EXPECT().AddToBalance(gomock.Any(), escrow.WalletID, models.Amount(5000)).Return(withBalance(escrow, 5000), nil)
	m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	m.projects.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	res, err := svc.Fund(context.Background(), models.Caller{UserID: clientID, UserType: models.UserTypeClient}, p.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFunded, res.Project.Status)
}

func TestLedgerService_Release(t *testing.T) {
	clientID, freelancerID := uuid.New(), uuid.New()
	client := models.Caller{UserID: clientID, UserType: models.UserTypeClient}

	tests := []struct {
		name          string
		status        models.ProjectStatus
		noFreelancer  bool
		escrowBalance models.Amount
		wantErr       error
	}{
		{name: "release delivered", status: models.StatusDelivered, escrowBalance: 5000},
		{name: "release funded", status: models.StatusFunded, escrowBalance: 7000},
		{name: "release in progress", status: models.StatusInProgress, escrowBalance: 5000},
		{name: "escrow short", status: models.StatusDelivered, escrowBalance: 4000, wantErr: models.ErrInsufficientFunds},
		{name: "assigned only", status: models.StatusAssigned, escrowBalance: 5000, wantErr: models.ErrInvalidState},
		{name: "no freelancer", status: models.StatusFunded, noFreelancer: true, escrowBalance: 5000, wantErr: models.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, m := newLedger(ctrl)

			fid := &freelancerID
			if tt.noFreelancer {
				fid = nil
			}
			p := testProject(clientID, fid, tt.status, 5000)
			freelancerWallet := personalWallet(freelancerID, 0)
			escrow := escrowWallet(tt.escrowBalance)

			m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil)
			if tt.wantErr == nil || errors.Is(tt.wantErr, models.ErrInsufficientFunds) {
				m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), freelancerID).Return(freelancerWallet, nil)
				m.wallets.EXPECT().GetEscrowForUpdate(gomock.Any()).Return(escrow, nil)
			}
			if tt.wantErr == nil {
				m.wallets.EXPECT().AddToBalance(gomock.Any(), escrow.WalletID, models.Amount(-5000)).Return(withBalance(escrow, -5000), nil)
				m.wallets.EXPECT().AddToBalance(gomock.Any(), freelancerWallet.WalletID, models.Amount(5000)).Return(withBalance(freelancerWallet, 5000), nil)
				m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, txn *models.Transaction) error {
					assert.Equal(t, models.TransactionRelease, txn.Type)
					assert.Equal(t, freelancerWallet.WalletID, *txn.DestinationWalletID)
					return nil
				})
				m.projects.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := svc.Release(context.Background(), client, p.ProjectID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusCompleted, res.Project.Status)
			assert.NotNil(t, res.Project.CompletedAt)
			assert.Equal(t, models.Amount(5000), res.Wallet.Balance)
			assert.Equal(t, tt.escrowBalance-5000, res.Escrow.Balance)
		})
	}
}

func TestLedgerService_Refund(t *testing.T) {
	clientID, freelancerID := uuid.New(), uuid.New()
	client := models.Caller{UserID: clientID, UserType: models.UserTypeClient}

	tests := []struct {
		name    string
		status  models.ProjectStatus
		wantErr error
	}{
		{name: "refund funded", status: models.StatusFunded},
		{name: "refund disputed", status: models.StatusDisputed},
		{name: "refund delivered", status: models.StatusDelivered, wantErr: models.ErrInvalidState},
		{name: "refund cancelled", status: models.StatusCancelled, wantErr: models.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, m := newLedger(ctrl)

			p := testProject(clientID, &freelancerID, tt.status, 5000)
			clientWallet := personalWallet(clientID, 0)
			escrow := escrowWallet(5000)

			m.projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil)
			if tt.wantErr == nil {
				m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), clientID).Return(clientWallet, nil)
				m.wallets.EXPECT().GetEscrowForUpdate(gomock.Any()).Return(escrow, nil)
				m.wallets.EXPECT().AddToBalance(gomock.Any(), escrow.WalletID, models.Amount(-5000)).Return(withBalance(escrow, -5000), nil)
				m.wallets.EXPECT().AddToBalance(gomock.Any(), clientWallet.WalletID, models.Amount(5000)).Return(withBalance(clientWallet, 5000), nil)
				m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
				m.disputes.EXPECT().ResolveOpen(gomock.Any(), p.ProjectID, "refunded", gomock.Any()).Return(int64(1), nil)
				m.projects.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := svc.Refund(context.Background(), client, p.ProjectID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, res.Project.Status)
			assert.Equal(t, models.TransactionRefund, res.Transaction.Type)
			assert.Equal(t, models.Amount(5000), res.Wallet.Balance)
		})
	}
}

func TestLedgerService_Deposit(t *testing.T) {
	userID := uuid.New()
	caller := models.Caller{UserID: userID, UserType: models.UserTypeClient}

	t.Run("rejects non-positive amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, _ := newLedger(ctrl)

		_, err := svc.Deposit(context.Background(), caller, 0, "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("credits wallet and publishes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		w := personalWallet(userID, 100)
		m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
		m.wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, models.Amount(2500)).Return(withBalance(w, 2500), nil)
		m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, txn *models.Transaction) error {
			assert.Equal(t, models.TransactionDeposit, txn.Type)
			assert.Nil(t, txn.SourceWalletID)
			assert.Equal(t, w.WalletID, *txn.DestinationWalletID)
			return nil
		})
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.NotEmpty(t, msgs[0].Key)
			return nil
		})

		res, err := svc.Deposit(context.Background(), caller, 2500, "")
		require.NoError(t, err)
		assert.Equal(t, models.Amount(2600), res.Wallet.Balance)
	})

	t.Run("first use of key stores result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		w := personalWallet(userID, 0)
		scope := "deposit:" + userID.String()
		m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(true, nil)
		m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
		m.wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, models.Amount(500)).Return(withBalance(w, 500), nil)
		m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
		m.idem.EXPECT().Complete(gomock.Any(), scope, "k1", gomock.Any()).Return(nil)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		require.NoError(t, err)
	})

	t.Run("repeated key replays stored result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		stored := []byte(`{"transaction":{"transaction_id":"` + uuid.NewString() + `","amount":"5.00","transaction_type":"deposit"},"wallet":{"balance":"5.00"}}`)
		scope := "deposit:" + userID.String()
		m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil)
		m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return(stored, true, nil)

		res, err := svc.Deposit(context.Background(), caller, 500, "k1")
		require.NoError(t, err)
		assert.Equal(t, models.Amount(500), res.Wallet.Balance)
		assert.Equal(t, models.TransactionDeposit, res.Transaction.Type)
	})

	t.Run("key in flight is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		scope := "deposit:" + userID.String()
		m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil)
		m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return([]byte(models.IdempotencyPending), true, nil)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("expired key is reserved again before running", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		w := personalWallet(userID, 0)
		scope := "deposit:" + userID.String()
		gomock.InOrder(
			m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil),
			m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return(nil, false, nil),
			m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(true, nil),
		)
		m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
		m.wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, models.Amount(500)).Return(withBalance(w, 500), nil)
		m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
		m.idem.EXPECT().Complete(gomock.Any(), scope, "k1", gomock.Any()).Return(nil)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		require.NoError(t, err)
	})

	t.Run("expired key taken by another request does not run twice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		scope := "deposit:" + userID.String()
		gomock.InOrder(
			m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil),
			m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return(nil, false, nil),
			m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil),
			m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return([]byte(models.IdempotencyPending), true, nil),
		)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("key that keeps expiring is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		scope := "deposit:" + userID.String()
		m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(false, nil).Times(2)
		m.idem.EXPECT().Get(gomock.Any(), scope, "k1").Return(nil, false, nil).Times(2)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("failed run releases key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		scope := "deposit:" + userID.String()
		m.idem.EXPECT().Reserve(gomock.Any(), scope, "k1").Return(true, nil)
		m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(nil, models.ErrNotFound)
		m.idem.EXPECT().Release(gomock.Any(), scope, "k1").Return(nil)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("store outage runs without key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc, m := newLedger(ctrl)

		w := personalWallet(userID, 0)
		m.idem.EXPECT().Reserve(gomock.Any(), gomock.Any(), "k1").Return(false, errors.New("redis down"))
		m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
		m.wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, models.Amount(500)).Return(withBalance(w, 500), nil)
		m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Deposit(context.Background(), caller, 500, "k1")
		require.NoError(t, err)
	})
}

func TestLedgerService_Withdraw(t *testing.T) {
	userID := uuid.New()
	caller := models.Caller{UserID: userID, UserType: models.UserTypeFreelancer}

	tests := []struct {
		name    string
		balance models.Amount
		amount  models.Amount
		wantErr error
	}{
		{name: "withdraw part", balance: 1000, amount: 400},
		{name: "withdraw all", balance: 1000, amount: 1000},
		{name: "overdraw", balance: 1000, amount: 1001, wantErr: models.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, m := newLedger(ctrl)

			w := personalWallet(userID, tt.balance)
			m.wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
			if tt.wantErr == nil {
				m.wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, -tt.amount).Return(withBalance(w, -tt.amount), nil)
				m.transactions.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, txn *models.Transaction) error {
					assert.Equal(t, models.TransactionWithdrawal, txn.Type)
					assert.Equal(t, w.WalletID, *txn.SourceWalletID)
					assert.Nil(t, txn.DestinationWalletID)
					return nil
				})
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := svc.Withdraw(context.Background(), caller, tt.amount, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.balance-tt.amount, res.Wallet.Balance)
		})
	}
}

func TestLedgerService_WithoutKafkaWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	wallets := services.NewMockWalletStore(ctrl)
	transactions := services.NewMockTransactionStore(ctrl)
	svc := services.NewLedgerService(passthroughTx(ctrl), services.NewMockProjectStore(ctrl), wallets, transactions,
		services.NewMockDisputeResolver(ctrl), nil, nil)

	w := personalWallet(userID, 0)
	wallets.EXPECT().GetByUserIDForUpdate(gomock.Any(), userID).Return(w, nil)
	wallets.EXPECT().AddToBalance(gomock.Any(), w.WalletID, models.Amount(100)).Return(withBalance(w, 100), nil)
	transactions.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Deposit(context.Background(), models.Caller{UserID: userID}, 100, "ignored")
	require.NoError(t, err)
}

func TestLedgerService_Views(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newLedger(ctrl)

	userID := uuid.New()
	caller := models.Caller{UserID: userID}
	w := personalWallet(userID, 300)

	m.wallets.EXPECT().GetByUserID(gomock.Any(), userID).Return(w, nil).Times(3)
	m.transactions.EXPECT().ListByWallet(gomock.Any(), w.WalletID, 10, 0).Return([]models.Transaction{}, nil)
	m.transactions.EXPECT().ListByWallet(gomock.Any(), w.WalletID, 20, 40).Return([]models.Transaction{}, nil)

	overview, err := svc.GetWallet(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, w, overview.Wallet)

	balance, err := svc.GetBalance(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, models.Amount(300), balance.Balance)

	_, err = svc.ListTransactions(context.Background(), caller, 0, 40)
	require.NoError(t, err)

	_, err = svc.ListTransactions(context.Background(), caller, 101, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLedgerService_ListProjectTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newLedger(ctrl)

	clientID, freelancerID := uuid.New(), uuid.New()
	p := testProject(clientID, &freelancerID, models.StatusCompleted, 5000)
	m.projects.EXPECT().GetByID(gomock.Any(), p.ProjectID).Return(p, nil).Times(2)
	m.transactions.EXPECT().ListByProject(gomock.Any(), p.ProjectID).
		Return([]models.Transaction{{Type: models.TransactionPayment}, {Type: models.TransactionRelease}}, nil)

	txns, err := svc.ListProjectTransactions(context.Background(), models.Caller{UserID: freelancerID}, p.ProjectID)
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	_, err = svc.ListProjectTransactions(context.Background(), models.Caller{UserID: uuid.New()}, p.ProjectID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestLedgerService_Audit(t *testing.T) {
	tests := []struct {
		name         string
		personal     models.Amount
		escrow       models.Amount
		deposits     models.Amount
		withdrawals  models.Amount
		wantBalanced bool
	}{
		{name: "balanced", personal: 700, escrow: 300, deposits: 1500, withdrawals: 500, wantBalanced: true},
		{name: "money appeared", personal: 800, escrow: 300, deposits: 1500, withdrawals: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, m := newLedger(ctrl)

			m.wallets.EXPECT().Totals(gomock.Any()).Return(tt.personal, tt.escrow, nil)
			m.transactions.EXPECT().ExternalFlow(gomock.Any()).Return(tt.deposits, tt.withdrawals, nil)

			audit, err := svc.Audit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalanced, audit.Balanced)
		})
	}
}

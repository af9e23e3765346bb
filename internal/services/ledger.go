package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/lifecycle"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/metrics"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=ledger.go -destination=mock_ledger.go -package=services

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Ledger operation names used for logs and metrics.
const (
	opFund     = "fund"
	opRelease  = "release"
	opRefund   = "refund"
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
)

const (
	recentTransactions     = 10
	defaultTransactionPage = 20
	maxTransactionPage     = 100
	refundResolution       = "refunded"

	idempotencyReserveAttempts = 2
)

// WalletStore reads and mutates wallet balances.
type WalletStore interface {
	Create(ctx context.Context, wallet *models.Wallet) error                                            // Opens a wallet
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)                          // Personal wallet, no lock
	GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)                 // Personal wallet, row locked
	GetEscrowForUpdate(ctx context.Context) (*models.Wallet, error)                                     // Escrow wallet, row locked
	AddToBalance(ctx context.Context, walletID uuid.UUID, delta models.Amount) (*models.Wallet, error) // Applies a signed delta
	Totals(ctx context.Context) (personal, escrow models.Amount, err error)                             // Balance sums
}

// TransactionStore is the append-only audit log.
type TransactionStore interface {
	Append(ctx context.Context, txn *models.Transaction) error
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Transaction, error)
	ExternalFlow(ctx context.Context) (deposits, withdrawals models.Amount, err error)
}

// DisputeResolver closes disputes when a project is refunded.
type DisputeResolver interface {
	ResolveOpen(ctx context.Context, projectID uuid.UUID, resolution string, now time.Time) (int64, error)
}

// IdempotencyStore remembers results of requests sent with an Idempotency-Key.
type IdempotencyStore interface {
	Reserve(ctx context.Context, scope, key string) (bool, error)
	Get(ctx context.Context, scope, key string) ([]byte, bool, error)
	Complete(ctx context.Context, scope, key string, result []byte) error
	Release(ctx context.Context, scope, key string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// LedgerService moves money between personal wallets and the escrow wallet.
// Every operation is one atomic unit: balance changes, the audit record and
// the project status are committed together or not at all.
type LedgerService struct {
	tx           TxRunner
	projects     ProjectStore
	wallets      WalletStore
	transactions TransactionStore
	disputes     DisputeResolver
	idem         IdempotencyStore
	kafkaWriter  KafkaWriter
	retry        []RetryOption
}

// NewLedgerService creates a new LedgerService. idem and kafkaWriter may be nil.
func NewLedgerService(
	tx TxRunner,
	projects ProjectStore,
	wallets WalletStore,
	transactions TransactionStore,
	disputes DisputeResolver,
	idem IdempotencyStore,
	kafkaWriter KafkaWriter,
	retry ...RetryOption,
) *LedgerService {
	return &LedgerService{
		tx:           tx,
		projects:     projects,
		wallets:      wallets,
		transactions: transactions,
		disputes:     disputes,
		idem:         idem,
		kafkaWriter:  kafkaWriter,
		retry:        retry,
	}
}

// Fund moves the project amount from the client's wallet into escrow.
func (s *LedgerService) Fund(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error) {
	var res *models.LedgerResult

	err := s.run(ctx, opFund, func(ctx context.Context) error {
		p, err := s.lockClientProject(ctx, caller, projectID)
		if err != nil {
			return err
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionFund)
		if err != nil {
			return err
		}

		client, err := s.wallets.GetByUserIDForUpdate(ctx, p.ClientID)
		if err != nil {
			return fmt.Errorf("client wallet: %w", err)
		}
		if client.Balance < p.Amount {
			return fmt.Errorf("%w: wallet balance %s is below project amount %s", models.ErrInsufficientFunds, client.Balance, p.Amount)
		}
		escrow, err := s.wallets.GetEscrowForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("escrow wallet: %w", err)
		}

		now := time.Now().UTC()
		txn := models.NewTransaction(models.TransactionPayment, p.Amount,
			models.TransactionLegs{Source: &client.WalletID, Escrow: &escrow.WalletID},
			&p.ProjectID, fmt.Sprintf("Payment for project: %s", p.Title), now)

		res, err = s.transfer(ctx, p, client.WalletID, escrow.WalletID, txn)
		if err != nil {
			return err
		}

		p.Status = next
		p.UpdatedAt = now
		if err := s.projects.Update(ctx, p); err != nil {
			return err
		}
		res.Project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransaction(ctx, res.Transaction)
	return res, nil
}

// Release pays the project amount out of escrow to the assigned freelancer and completes the project.
func (s *LedgerService) Release(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error) {
	var res *models.LedgerResult

	err := s.run(ctx, opRelease, func(ctx context.Context) error {
		p, err := s.lockClientProject(ctx, caller, projectID)
		if err != nil {
			return err
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionRelease)
		if err != nil {
			return err
		}
		if p.FreelancerID == nil {
			return fmt.Errorf("%w: project has no assigned freelancer", models.ErrInvalidState)
		}

		freelancer, err := s.wallets.GetByUserIDForUpdate(ctx, *p.FreelancerID)
		if err != nil {
			return fmt.Errorf("freelancer wallet: %w", err)
		}
		escrow, err := s.wallets.GetEscrowForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("escrow wallet: %w", err)
		}
		if escrow.Balance < p.Amount {
			return fmt.Errorf("%w: escrow balance %s is below project amount %s", models.ErrInsufficientFunds, escrow.Balance, p.Amount)
		}

		now := time.Now().UTC()
		txn := models.NewTransaction(models.TransactionRelease, p.Amount,
			models.TransactionLegs{Escrow: &escrow.WalletID, Destination: &freelancer.WalletID},
			&p.ProjectID, fmt.Sprintf("Payment released for project: %s", p.Title), now)

		res, err = s.transfer(ctx, p, escrow.WalletID, freelancer.WalletID, txn)
		if err != nil {
			return err
		}

		p.Status = next
		p.UpdatedAt = now
		p.CompletedAt = &now
		if err := s.projects.Update(ctx, p); err != nil {
			return err
		}
		res.Project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransaction(ctx, res.Transaction)
	return res, nil
}

// Refund returns the project amount from escrow to the client, cancels the
// project and resolves its open disputes.
func (s *LedgerService) Refund(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error) {
	var res *models.LedgerResult

	err := s.run(ctx, opRefund, func(ctx context.Context) error {
		p, err := s.lockClientProject(ctx, caller, projectID)
		if err != nil {
			return err
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionRefund)
		if err != nil {
			return err
		}

		client, err := s.wallets.GetByUserIDForUpdate(ctx, p.ClientID)
		if err != nil {
			return fmt.Errorf("client wallet: %w", err)
		}
		escrow, err := s.wallets.GetEscrowForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("escrow wallet: %w", err)
		}
		if escrow.Balance < p.Amount {
			return fmt.Errorf("%w: escrow balance %s is below project amount %s", models.ErrInsufficientFunds, escrow.Balance, p.Amount)
		}

		now := time.Now().UTC()
		txn := models.NewTransaction(models.TransactionRefund, p.Amount,
			models.TransactionLegs{Escrow: &escrow.WalletID, Destination: &client.WalletID},
			&p.ProjectID, fmt.Sprintf("Refund for project: %s", p.Title), now)

		res, err = s.transfer(ctx, p, escrow.WalletID, client.WalletID, txn)
		if err != nil {
			return err
		}

		if _, err := s.disputes.ResolveOpen(ctx, p.ProjectID, refundResolution, now); err != nil {
			return err
		}

		p.Status = next
		p.UpdatedAt = now
		if err := s.projects.Update(ctx, p); err != nil {
			return err
		}
		res.Project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransaction(ctx, res.Transaction)
	return res, nil
}

// Deposit credits amount to the caller's wallet.
// A non-empty idempotencyKey makes repeats of the same request return the first result.
func (s *LedgerService) Deposit(ctx context.Context, caller models.Caller, amount models.Amount, idempotencyKey string) (*models.LedgerResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return s.idempotent(ctx, opDeposit, caller.UserID, idempotencyKey, func(ctx context.Context) (*models.LedgerResult, error) {
		var res *models.LedgerResult

		err := s.run(ctx, opDeposit, func(ctx context.Context) error {
			wallet, err := s.wallets.GetByUserIDForUpdate(ctx, caller.UserID)
			if err != nil {
				return err
			}

			updated, err := s.wallets.AddToBalance(ctx, wallet.WalletID, amount)
			if err != nil {
				return err
			}

			txn := models.NewTransaction(models.TransactionDeposit, amount,
				models.TransactionLegs{Destination: &wallet.WalletID}, nil, "Deposit", time.Now().UTC())
			if err := s.transactions.Append(ctx, txn); err != nil {
				return err
			}

			res = &models.LedgerResult{Transaction: txn, Wallet: updated}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.publishTransaction(ctx, res.Transaction)
		return res, nil
	})
}

// Withdraw debits amount from the caller's wallet.
func (s *LedgerService) Withdraw(ctx context.Context, caller models.Caller, amount models.Amount, idempotencyKey string) (*models.LedgerResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return s.idempotent(ctx, opWithdraw, caller.UserID, idempotencyKey, func(ctx context.Context) (*models.LedgerResult, error) {
		var res *models.LedgerResult

		err := s.run(ctx, opWithdraw, func(ctx context.Context) error {
			wallet, err := s.wallets.GetByUserIDForUpdate(ctx, caller.UserID)
			if err != nil {
				return err
			}
			if wallet.Balance < amount {
				return fmt.Errorf("%w: wallet balance %s is below %s", models.ErrInsufficientFunds, wallet.Balance, amount)
			}

			updated, err := s.wallets.AddToBalance(ctx, wallet.WalletID, -amount)
			if err != nil {
				return err
			}

			txn := models.NewTransaction(models.TransactionWithdrawal, amount,
				models.TransactionLegs{Source: &wallet.WalletID}, nil, "Withdrawal", time.Now().UTC())
			if err := s.transactions.Append(ctx, txn); err != nil {
				return err
			}

			res = &models.LedgerResult{Transaction: txn, Wallet: updated}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.publishTransaction(ctx, res.Transaction)
		return res, nil
	})
}

// GetWallet returns the caller's wallet with its most recent transactions.
func (s *LedgerService) GetWallet(ctx context.Context, caller models.Caller) (*models.WalletOverview, error) {
	wallet, err := s.wallets.GetByUserID(ctx, caller.UserID)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get wallet", "userID", caller.UserID, "error", err)
		return nil, err
	}

	txns, err := s.transactions.ListByWallet(ctx, wallet.WalletID, recentTransactions, 0)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to list wallet transactions", "walletID", wallet.WalletID, "error", err)
		return nil, err
	}

	return &models.WalletOverview{Wallet: wallet, RecentTransactions: txns}, nil
}

// GetBalance returns the caller's wallet.
func (s *LedgerService) GetBalance(ctx context.Context, caller models.Caller) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByUserID(ctx, caller.UserID)
	if err != nil {
		logger.FromContext(ctx).Errorw("failed to get wallet", "userID", caller.UserID, "error", err)
		return nil, err
	}
	return wallet, nil
}

// ListTransactions pages through the transactions touching the caller's wallet, newest first.
// A non-positive limit selects the default page size.
func (s *LedgerService) ListTransactions(ctx context.Context, caller models.Caller, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionPage
	}
	if limit > maxTransactionPage || offset < 0 {
		return nil, fmt.Errorf("%w: limit must be at most %d and offset non-negative", models.ErrValidation, maxTransactionPage)
	}

	wallet, err := s.wallets.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.transactions.ListByWallet(ctx, wallet.WalletID, limit, offset)
}

// ListProjectTransactions returns the money movements of a project, oldest first.
// Only the project's client and freelancer may see them.
func (s *LedgerService) ListProjectTransactions(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Transaction, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.IsParticipant(caller.UserID) {
		return nil, fmt.Errorf("%w: not a project participant", models.ErrForbidden)
	}
	return s.transactions.ListByProject(ctx, projectID)
}

// Audit checks the conservation invariant: the money held in wallets equals
// everything deposited minus everything withdrawn.
func (s *LedgerService) Audit(ctx context.Context) (*models.LedgerAudit, error) {
	var audit models.LedgerAudit

	err := s.tx.WithinSnapshot(ctx, func(ctx context.Context) error {
		var err error
		audit.PersonalTotal, audit.EscrowBalance, err = s.wallets.Totals(ctx)
		if err != nil {
			return err
		}
		audit.Deposits, audit.Withdrawals, err = s.transactions.ExternalFlow(ctx)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Errorw("ledger audit failed", "error", err)
		return nil, err
	}

	audit.Balanced = audit.PersonalTotal+audit.EscrowBalance == audit.Deposits-audit.Withdrawals
	if !audit.Balanced {
		logger.FromContext(ctx).Errorw("ledger is not balanced",
			"personal", audit.PersonalTotal, "escrow", audit.EscrowBalance,
			"deposits", audit.Deposits, "withdrawals", audit.Withdrawals)
	}
	return &audit, nil
}

// lockClientProject locks the project row and checks the caller is its client.
func (s *LedgerService) lockClientProject(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.Project, error) {
	p, err := s.projects.GetByIDForUpdate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.ClientID != caller.UserID {
		return nil, fmt.Errorf("%w: only the project client can move its funds", models.ErrForbidden)
	}
	return p, nil
}

// transfer debits from, credits to and appends txn, all within the current transaction.
func (s *LedgerService) transfer(ctx context.Context, p *models.Project, from, to uuid.UUID, txn *models.Transaction) (*models.LedgerResult, error) {
	debited, err := s.wallets.AddToBalance(ctx, from, -p.Amount)
	if err != nil {
		return nil, err
	}
	credited, err := s.wallets.AddToBalance(ctx, to, p.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Append(ctx, txn); err != nil {
		return nil, err
	}

	res := &models.LedgerResult{Transaction: txn}
	if debited.Kind == models.WalletKindEscrow {
		res.Escrow, res.Wallet = debited, credited
	} else {
		res.Wallet, res.Escrow = debited, credited
	}
	return res, nil
}

// run executes one ledger operation with conflict retries, logging and metrics.
func (s *LedgerService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := runAtomic(ctx, s.tx, op, s.retry, fn)
	metrics.RecordLedgerOperation(op, time.Since(start), err)

	if err != nil {
		logger.FromContext(ctx).Warnw("ledger operation failed", "operation", op, "result", metrics.Result(err), "error", err)
		return err
	}
	logger.FromContext(ctx).Infow("ledger operation committed", "operation", op, "duration", time.Since(start))
	return nil
}

// idempotent replays the stored result for a repeated key and stores the result of a first run.
// When the store is unavailable the operation runs without the guarantee.
func (s *LedgerService) idempotent(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	key string,
	fn func(ctx context.Context) (*models.LedgerResult, error),
) (*models.LedgerResult, error) {
	if key == "" || s.idem == nil {
		return fn(ctx)
	}
	scope := op + ":" + userID.String()

	for attempt := 1; ; attempt++ {
		reserved, err := s.idem.Reserve(ctx, scope, key)
		if err != nil {
			logger.FromContext(ctx).Warnw("idempotency store unavailable, running without key", "operation", op, "key", key, "error", err)
			return fn(ctx)
		}
		if reserved {
			break
		}

		stored, found, err := s.idem.Get(ctx, scope, key)
		switch {
		case err != nil:
			return nil, fmt.Errorf("%w: idempotency key %q could not be checked", models.ErrConflict, key)
		case !found:
			// expired between Reserve and Get, claim it again
			if attempt < idempotencyReserveAttempts {
				continue
			}
			return nil, fmt.Errorf("%w: idempotency key %q could not be reserved", models.ErrConflict, key)
		case string(stored) == models.IdempotencyPending:
			return nil, fmt.Errorf("%w: request with idempotency key %q is in progress", models.ErrConflict, key)
		}

		var res models.LedgerResult
		if err := json.Unmarshal(stored, &res); err != nil {
			return nil, fmt.Errorf("decode stored result: %w", err)
		}
		logger.FromContext(ctx).Infow("idempotent replay", "operation", op, "key", key)
		return &res, nil
	}

	res, err := fn(ctx)
	if err != nil {
		if relErr := s.idem.Release(ctx, scope, key); relErr != nil {
			logger.FromContext(ctx).Warnw("failed to release idempotency key", "key", key, "error", relErr)
		}
		return nil, err
	}

	data, err := json.Marshal(res)
	if err == nil {
		err = s.idem.Complete(ctx, scope, key, data)
	}
	if err != nil {
		logger.FromContext(ctx).Warnw("failed to store idempotent result", "key", key, "error", err)
	}
	return res, nil
}

// publishTransaction publishes a committed transaction to Kafka.
// Failures are logged; the ledger change stays committed.
func (s *LedgerService) publishTransaction(ctx context.Context, txn *models.Transaction) {
	if s.kafkaWriter == nil {
		logger.FromContext(ctx).Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		metrics.RecordPublishFailure()
		logger.FromContext(ctx).Errorw("Failed to marshal transaction for Kafka", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(txn.TransactionID.String()),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		metrics.RecordPublishFailure()
		logger.FromContext(ctx).Errorw("Failed to publish transaction to Kafka", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.FromContext(ctx).Infow("Transaction published to Kafka", "transaction_id", txn.TransactionID, "amount", txn.Amount)
	}
}

package repositories

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const tableTransactions = "transactions"

var transactionSelectColumns = []any{
	"transaction_id", "source_wallet_id", "destination_wallet_id", "escrow_wallet_id", "project_id",
	"amount", "transaction_type", "status", "description", "created_at",
}

// TransactionRepository is the append-only audit log of balance changes.
// There is no update or delete.
type TransactionRepository struct {
	repository
}

func NewTransactionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionRepository {
	return &TransactionRepository{repository{db: db, txGetter: txGetter}}
}

// Append records a transaction.
func (r *TransactionRepository) Append(ctx context.Context, t *models.Transaction) error {
	const query = `
		INSERT INTO transactions (transaction_id, source_wallet_id, destination_wallet_id, escrow_wallet_id,
			project_id, amount, transaction_type, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	args := []any{t.TransactionID, t.SourceWalletID, t.DestinationWalletID, t.EscrowWalletID,
		t.ProjectID, t.Amount, t.Type, t.Status, t.Description, t.CreatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return classify(err)
}

// ListByWallet returns transactions in which walletID is any leg, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	query, args, err := buildTransactionListQuery(goqu.Or(
		goqu.C("source_wallet_id").Eq(walletID.String()),
		goqu.C("destination_wallet_id").Eq(walletID.String()),
		goqu.C("escrow_wallet_id").Eq(walletID.String()),
	), limit, offset)
	if err != nil {
		return nil, err
	}

	txns := []models.Transaction{}
	err = sqlx.SelectContext(ctx, r.executor(ctx), &txns, query, args...)
	logQuery(query, args, len(txns), err)
	return txns, classify(err)
}

// ListByProject returns the transactions recorded for a project, oldest first.
func (r *TransactionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Transaction, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableTransactions).
		Select(transactionSelectColumns...).
		Where(goqu.C("project_id").Eq(projectID.String())).
		Order(goqu.I("created_at").Asc()).
		Prepared(true)

	query, args, err := stmt.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build transaction query: %w", err)
	}

	txns := []models.Transaction{}
	err = sqlx.SelectContext(ctx, r.executor(ctx), &txns, query, args...)
	logQuery(query, args, len(txns), err)
	return txns, classify(err)
}

func buildTransactionListQuery(where goqu.Expression, limit, offset int) (string, []any, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableTransactions).
		Select(transactionSelectColumns...).
		Where(where).
		Order(goqu.I("created_at").Desc(), goqu.I("transaction_id").Asc()).
		Prepared(true)

	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}
	if offset > 0 {
		stmt = stmt.Offset(uint(offset))
	}

	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build transaction query: %w", err)
	}
	return query, args, nil
}

// ExternalFlow returns the total ever deposited and withdrawn.
func (r *TransactionRepository) ExternalFlow(ctx context.Context) (deposits, withdrawals models.Amount, err error) {
	const query = `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'deposit'), 0)::BIGINT AS deposits,
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'withdrawal'), 0)::BIGINT AS withdrawals
		FROM transactions
	`

	var row struct {
		Deposits    models.Amount `db:"deposits"`
		Withdrawals models.Amount `db:"withdrawals"`
	}
	err = sqlx.GetContext(ctx, r.executor(ctx), &row, query)
	logQuery(query, nil, row, err)
	if err != nil {
		return 0, 0, classify(err)
	}
	return row.Deposits, row.Withdrawals, nil
}

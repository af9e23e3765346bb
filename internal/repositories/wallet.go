package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const walletColumns = `wallet_id, user_id, kind, currency, balance, created_at, updated_at`

// WalletRepository persists personal wallets and the escrow wallet.
// Balance changes go through AddToBalance only.
type WalletRepository struct {
	repository
}

func NewWalletRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WalletRepository {
	return &WalletRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts a wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	const query = `
		INSERT INTO wallets (wallet_id, user_id, kind, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	args := []any{wallet.WalletID, wallet.UserID, wallet.Kind, wallet.Currency, wallet.Balance,
		wallet.CreatedAt, wallet.UpdatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return classify(err)
}

// GetByUserID returns the personal wallet of userID.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND kind = 'personal'`, userID)
}

// GetByUserIDForUpdate returns the personal wallet of userID and locks its row
// until the surrounding transaction ends.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND kind = 'personal' FOR UPDATE`, userID)
}

// GetEscrow returns the escrow wallet.
func (r *WalletRepository) GetEscrow(ctx context.Context) (*models.Wallet, error) {
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE kind = 'escrow'`)
}

// GetEscrowForUpdate returns the escrow wallet and locks its row.
func (r *WalletRepository) GetEscrowForUpdate(ctx context.Context) (*models.Wallet, error) {
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE kind = 'escrow' FOR UPDATE`)
}

func (r *WalletRepository) getOne(ctx context.Context, query string, args ...any) (*models.Wallet, error) {
	var wallet models.Wallet
	err := sqlx.GetContext(ctx, r.executor(ctx), &wallet, query, args...)
	logQuery(query, args, wallet.Balance, err)
	if err != nil {
		return nil, classify(err)
	}
	return &wallet, nil
}

// AddToBalance adds delta (negative to debit) to the wallet balance and returns the updated wallet.
// A debit that would leave the balance negative fails with models.ErrInsufficientFunds.
func (r *WalletRepository) AddToBalance(ctx context.Context, walletID uuid.UUID, delta models.Amount) (*models.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE wallet_id = $1
		RETURNING ` + walletColumns
	args := []any{walletID, delta}

	var wallet models.Wallet
	err := sqlx.GetContext(ctx, r.executor(ctx), &wallet, query, args...)
	logQuery(query, args, wallet.Balance, err)
	if err != nil {
		return nil, classify(err)
	}
	return &wallet, nil
}

// Totals returns the sum of all personal balances and the escrow balance.
func (r *WalletRepository) Totals(ctx context.Context) (personal, escrow models.Amount, err error) {
	const query = `
		SELECT
			COALESCE(SUM(balance) FILTER (WHERE kind = 'personal'), 0)::BIGINT AS personal,
			COALESCE(SUM(balance) FILTER (WHERE kind = 'escrow'), 0)::BIGINT AS escrow
		FROM wallets
	`

	var row struct {
		Personal models.Amount `db:"personal"`
		Escrow   models.Amount `db:"escrow"`
	}
	err = sqlx.GetContext(ctx, r.executor(ctx), &row, query)
	logQuery(query, nil, row, err)
	if err != nil {
		return 0, 0, classify(err)
	}
	return row.Personal, row.Escrow, nil
}

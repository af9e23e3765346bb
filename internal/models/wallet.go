package models

import (
	"time"

	"github.com/google/uuid"
)

// WalletKind separates personal wallets from the escrow account.
type WalletKind string

const (
	WalletKindPersonal WalletKind = "personal"
	WalletKindEscrow   WalletKind = "escrow"
)

// Wallet represents a wallet row in the database.
// The escrow wallet has no owner and exactly one exists.
type Wallet struct {
	WalletID  uuid.UUID  `json:"wallet_id" db:"wallet_id"`   // Unique wallet identifier
	UserID    *uuid.UUID `json:"user_id" db:"user_id"`       // Owner, nil for escrow
	Kind      WalletKind `json:"kind" db:"kind"`             // personal or escrow
	Currency  string     `json:"currency" db:"currency"`     // ISO 4217 code
	Balance   Amount     `json:"balance" db:"balance"`       // Minor units, never negative
	CreatedAt time.Time  `json:"created_at" db:"created_at"` // Timestamp when the wallet was created
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // Timestamp of the last wallet update
}

// NewPersonalWallet opens an empty wallet for userID.
func NewPersonalWallet(userID uuid.UUID, currency string, now time.Time) *Wallet {
	return &Wallet{
		WalletID:  uuid.New(),
		UserID:    &userID,
		Kind:      WalletKindPersonal,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WalletOverview is a wallet with its most recent transactions.
type WalletOverview struct {
	Wallet             *Wallet       `json:"wallet"`
	RecentTransactions []Transaction `json:"recent_transactions"`
}

// LedgerAudit compares wallet balances against the external money flow.
type LedgerAudit struct {
	PersonalTotal Amount `json:"personal_total"`
	EscrowBalance Amount `json:"escrow_balance"`
	Deposits      Amount `json:"deposits"`
	Withdrawals   Amount `json:"withdrawals"`
	Balanced      bool   `json:"balanced"`
}

// IdempotencyPending is stored under an idempotency key while its first request runs.
const IdempotencyPending = "pending"

package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType names the balance change a transaction records.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionPayment    TransactionType = "payment" // client -> escrow
	TransactionRelease    TransactionType = "release" // escrow -> freelancer
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionRefund     TransactionType = "refund" // escrow -> client
)

// TransactionStatus is the outcome of a ledger entry.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
)

// Transaction is an immutable audit entry for exactly one balance change.
// At most two of the three wallet references are set.
type Transaction struct {
	TransactionID       uuid.UUID         `json:"transaction_id" db:"transaction_id"`
	SourceWalletID      *uuid.UUID        `json:"source_wallet_id" db:"source_wallet_id"`
	DestinationWalletID *uuid.UUID        `json:"destination_wallet_id" db:"destination_wallet_id"`
	EscrowWalletID      *uuid.UUID        `json:"escrow_wallet_id" db:"escrow_wallet_id"`
	ProjectID           *uuid.UUID        `json:"project_id" db:"project_id"`
	Amount              Amount            `json:"amount" db:"amount"`
	Type                TransactionType   `json:"transaction_type" db:"transaction_type"`
	Status              TransactionStatus `json:"status" db:"status"`
	Description         string            `json:"description" db:"description"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
}

// TransactionLegs names the wallets a transaction touches.
type TransactionLegs struct {
	Source      *uuid.UUID
	Destination *uuid.UUID
	Escrow      *uuid.UUID
}

// NewTransaction builds a completed transaction record.
func NewTransaction(txType TransactionType, amount Amount, legs TransactionLegs, projectID *uuid.UUID, description string, now time.Time) *Transaction {
	return &Transaction{
		TransactionID:       uuid.New(),
		SourceWalletID:      legs.Source,
		DestinationWalletID: legs.Destination,
		EscrowWalletID:      legs.Escrow,
		ProjectID:           projectID,
		Amount:              amount,
		Type:                txType,
		Status:              TransactionCompleted,
		Description:         description,
		CreatedAt:           now,
	}
}

// LedgerResult is returned by every money movement.
type LedgerResult struct {
	Project     *Project     `json:"project,omitempty"`
	Transaction *Transaction `json:"transaction"`
	Wallet      *Wallet      `json:"wallet"` // the personal wallet that changed
	Escrow      *Wallet      `json:"-"`
}

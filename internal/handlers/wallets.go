package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=wallets.go -destination=mock_wallets.go -package=handlers

const idempotencyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds client supplied keys.
const maxIdempotencyKeyLength = 128

// WalletReader returns the caller's wallet with recent activity.
type WalletReader interface {
	GetWallet(ctx context.Context, caller models.Caller) (*models.WalletOverview, error)
}

// BalanceReader returns the caller's wallet.
type BalanceReader interface {
	GetBalance(ctx context.Context, caller models.Caller) (*models.Wallet, error)
}

// TransactionLister pages through the caller's transactions.
type TransactionLister interface {
	ListTransactions(ctx context.Context, caller models.Caller, limit, offset int) ([]models.Transaction, error)
}

// DepositWriter defines the interface that the service must implement.
type DepositWriter interface {
	Deposit(ctx context.Context, caller models.Caller, amount models.Amount, idempotencyKey string) (*models.LedgerResult, error)
}

// WithdrawWriter defines the interface that the service must implement.
type WithdrawWriter interface {
	Withdraw(ctx context.Context, caller models.Caller, amount models.Amount, idempotencyKey string) (*models.LedgerResult, error)
}

// AuditReader checks the conservation of funds.
type AuditReader interface {
	Audit(ctx context.Context) (*models.LedgerAudit, error)
}

// AmountRequest represents the JSON body for depositing or withdrawing funds
// swagger:model AmountRequest
type AmountRequest struct {
	// Amount in major units, at most two decimals
	// required: true
	// default: 100.00
	Amount models.Amount `json:"amount"`
}

// NewWalletHandler returns the caller's wallet and its ten latest transactions.
// @Summary My wallet
// @Tags wallet
// @Produce json
// @Success 200 {object} models.WalletOverview
// @Router /wallets/me [get]
// @Security BearerAuth
func NewWalletHandler(svc WalletReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}

		overview, err := svc.GetWallet(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

// NewBalanceHandler returns the caller's balance.
// @Summary Get user balance
// @Tags wallet
// @Produce json
// @Success 200 {object} models.Wallet
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallets/me/balance [get]
// @Security BearerAuth
func NewBalanceHandler(svc BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}

		wallet, err := svc.GetBalance(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wallet)
	}
}

// NewTransactionsHandler pages through the caller's transactions, newest first.
// @Summary My transactions
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size, default 20, at most 100"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Transaction
// @Router /wallets/me/transactions [get]
// @Security BearerAuth
func NewTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		limit, offset, ok := pagination(w, r)
		if !ok {
			return
		}

		txns, err := svc.ListTransactions(r.Context(), caller, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, txns)
	}
}

// NewDepositHandler returns an HTTP handler for depositing funds into user wallet.
// @Summary Deposit funds
// @Description Add funds to the caller's wallet. Repeats with the same Idempotency-Key return the first result.
// @Tags wallet
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key"
// @Param request body handlers.AmountRequest true "Deposit Request"
// @Success 200 {object} models.LedgerResult "Account topped up successfully"
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount"
// @Failure 409 {object} handlers.ErrorResponse "Request with this key in progress"
// @Router /wallets/me/deposit [post]
// @Security BearerAuth
func NewDepositHandler(svc DepositWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, req, key, ok := parseAmountRequest(w, r)
		if !ok {
			return
		}

		res, err := svc.Deposit(r.Context(), caller, req.Amount, key)
		if err != nil {
			writeError(w, err)
			return
		}
		logger.Log.Infow("deposit completed", "userID", caller.UserID, "amount", req.Amount)
		writeJSON(w, http.StatusOK, res)
	}
}

// NewWithdrawHandler returns an HTTP handler for withdrawing funds from user wallet.
// @Summary Withdraw funds
// @Tags wallet
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key"
// @Param request body handlers.AmountRequest true "Withdraw Request"
// @Success 200 {object} models.LedgerResult "Withdrawal successful"
// @Failure 400 {object} handlers.ErrorResponse "Invalid amount"
// @Failure 422 {object} handlers.ErrorResponse "Insufficient funds"
// @Router /wallets/me/withdraw [post]
// @Security BearerAuth
func NewWithdrawHandler(svc WithdrawWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, req, key, ok := parseAmountRequest(w, r)
		if !ok {
			return
		}

		res, err := svc.Withdraw(r.Context(), caller, req.Amount, key)
		if err != nil {
			writeError(w, err)
			return
		}
		logger.Log.Infow("withdrawal completed", "userID", caller.UserID, "amount", req.Amount)
		writeJSON(w, http.StatusOK, res)
	}
}

// NewAuditHandler reports whether wallet balances match the money deposited minus withdrawn.
// @Summary Ledger audit
// @Tags wallet
// @Produce json
// @Success 200 {object} models.LedgerAudit
// @Router /ledger/audit [get]
// @Security BearerAuth
func NewAuditHandler(svc AuditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audit, err := svc.Audit(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, audit)
	}
}

func parseAmountRequest(w http.ResponseWriter, r *http.Request) (models.Caller, AmountRequest, string, bool) {
	var req AmountRequest

	caller, ok := callerFromRequest(w, r)
	if !ok {
		return caller, req, "", false
	}

	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if len(key) > maxIdempotencyKeyLength {
		writeErrorMessage(w, http.StatusBadRequest, "Idempotency-Key is too long")
		return caller, req, "", false
	}

	if !decodeBody(w, r, &req) {
		return caller, req, "", false
	}
	if !req.Amount.IsPositive() {
		logger.Log.Warnw("invalid amount", "amount", req.Amount)
		writeErrorMessage(w, http.StatusBadRequest, "Invalid amount")
		return caller, req, "", false
	}
	return caller, req, key, true
}

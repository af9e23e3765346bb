package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=escrow.go -destination=mock_escrow.go -package=handlers

// Funder moves the project amount into escrow.
type Funder interface {
	Fund(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error)
}

// Releaser pays escrow out to the freelancer.
type Releaser interface {
	Release(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error)
}

// Refunder returns escrow to the client.
type Refunder interface {
	Refund(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error)
}

// ProjectTransactionLister lists a project's ledger entries.
type ProjectTransactionLister interface {
	ListProjectTransactions(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Transaction, error)
}

type escrowOperation func(ctx context.Context, caller models.Caller, projectID uuid.UUID) (*models.LedgerResult, error)

func newEscrowHandler(op escrowOperation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		res, err := op(r.Context(), caller, projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// NewFundHandler funds an assigned project.
// @Summary Fund project
// @Description Client only. Moves the project amount from the client's wallet into escrow.
// @Tags escrow
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.LedgerResult
// @Failure 409 {object} handlers.ErrorResponse "Project is not assigned"
// @Failure 422 {object} handlers.ErrorResponse "Insufficient funds"
// @Router /projects/{projectID}/fund [post]
// @Security BearerAuth
func NewFundHandler(svc Funder) http.HandlerFunc {
	return newEscrowHandler(svc.Fund)
}

// NewReleaseHandler pays the freelancer.
// @Summary Release payment
// @Description Client only. Moves the project amount from escrow to the freelancer and completes the project.
// @Tags escrow
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.LedgerResult
// @Failure 409 {object} handlers.ErrorResponse "Project cannot be released"
// @Failure 422 {object} handlers.ErrorResponse "Escrow balance too low"
// @Router /projects/{projectID}/release [post]
// @Security BearerAuth
func NewReleaseHandler(svc Releaser) http.HandlerFunc {
	return newEscrowHandler(svc.Release)
}

// NewRefundHandler refunds the client.
// @Summary Refund project
// @Description Client only. Moves the project amount from escrow back to the client and cancels the project.
// @Tags escrow
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.LedgerResult
// @Failure 409 {object} handlers.ErrorResponse "Project cannot be refunded"
// @Router /projects/{projectID}/refund [post]
// @Security BearerAuth
func NewRefundHandler(svc Refunder) http.HandlerFunc {
	return newEscrowHandler(svc.Refund)
}

// NewProjectTransactionsHandler lists the money movements of a project.
// @Summary Project transactions
// @Tags escrow
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {array} models.Transaction
// @Failure 403 {object} handlers.ErrorResponse "Not a project participant"
// @Router /projects/{projectID}/transactions [get]
// @Security BearerAuth
func NewProjectTransactionsHandler(svc ProjectTransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		txns, err := svc.ListProjectTransactions(r.Context(), caller, projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, txns)
	}
}

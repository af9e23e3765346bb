package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=disputes.go -destination=mock_disputes.go -package=handlers

// DisputeWriter raises disputes.
type DisputeWriter interface {
	Raise(ctx context.Context, caller models.Caller, projectID uuid.UUID, reason string) (*models.Dispute, error)
}

// DisputeLister lists a project's disputes.
type DisputeLister interface {
	List(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Dispute, error)
}

// DisputeRequest represents the JSON body of a dispute
// swagger:model DisputeRequest
type DisputeRequest struct {
	// required: true
	// default: Work does not match the description
	Reason string `json:"reason"`
}

// NewRaiseDisputeHandler opens a dispute.
// @Summary Raise dispute
// @Tags disputes
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body handlers.DisputeRequest true "Dispute"
// @Success 201 {object} models.Dispute
// @Failure 409 {object} handlers.ErrorResponse "Project cannot be disputed"
// @Router /projects/{projectID}/disputes [post]
// @Security BearerAuth
func NewRaiseDisputeHandler(svc DisputeWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		var req DisputeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		d, err := svc.Raise(r.Context(), caller, projectID, req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

// NewListDisputesHandler lists a project's disputes.
// @Summary List disputes
// @Tags disputes
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {array} models.Dispute
// @Router /projects/{projectID}/disputes [get]
// @Security BearerAuth
func NewListDisputesHandler(svc DisputeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		disputes, err := svc.List(r.Context(), caller, projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, disputes)
	}
}

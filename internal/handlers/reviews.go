package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=reviews.go -destination=mock_reviews.go -package=handlers

// ReviewWriter files reviews.
type ReviewWriter interface {
	Review(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.ReviewInput) (*models.Review, error)
}

// NewReviewHandler rates the other participant of a finished project.
// @Summary Review project participant
// @Tags reviews
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body models.ReviewInput true "Rating from 1 to 5"
// @Success 201 {object} models.Review
// @Failure 400 {object} handlers.ErrorResponse "Rating out of range"
// @Failure 409 {object} handlers.ErrorResponse "Already reviewed or project not finished"
// @Router /projects/{projectID}/reviews [post]
// @Security BearerAuth
func NewReviewHandler(svc ReviewWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		var in models.ReviewInput
		if !decodeBody(w, r, &in) {
			return
		}

		rv, err := svc.Review(r.Context(), caller, projectID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rv)
	}
}

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=applications.go -destination=mock_applications.go -package=handlers

// ApplicationWriter submits applications.
type ApplicationWriter interface {
	Apply(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.ApplyInput) (*models.Application, error)
}

// ApplicationLister lists a project's applications.
type ApplicationLister interface {
	ListApplications(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Application, error)
}

// ApplicationAcceptor accepts an application.
type ApplicationAcceptor interface {
	AcceptApplication(ctx context.Context, caller models.Caller, applicationID uuid.UUID) (*models.Acceptance, error)
}

// NewApplyHandler submits the caller's proposal.
// @Summary Apply to project
// @Description Freelancers only, one application per project
// @Tags applications
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body models.ApplyInput true "Proposal"
// @Success 201 {object} models.Application
// @Failure 409 {object} handlers.ErrorResponse "Already applied or project not open"
// @Router /projects/{projectID}/applications [post]
// @Security BearerAuth
func NewApplyHandler(svc ApplicationWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		var in models.ApplyInput
		if !decodeBody(w, r, &in) {
			return
		}

		a, err := svc.Apply(r.Context(), caller, projectID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// NewListApplicationsHandler lists applications.
// @Summary List applications
// @Description The client sees every application, a freelancer only their own
// @Tags applications
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {array} models.Application
// @Router /projects/{projectID}/applications [get]
// @Security BearerAuth
func NewListApplicationsHandler(svc ApplicationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		apps, err := svc.ListApplications(r.Context(), caller, projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, apps)
	}
}

// NewAcceptApplicationHandler assigns the applicant and rejects the other applications.
// @Summary Accept application
// @Tags applications
// @Produce json
// @Param applicationID path string true "Application ID"
// @Success 200 {object} models.Acceptance
// @Failure 409 {object} handlers.ErrorResponse "Project is no longer open"
// @Router /applications/{applicationID}/accept [post]
// @Security BearerAuth
func NewAcceptApplicationHandler(svc ApplicationAcceptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		applicationID, ok := pathUUID(w, r, "applicationID")
		if !ok {
			return
		}

		res, err := svc.AcceptApplication(r.Context(), caller, applicationID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

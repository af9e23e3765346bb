package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=projects.go -destination=mock_projects.go -package=handlers

// ProjectCreator posts projects.
type ProjectCreator interface {
	Create(ctx context.Context, caller models.Caller, in models.CreateProjectInput) (*models.Project, error)
}

// ProjectReader returns a single project.
type ProjectReader interface {
	Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
}

// ProjectLister lists projects.
type ProjectLister interface {
	List(ctx context.Context, caller models.Caller, status string, scope models.ProjectScope, limit, offset int) ([]models.Project, error)
}

// DeliveryWriter records deliveries.
type DeliveryWriter interface {
	Deliver(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.DeliveryInput) (*models.Project, error)
}

// StatusWriter sets a project status directly.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, caller models.Caller, projectID uuid.UUID, to models.ProjectStatus) (*models.Project, error)
}

// CreateProjectRequest represents the JSON body for posting a project
// swagger:model CreateProjectRequest
type CreateProjectRequest struct {
	// required: true
	// default: Landing page
	Title string `json:"title"`

	// required: true
	// default: Single page site with contact form
	Description string `json:"description"`

	// Price in major units
	// required: true
	// default: 1500.00
	Amount models.Amount `json:"amount"`

	// Optional RFC 3339 deadline
	Deadline *time.Time `json:"deadline"`
}

// DeliverRequest represents the JSON body of a delivery
// swagger:model DeliverRequest
type DeliverRequest struct {
	// required: true
	// default: Source and build attached
	Description string `json:"description"`

	// Delivered file metadata
	Files []models.Deliverable `json:"files"`
}

// UpdateStatusRequest represents the JSON body of a direct status change
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	// required: true
	// default: in_progress
	Status models.ProjectStatus `json:"status"`
}

// NewCreateProjectHandler posts a new project.
// @Summary Create project
// @Description Clients only. The project starts open and unassigned.
// @Tags projects
// @Accept json
// @Produce json
// @Param request body handlers.CreateProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Only clients can post projects"
// @Router /projects [post]
// @Security BearerAuth
func NewCreateProjectHandler(svc ProjectCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		var req CreateProjectRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := svc.Create(r.Context(), caller, models.CreateProjectInput{
			Title:       req.Title,
			Description: req.Description,
			Amount:      req.Amount,
			Deadline:    req.Deadline,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// NewGetProjectHandler returns a project.
// @Summary Get project
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} handlers.ErrorResponse "Project not found"
// @Router /projects/{projectID} [get]
// @Security BearerAuth
func NewGetProjectHandler(svc ProjectReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		p, err := svc.Get(r.Context(), projectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// NewListProjectsHandler lists projects newest first.
// @Summary List projects
// @Tags projects
// @Produce json
// @Param status query string false "Project status"
// @Param scope query string false "my_projects or available"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Project
// @Failure 400 {object} handlers.ErrorResponse "Invalid filter"
// @Router /projects [get]
// @Security BearerAuth
func NewListProjectsHandler(svc ProjectLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		limit, offset, ok := pagination(w, r)
		if !ok {
			return
		}
		q := r.URL.Query()

		projects, err := svc.List(r.Context(), caller, q.Get("status"), models.ProjectScope(q.Get("scope")), limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

// NewDeliverHandler records the freelancer's delivery.
// @Summary Deliver project
// @Description Assigned freelancer only. The first delivery's files and note are kept.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body handlers.DeliverRequest true "Delivery"
// @Success 200 {object} models.Project
// @Failure 409 {object} handlers.ErrorResponse "Project is not in a deliverable state"
// @Router /projects/{projectID}/deliver [post]
// @Security BearerAuth
func NewDeliverHandler(svc DeliveryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		var req DeliverRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := svc.Deliver(r.Context(), caller, projectID, models.DeliveryInput{Description: req.Description, Files: req.Files})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// NewUpdateStatusHandler sets the project status without the action guards.
// @Summary Override project status
// @Description Either participant may set any status while the project is not completed or cancelled. No money moves.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param request body handlers.UpdateStatusRequest true "New status"
// @Success 200 {object} models.Project
// @Failure 409 {object} handlers.ErrorResponse "Project is in a terminal status"
// @Router /projects/{projectID}/status [put]
// @Security BearerAuth
func NewUpdateStatusHandler(svc StatusWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		var req UpdateStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := svc.UpdateStatus(r.Context(), caller, projectID, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/lifecycle"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=project.go -destination=mock_project.go -package=services

const (
	defaultProjectPage = 20
	maxProjectPage     = 100
)

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetByIDForUpdate(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	List(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]models.Project, error)
	ListCompletedByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit int) ([]models.Project, error)
}

// ApplicationStore persists freelancer applications.
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, applicationID uuid.UUID) (*models.Application, error)
	GetByIDForUpdate(ctx context.Context, applicationID uuid.UUID) (*models.Application, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, freelancerID *uuid.UUID) ([]models.Application, error)
	SetStatus(ctx context.Context, applicationID uuid.UUID, status models.ApplicationStatus) error
	RejectSiblings(ctx context.Context, projectID, acceptedID uuid.UUID) (int64, error)
}

// ProjectService handles project postings, applications, delivery and direct status changes.
type ProjectService struct {
	tx           TxRunner
	projects     ProjectStore
	applications ApplicationStore
	retry        []RetryOption
}

// NewProjectService creates a new ProjectService.
func NewProjectService(tx TxRunner, projects ProjectStore, applications ApplicationStore, retry ...RetryOption) *ProjectService {
	return &ProjectService{
		tx:           tx,
		projects:     projects,
		applications: applications,
		retry:        retry,
	}
}

// Create posts a new open project. Only clients can post.
func (s *ProjectService) Create(ctx context.Context, caller models.Caller, in models.CreateProjectInput) (*models.Project, error) {
	if !caller.IsClient() {
		return nil, fmt.Errorf("%w: only clients can post projects", models.ErrForbidden)
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", models.ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	now := time.Now().UTC()
	p := &models.Project{
		ProjectID:   uuid.New(),
		ClientID:    caller.UserID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Status:      models.StatusOpen,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		logger.Log.Errorw("failed to create project", "clientID", caller.UserID, "error", err)
		return nil, err
	}
	return p, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

// List returns projects newest first, optionally narrowed by status and scope.
func (s *ProjectService) List(ctx context.Context, caller models.Caller, status string, scope models.ProjectScope, limit, offset int) ([]models.Project, error) {
	if limit <= 0 {
		limit = defaultProjectPage
	}
	if limit > maxProjectPage || offset < 0 {
		return nil, fmt.Errorf("%w: limit must be at most %d and offset non-negative", models.ErrValidation, maxProjectPage)
	}

	var filter models.ProjectFilter
	if status != "" {
		st := models.ProjectStatus(status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
		}
		filter.Status = &st
	}
	switch scope {
	case models.ScopeAll:
	case models.ScopeMyProjects:
		filter.ParticipantID = &caller.UserID
	case models.ScopeAvailable:
		filter.AvailableOnly = true
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", models.ErrValidation, scope)
	}

	return s.projects.List(ctx, filter, limit, offset)
}

// Apply submits the caller's proposal for an open project.
func (s *ProjectService) Apply(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.ApplyInput) (*models.Application, error) {
	if !caller.IsFreelancer() {
		return nil, fmt.Errorf("%w: only freelancers can apply", models.ErrForbidden)
	}
	if !in.ProposedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: proposed amount must be positive", models.ErrValidation)
	}

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusOpen || p.FreelancerID != nil {
		return nil, fmt.Errorf("%w: project is not accepting applications", models.ErrInvalidState)
	}

	a := &models.Application{
		ApplicationID:  uuid.New(),
		ProjectID:      projectID,
		FreelancerID:   caller.UserID,
		ProposedAmount: in.ProposedAmount,
		CoverLetter:    in.CoverLetter,
		Status:         models.ApplicationPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.applications.Create(ctx, a); err != nil {
		logger.Log.Warnw("failed to create application", "projectID", projectID, "freelancerID", caller.UserID, "error", err)
		return nil, err
	}
	return a, nil
}

// ListApplications returns all applications to the project's client and
// only their own application to a freelancer.
func (s *ProjectService) ListApplications(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Application, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	switch {
	case p.ClientID == caller.UserID:
		return s.applications.ListByProject(ctx, projectID, nil)
	case caller.IsFreelancer():
		return s.applications.ListByProject(ctx, projectID, &caller.UserID)
	default:
		return nil, fmt.Errorf("%w: not the project client", models.ErrForbidden)
	}
}

// AcceptApplication assigns the applicant to the project at the proposed amount
// and rejects every other pending application, atomically.
func (s *ProjectService) AcceptApplication(ctx context.Context, caller models.Caller, applicationID uuid.UUID) (*models.Acceptance, error) {
	var res *models.Acceptance

	err := runAtomic(ctx, s.tx, "accept", s.retry, func(ctx context.Context) error {
		a, err := s.applications.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		p, err := s.projects.GetByIDForUpdate(ctx, a.ProjectID)
		if err != nil {
			return err
		}
		if p.ClientID != caller.UserID {
			return fmt.Errorf("%w: only the project client can accept applications", models.ErrForbidden)
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionAccept)
		if err != nil {
			return err
		}
		if p.FreelancerID != nil {
			return fmt.Errorf("%w: project already has a freelancer", models.ErrInvalidState)
		}

		a, err = s.applications.GetByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if a.Status != models.ApplicationPending {
			return fmt.Errorf("%w: application is %s", models.ErrInvalidState, a.Status)
		}

		p.FreelancerID = &a.FreelancerID
		p.Amount = a.ProposedAmount
		p.Status = next
		p.UpdatedAt = time.Now().UTC()
		if err := s.projects.Update(ctx, p); err != nil {
			return err
		}

		if err := s.applications.SetStatus(ctx, a.ApplicationID, models.ApplicationAccepted); err != nil {
			return err
		}
		a.Status = models.ApplicationAccepted

		rejected, err := s.applications.RejectSiblings(ctx, p.ProjectID, a.ApplicationID)
		if err != nil {
			return err
		}

		res = &models.Acceptance{Project: p, Application: a, Rejected: rejected}
		return nil
	})
	if err != nil {
		logger.Log.Warnw("failed to accept application", "applicationID", applicationID, "error", err)
		return nil, err
	}
	return res, nil
}

// Deliver records the freelancer's delivery. The first delivery's files and note are kept.
func (s *ProjectService) Deliver(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.DeliveryInput) (*models.Project, error) {
	note := strings.TrimSpace(in.Description)
	if note == "" {
		return nil, fmt.Errorf("%w: delivery description is required", models.ErrValidation)
	}
	for _, f := range in.Files {
		if strings.TrimSpace(f.Filename) == "" || f.Size < 0 {
			return nil, fmt.Errorf("%w: every file needs a name and a non-negative size", models.ErrValidation)
		}
	}

	var p *models.Project
	err := runAtomic(ctx, s.tx, "deliver", s.retry, func(ctx context.Context) error {
		var err error
		p, err = s.projects.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if !p.IsFreelancer(caller.UserID) {
			return fmt.Errorf("%w: only the assigned freelancer can deliver", models.ErrForbidden)
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionDeliver)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if p.DeliveredAt == nil {
			p.Deliverables = models.Deliverables(in.Files)
			if p.Deliverables == nil {
				p.Deliverables = models.Deliverables{}
			}
			p.DeliveryNote = &note
			p.DeliveredAt = &now
		}
		p.Status = next
		p.UpdatedAt = now
		return s.projects.Update(ctx, p)
	})
	if err != nil {
		logger.Log.Warnw("failed to deliver project", "projectID", projectID, "error", err)
		return nil, err
	}
	return p, nil
}

// UpdateStatus sets the project status directly, skipping the action guards.
// Either participant may call it while the project is not completed or cancelled.
// It never moves money, so overrides into funded, completed or cancelled are logged.
func (s *ProjectService) UpdateStatus(ctx context.Context, caller models.Caller, projectID uuid.UUID, to models.ProjectStatus) (*models.Project, error) {
	var p *models.Project
	err := runAtomic(ctx, s.tx, "update_status", s.retry, func(ctx context.Context) error {
		var err error
		p, err = s.projects.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if !p.IsParticipant(caller.UserID) {
			return fmt.Errorf("%w: not a project participant", models.ErrForbidden)
		}
		from := p.Status
		if err := lifecycle.Override(from, to); err != nil {
			return err
		}
		if lifecycle.Bypasses(from, to) {
			logger.Log.Warnw("status override without ledger movement",
				"projectID", projectID, "from", from, "to", to, "callerID", caller.UserID)
		}

		now := time.Now().UTC()
		p.Status = to
		p.UpdatedAt = now
		if to == models.StatusCompleted {
			p.CompletedAt = &now
		}
		return s.projects.Update(ctx, p)
	})
	if err != nil {
		logger.Log.Warnw("failed to update project status", "projectID", projectID, "to", to, "error", err)
		return nil, err
	}
	return p, nil
}

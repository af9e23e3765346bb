package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const applicationColumns = `application_id, project_id, freelancer_id, proposed_amount, cover_letter, status, created_at`

// ApplicationRepository persists freelancer applications.
type ApplicationRepository struct {
	repository
}

func NewApplicationRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ApplicationRepository {
	return &ApplicationRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts an application. A second application by the same freelancer
// for the same project surfaces as models.ErrDuplicate.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	const query = `
		INSERT INTO applications (application_id, project_id, freelancer_id, proposed_amount, cover_letter, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	args := []any{a.ApplicationID, a.ProjectID, a.FreelancerID, a.ProposedAmount, a.CoverLetter, a.Status, a.CreatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, []any{a.ApplicationID, a.ProjectID, a.FreelancerID, a.ProposedAmount}, nil, err)
	return classify(err)
}

// GetByID returns the application or models.ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, applicationID uuid.UUID) (*models.Application, error) {
	return r.getOne(ctx, `SELECT `+applicationColumns+` FROM applications WHERE application_id = $1`, applicationID)
}

// GetByIDForUpdate returns the application and locks its row.
func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, applicationID uuid.UUID) (*models.Application, error) {
	return r.getOne(ctx, `SELECT `+applicationColumns+` FROM applications WHERE application_id = $1 FOR UPDATE`, applicationID)
}

func (r *ApplicationRepository) getOne(ctx context.Context, query string, applicationID uuid.UUID) (*models.Application, error) {
	var a models.Application
	err := sqlx.GetContext(ctx, r.executor(ctx), &a, query, applicationID)
	logQuery(query, []any{applicationID}, a.Status, err)
	if err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

// ListByProject returns the applications for a project, oldest first.
// A non-nil freelancerID narrows the list to that freelancer's application.
func (r *ApplicationRepository) ListByProject(ctx context.Context, projectID uuid.UUID, freelancerID *uuid.UUID) ([]models.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE project_id = $1 AND ($2::UUID IS NULL OR freelancer_id = $2)
		ORDER BY created_at ASC
	`

	apps := []models.Application{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &apps, query, projectID, freelancerID)
	logQuery(query, []any{projectID, freelancerID}, len(apps), err)
	return apps, classify(err)
}

// SetStatus changes the status of one application.
func (r *ApplicationRepository) SetStatus(ctx context.Context, applicationID uuid.UUID, status models.ApplicationStatus) error {
	const query = `UPDATE applications SET status = $2 WHERE application_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, applicationID, status)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{applicationID, status}, rowsAffected, err)
	if err != nil {
		return classify(err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RejectSiblings rejects every pending application of the project except acceptedID
// and returns how many were rejected.
func (r *ApplicationRepository) RejectSiblings(ctx context.Context, projectID, acceptedID uuid.UUID) (int64, error) {
	const query = `
		UPDATE applications
		SET status = 'rejected'
		WHERE project_id = $1 AND application_id <> $2 AND status = 'pending'
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, projectID, acceptedID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{projectID, acceptedID}, rowsAffected, err)
	return rowsAffected, classify(err)
}

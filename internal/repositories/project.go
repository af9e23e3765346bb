package repositories

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const (
	dialectPostgres = "postgres"
	tableProjects   = "projects"
)

const projectColumns = `project_id, client_id, freelancer_id, title, description, amount, status,
	deadline, deliverables, delivery_note, delivered_at, created_at, updated_at, completed_at`

var projectSelectColumns = []any{
	"project_id", "client_id", "freelancer_id", "title", "description", "amount", "status",
	"deadline", "deliverables", "delivery_note", "delivered_at", "created_at", "updated_at", "completed_at",
}

// ProjectRepository persists projects.
type ProjectRepository struct {
	repository
}

func NewProjectRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ProjectRepository {
	return &ProjectRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	const query = `
		INSERT INTO projects (project_id, client_id, title, description, amount, status, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	args := []any{p.ProjectID, p.ClientID, p.Title, p.Description, p.Amount, p.Status, p.Deadline, p.CreatedAt, p.UpdatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return classify(err)
}

// GetByID returns the project or models.ErrNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1`, projectID)
}

// GetByIDForUpdate returns the project and locks its row until the surrounding transaction ends.
func (r *ProjectRepository) GetByIDForUpdate(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1 FOR UPDATE`, projectID)
}

func (r *ProjectRepository) getOne(ctx context.Context, query string, args ...any) (*models.Project, error) {
	var p models.Project
	err := sqlx.GetContext(ctx, r.executor(ctx), &p, query, args...)
	logQuery(query, args, p.Status, err)
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

// Update writes the mutable project fields back.
// Deliverables are only written while the stored value is still empty.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	const query = `
		UPDATE projects
		SET freelancer_id = $2,
		    amount = $3,
		    status = $4,
		    deliverables = COALESCE(deliverables, $5),
		    delivery_note = COALESCE(delivery_note, $6),
		    delivered_at = COALESCE(delivered_at, $7),
		    completed_at = $8,
		    updated_at = $9
		WHERE project_id = $1
	`
	args := []any{p.ProjectID, p.FreelancerID, p.Amount, p.Status, p.Deliverables, p.DeliveryNote,
		p.DeliveredAt, p.CompletedAt, p.UpdatedAt}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{p.ProjectID, p.Status, p.Amount}, rowsAffected, err)
	if err != nil {
		return classify(err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// List returns projects matching filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter, limit, offset int) ([]models.Project, error) {
	query, args, err := buildProjectListQuery(filter, limit, offset)
	if err != nil {
		return nil, err
	}

	projects := []models.Project{}
	err = sqlx.SelectContext(ctx, r.executor(ctx), &projects, query, args...)
	logQuery(query, args, len(projects), err)
	return projects, classify(err)
}

func buildProjectListQuery(filter models.ProjectFilter, limit, offset int) (string, []any, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableProjects).
		Select(projectSelectColumns...).
		Order(goqu.I("created_at").Desc(), goqu.I("project_id").Asc()).
		Prepared(true)

	if filter.Status != nil {
		stmt = stmt.Where(goqu.C("status").Eq(string(*filter.Status)))
	}
	if filter.ParticipantID != nil {
		id := filter.ParticipantID.String()
		stmt = stmt.Where(goqu.Or(
			goqu.C("client_id").Eq(id),
			goqu.C("freelancer_id").Eq(id),
		))
	}
	if filter.AvailableOnly {
		stmt = stmt.Where(
			goqu.C("status").Eq(string(models.StatusOpen)),
			goqu.C("freelancer_id").IsNull(),
		)
	}
	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}
	if offset > 0 {
		stmt = stmt.Offset(uint(offset))
	}

	query, args, err := stmt.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build project list query: %w", err)
	}
	return query, args, nil
}

// ListCompletedByFreelancer returns the most recently completed projects of a freelancer.
func (r *ProjectRepository) ListCompletedByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit int) ([]models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE freelancer_id = $1 AND status = 'completed'
		ORDER BY completed_at DESC NULLS LAST
		LIMIT $2
	`

	projects := []models.Project{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &projects, query, freelancerID, limit)
	logQuery(query, []any{freelancerID, limit}, len(projects), err)
	return projects, classify(err)
}

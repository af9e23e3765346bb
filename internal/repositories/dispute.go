package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

// DisputeRepository persists disputes raised on projects.
type DisputeRepository struct {
	repository
}

func NewDisputeRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *DisputeRepository {
	return &DisputeRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts a dispute.
func (r *DisputeRepository) Create(ctx context.Context, d *models.Dispute) error {
	const query = `
		INSERT INTO disputes (dispute_id, project_id, raised_by, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	args := []any{d.DisputeID, d.ProjectID, d.RaisedBy, d.Reason, d.Status, d.CreatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return classify(err)
}

// ListByProject returns the disputes of a project, newest first.
func (r *DisputeRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Dispute, error) {
	const query = `
		SELECT dispute_id, project_id, raised_by, reason, status, resolution, created_at, resolved_at
		FROM disputes
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	disputes := []models.Dispute{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &disputes, query, projectID)
	logQuery(query, []any{projectID}, len(disputes), err)
	return disputes, classify(err)
}

// ResolveOpen closes every open dispute of the project with resolution.
func (r *DisputeRepository) ResolveOpen(ctx context.Context, projectID uuid.UUID, resolution string, now time.Time) (int64, error) {
	const query = `
		UPDATE disputes
		SET status = 'resolved', resolution = $2, resolved_at = $3
		WHERE project_id = $1 AND status = 'open'
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, projectID, resolution, now)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{projectID, resolution}, rowsAffected, err)
	return rowsAffected, classify(err)
}

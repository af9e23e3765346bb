package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const reviewColumns = `review_id, project_id, reviewer_id, reviewed_id, rating, comment, created_at`

// ReviewRepository persists reviews.
type ReviewRepository struct {
	repository
}

func NewReviewRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ReviewRepository {
	return &ReviewRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts a review. A repeated (project, reviewer, reviewed) triple
// surfaces as models.ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	const query = `
		INSERT INTO reviews (review_id, project_id, reviewer_id, reviewed_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	args := []any{rv.ReviewID, rv.ProjectID, rv.ReviewerID, rv.ReviewedID, rv.Rating, rv.Comment, rv.CreatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, args, nil, err)
	return classify(err)
}

// ListByReviewed returns the most recent reviews a user received.
func (r *ReviewRepository) ListByReviewed(ctx context.Context, userID uuid.UUID, limit int) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewed_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	reviews := []models.Review{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &reviews, query, userID, limit)
	logQuery(query, []any{userID, limit}, len(reviews), err)
	return reviews, classify(err)
}

// AverageRating returns the mean rating a user received, 0 when unreviewed.
func (r *ReviewRepository) AverageRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	const query = `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE reviewed_id = $1`

	var avg float64
	err := sqlx.GetContext(ctx, r.executor(ctx), &avg, query, userID)
	logQuery(query, []any{userID}, avg, err)
	return avg, classify(err)
}

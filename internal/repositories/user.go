package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

const userColumns = `user_id, name, email, password_hash, user_type, reputation_score,
	bio, profile_image, phone, created_at, updated_at`

// UserRepository persists marketplace users.
type UserRepository struct {
	repository
}

func NewUserRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserRepository {
	return &UserRepository{repository{db: db, txGetter: txGetter}}
}

// Create inserts a user. A taken email surfaces as models.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (user_id, name, email, password_hash, user_type, reputation_score, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	args := []any{user.UserID, user.Name, user.Email, user.PasswordHash, user.UserType,
		user.ReputationScore, user.Phone, user.CreatedAt, user.UpdatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)
	logQuery(query, []any{user.UserID, user.Email, user.UserType}, nil, err)
	return classify(err)
}

// GetByID returns the user or models.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	var user models.User
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, userID)
	logQuery(query, []any{userID}, user.UserID, err)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// GetByEmail returns the user registered with email or models.ErrNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, email)
	logQuery(query, []any{email}, user.UserID, err)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of upd and returns the stored user.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    bio = COALESCE($4, bio),
		    profile_image = COALESCE($5, profile_image),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns
	args := []any{userID, upd.Name, upd.Phone, upd.Bio, upd.ProfileImage}

	var user models.User
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)
	logQuery(query, args, user.UserID, err)
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// SetReputation stores a recomputed reputation score.
func (r *UserRepository) SetReputation(ctx context.Context, userID uuid.UUID, score float64) error {
	const query = `UPDATE users SET reputation_score = $2, updated_at = NOW() WHERE user_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, userID, score)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{userID, score}, rowsAffected, err)
	if err != nil {
		return classify(err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListFreelancers returns freelancers ordered by reputation, best first.
func (r *UserRepository) ListFreelancers(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_type = 'freelancer'
		ORDER BY reputation_score DESC, created_at ASC
		LIMIT $1 OFFSET $2
	`

	users := []models.User{}
	err := sqlx.SelectContext(ctx, r.executor(ctx), &users, query, limit, offset)
	logQuery(query, []any{limit, offset}, len(users), err)
	return users, classify(err)
}

// Statistics counts the projects the user took part in and the reviews they received.
func (r *UserRepository) Statistics(ctx context.Context, userID uuid.UUID) (models.UserStatistics, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM projects WHERE client_id = $1 OR freelancer_id = $1) AS total_projects,
			COALESCE((SELECT AVG(rating) FROM reviews WHERE reviewed_id = $1), 0) AS average_rating,
			(SELECT COUNT(*) FROM reviews WHERE reviewed_id = $1) AS total_reviews
	`

	var row struct {
		TotalProjects int     `db:"total_projects"`
		AverageRating float64 `db:"average_rating"`
		TotalReviews  int     `db:"total_reviews"`
	}
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, userID)
	logQuery(query, []any{userID}, row, err)
	if err != nil {
		return models.UserStatistics{}, classify(err)
	}
	return models.UserStatistics{
		TotalProjects: row.TotalProjects,
		AverageRating: row.AverageRating,
		TotalReviews:  row.TotalReviews,
	}, nil
}

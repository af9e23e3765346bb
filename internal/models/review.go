package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is one participant's rating of the other, unique per (project, reviewer, reviewed).
type Review struct {
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id"`
	ReviewerID uuid.UUID `json:"reviewer_id" db:"reviewer_id"`
	ReviewedID uuid.UUID `json:"reviewed_id" db:"reviewed_id"`
	Rating     float64   `json:"rating" db:"rating"`
	Comment    *string   `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ReviewInput is the body of a review.
type ReviewInput struct {
	Rating  float64 `json:"rating"`
	Comment *string `json:"comment"`
}

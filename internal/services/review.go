package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/lifecycle"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=review.go -destination=mock_review.go -package=services

// ReviewStore persists reviews and aggregates ratings.
type ReviewStore interface {
	Create(ctx context.Context, rv *models.Review) error
	ListByReviewed(ctx context.Context, userID uuid.UUID, limit int) ([]models.Review, error)
	AverageRating(ctx context.Context, userID uuid.UUID) (float64, error)
}

// ReputationWriter stores a user's recomputed reputation.
type ReputationWriter interface {
	SetReputation(ctx context.Context, userID uuid.UUID, score float64) error
}

// ReviewService files reviews between the participants of a finished project.
type ReviewService struct {
	tx         TxRunner
	projects   ProjectStore
	reviews    ReviewStore
	reputation ReputationWriter
	retry      []RetryOption
}

// NewReviewService creates a new ReviewService.
func NewReviewService(tx TxRunner, projects ProjectStore, reviews ReviewStore, reputation ReputationWriter, retry ...RetryOption) *ReviewService {
	return &ReviewService{
		tx:         tx,
		projects:   projects,
		reviews:    reviews,
		reputation: reputation,
		retry:      retry,
	}
}

// Review rates the other participant of the project and refreshes their reputation.
// A project awaiting review becomes completed.
func (s *ReviewService) Review(ctx context.Context, caller models.Caller, projectID uuid.UUID, in models.ReviewInput) (*models.Review, error) {
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", models.ErrValidation, models.MinRating, models.MaxRating)
	}

	var rv *models.Review
	err := runAtomic(ctx, s.tx, "review", s.retry, func(ctx context.Context) error {
		p, err := s.projects.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		reviewed := p.Counterparty(caller.UserID)
		if reviewed == nil {
			return fmt.Errorf("%w: not a project participant", models.ErrForbidden)
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionReview)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		rv = &models.Review{
			ReviewID:   uuid.New(),
			ProjectID:  p.ProjectID,
			ReviewerID: caller.UserID,
			ReviewedID: *reviewed,
			Rating:     in.Rating,
			Comment:    in.Comment,
			CreatedAt:  now,
		}
		if err := s.reviews.Create(ctx, rv); err != nil {
			return err
		}

		avg, err := s.reviews.AverageRating(ctx, *reviewed)
		if err != nil {
			return err
		}
		if err := s.reputation.SetReputation(ctx, *reviewed, math.Round(avg*100)/100); err != nil {
			return err
		}

		if p.Status != next {
			p.Status = next
			p.UpdatedAt = now
			p.CompletedAt = &now
			return s.projects.Update(ctx, p)
		}
		return nil
	})
	if err != nil {
		logger.Log.Warnw("failed to file review", "projectID", projectID, "reviewerID", caller.UserID, "error", err)
		return nil, err
	}
	return rv, nil
}

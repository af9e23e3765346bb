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

//go:generate mockgen -source=dispute.go -destination=mock_dispute.go -package=services

// DisputeStore persists disputes.
type DisputeStore interface {
	Create(ctx context.Context, d *models.Dispute) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Dispute, error)
}

// DisputeService raises and lists project disputes.
type DisputeService struct {
	tx       TxRunner
	projects ProjectStore
	disputes DisputeStore
	retry    []RetryOption
}

// NewDisputeService creates a new DisputeService.
func NewDisputeService(tx TxRunner, projects ProjectStore, disputes DisputeStore, retry ...RetryOption) *DisputeService {
	return &DisputeService{
		tx:       tx,
		projects: projects,
		disputes: disputes,
		retry:    retry,
	}
}

// Raise opens a dispute and moves the project to disputed.
// The escrowed amount stays in escrow until the client refunds or releases it.
func (s *DisputeService) Raise(ctx context.Context, caller models.Caller, projectID uuid.UUID, reason string) (*models.Dispute, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", models.ErrValidation)
	}

	var d *models.Dispute
	err := runAtomic(ctx, s.tx, "dispute", s.retry, func(ctx context.Context) error {
		p, err := s.projects.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if !p.IsParticipant(caller.UserID) {
			return fmt.Errorf("%w: not a project participant", models.ErrForbidden)
		}
		next, err := lifecycle.Next(p.Status, lifecycle.ActionDispute)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		d = &models.Dispute{
			DisputeID: uuid.New(),
			ProjectID: p.ProjectID,
			RaisedBy:  caller.UserID,
			Reason:    reason,
			Status:    models.DisputeOpen,
			CreatedAt: now,
		}
		if err := s.disputes.Create(ctx, d); err != nil {
			return err
		}

		p.Status = next
		p.UpdatedAt = now
		return s.projects.Update(ctx, p)
	})
	if err != nil {
		logger.Log.Warnw("failed to raise dispute", "projectID", projectID, "error", err)
		return nil, err
	}
	return d, nil
}

// List returns the project's disputes to its participants.
func (s *DisputeService) List(ctx context.Context, caller models.Caller, projectID uuid.UUID) ([]models.Dispute, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.IsParticipant(caller.UserID) {
		return nil, fmt.Errorf("%w: not a project participant", models.ErrForbidden)
	}
	return s.disputes.ListByProject(ctx, projectID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=user.go -destination=mock_user.go -package=services

const (
	profileReviews           = 5
	profileCompletedProjects = 5
	defaultFreelancerPage    = 20
	maxFreelancerPage        = 100
)

// ProfileStore reads and edits user profiles.
type ProfileStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (*models.User, error)
	ListFreelancers(ctx context.Context, limit, offset int) ([]models.User, error)
	Statistics(ctx context.Context, userID uuid.UUID) (models.UserStatistics, error)
}

// UserService serves public profiles.
type UserService struct {
	users    ProfileStore
	wallets  WalletStore
	reviews  ReviewStore
	projects ProjectStore
}

// NewUserService creates a new UserService.
func NewUserService(users ProfileStore, wallets WalletStore, reviews ReviewStore, projects ProjectStore) *UserService {
	return &UserService{
		users:    users,
		wallets:  wallets,
		reviews:  reviews,
		projects: projects,
	}
}

// GetProfile returns a user's profile. The wallet is included only when viewers look at themselves.
func (s *UserService) GetProfile(ctx context.Context, viewer models.Caller, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{User: user, CompletedProjects: []models.Project{}}

	if viewer.UserID == userID {
		wallet, err := s.wallets.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		profile.Wallet = wallet
	}

	if profile.Statistics, err = s.users.Statistics(ctx, userID); err != nil {
		logger.Log.Errorw("failed to load user statistics", "userID", userID, "error", err)
		return nil, err
	}
	if profile.RecentReviews, err = s.reviews.ListByReviewed(ctx, userID, profileReviews); err != nil {
		return nil, err
	}
	if user.UserType == models.UserTypeFreelancer {
		if profile.CompletedProjects, err = s.projects.ListCompletedByFreelancer(ctx, userID, profileCompletedProjects); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, caller models.Caller, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", models.ErrValidation)
		}
		upd.Name = &name
	}

	user, err := s.users.UpdateProfile(ctx, caller.UserID, upd)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "userID", caller.UserID, "error", err)
		return nil, err
	}
	return user, nil
}

// ListFreelancers returns freelancers ordered by reputation.
func (s *UserService) ListFreelancers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultFreelancerPage
	}
	if limit > maxFreelancerPage || offset < 0 {
		return nil, fmt.Errorf("%w: limit must be at most %d and offset non-negative", models.ErrValidation, maxFreelancerPage)
	}
	return s.users.ListFreelancers(ctx, limit, offset)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=handlers

// ProfileReader returns public profiles.
type ProfileReader interface {
	GetProfile(ctx context.Context, viewer models.Caller, userID uuid.UUID) (*models.UserProfile, error)
}

// ProfileWriter edits the caller's profile.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, caller models.Caller, upd models.ProfileUpdate) (*models.User, error)
}

// FreelancerLister lists freelancers by reputation.
type FreelancerLister interface {
	ListFreelancers(ctx context.Context, limit, offset int) ([]models.User, error)
}

// NewGetUserHandler returns a user's profile.
// @Summary User profile
// @Description Profile with statistics, recent reviews and, for freelancers, completed projects. The wallet is shown only on your own profile.
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{userID} [get]
// @Security BearerAuth
func NewGetUserHandler(svc ProfileReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		userID, ok := pathUUID(w, r, "userID")
		if !ok {
			return
		}

		profile, err := svc.GetProfile(r.Context(), caller, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// NewUpdateProfileHandler edits the caller's profile.
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Router /users/me [put]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}
		var upd models.ProfileUpdate
		if !decodeBody(w, r, &upd) {
			return
		}

		user, err := svc.UpdateProfile(r.Context(), caller, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// NewListFreelancersHandler lists freelancers, best rated first.
// @Summary List freelancers
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /users/freelancers [get]
// @Security BearerAuth
func NewListFreelancersHandler(svc FreelancerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := pagination(w, r)
		if !ok {
			return
		}

		users, err := svc.ListFreelancers(r.Context(), limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

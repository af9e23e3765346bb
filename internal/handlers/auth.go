package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=handlers

// Registerer defines the interface for registering users.
type Registerer interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.Session, error)
}

// Authenticator defines the interface for logging users in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// AccountReader returns the caller's own account.
type AccountReader interface {
	Me(ctx context.Context, caller models.Caller) (*models.Session, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Display name
	// required: true
	// default: Alice
	Name string `json:"name"`

	// Email used to log in
	// required: true
	// default: alice@example.com
	Email string `json:"email"`

	// Password, at least 6 characters
	// required: true
	// default: secret123
	Password string `json:"password"`

	// client or freelancer
	// required: true
	// default: client
	UserType models.UserType `json:"user_type"`

	// Optional phone number
	Phone *string `json:"phone"`
}

// LoginRequest represents the JSON body for login
// swagger:model LoginRequest
type LoginRequest struct {
	// required: true
	// default: alice@example.com
	Email string `json:"email"`

	// required: true
	// default: secret123
	Password string `json:"password"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates the user with an empty personal wallet and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.RegisterRequest true "Register Request"
// @Success 201 {object} models.Session "User registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 409 {object} handlers.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		session, err := svc.Register(r.Context(), models.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			UserType: req.UserType,
			Phone:    req.Phone,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		logger.Log.Infow("user registered", "userID", session.User.UserID, "userType", session.User.UserType)
		writeJSON(w, http.StatusCreated, session)
	}
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} models.Session "JWT token returned"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func NewLoginHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			writeErrorMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		session, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}

// NewMeHandler returns the authenticated user's account and wallet.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.Session
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
// @Security BearerAuth
func NewMeHandler(svc AccountReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerFromRequest(w, r)
		if !ok {
			return
		}

		session, err := svc.Me(r.Context(), caller)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

const minPasswordLength = 6

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)

// UserStore reads and creates user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, userType models.UserType) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	tx       TxRunner
	users    UserStore
	wallets  WalletStore
	jwt      JWTGenerator
	currency string
}

// NewAuthService creates a new AuthService instance.
// New personal wallets are opened in currency.
func NewAuthService(tx TxRunner, users UserStore, wallets WalletStore, jwt JWTGenerator, currency string) *AuthService {
	return &AuthService{
		tx:       tx,
		users:    users,
		wallets:  wallets,
		jwt:      jwt,
		currency: currency,
	}
}

// Register creates the user together with an empty personal wallet and signs a token.
func (svc *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", models.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}
	if !in.UserType.Valid() {
		return nil, fmt.Errorf("%w: user_type must be client or freelancer", models.ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:       uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		UserType:     in.UserType,
		Phone:        in.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	wallet := models.NewPersonalWallet(user.UserID, svc.currency, now)

	err = svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.users.Create(ctx, user); err != nil {
			return err
		}
		return svc.wallets.Create(ctx, wallet)
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			err = fmt.Errorf("%w: email already registered", models.ErrDuplicate)
		}
		logger.Log.Errorw("failed to register user", "email", in.Email, "err", err)
		return nil, err
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.UserType)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, err
	}

	return &models.Session{Token: token, User: user, Wallet: wallet}, nil
}

// Login authenticates a user by email and password and returns a JWT token.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := svc.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		logger.Log.Errorw("user does not exist", "email", email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.UserType)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, err
	}

	return &models.Session{Token: token, User: user}, nil
}

// Me returns the caller's account and wallet.
func (svc *AuthService) Me(ctx context.Context, caller models.Caller) (*models.Session, error) {
	user, err := svc.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	wallet, err := svc.wallets.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &models.Session{User: user, Wallet: wallet}, nil
}

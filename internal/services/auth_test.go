package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(ctrl *gomock.Controller) (*services.AuthService, *services.MockUserStore, *services.MockWalletStore, *services.MockJWTGenerator) {
	users := services.NewMockUserStore(ctrl)
	wallets := services.NewMockWalletStore(ctrl)
	jwt := services.NewMockJWTGenerator(ctrl)
	return services.NewAuthService(passthroughTx(ctrl), users, wallets, jwt, "BRL"), users, wallets, jwt
}

func TestAuthService_Register(t *testing.T) {
	valid := models.RegisterInput{Name: "Alice", Email: "Alice@Example.com", Password: "pass123", UserType: models.UserTypeClient}

	tests := []struct {
		name      string
		in        func() models.RegisterInput
		createErr error
		walletErr error
		wantErr   error
	}{
		{name: "successful registration", in: func() models.RegisterInput { return valid }},
		{name: "missing name", in: func() models.RegisterInput { in := valid; in.Name = ""; return in }, wantErr: models.ErrValidation},
		{name: "bad email", in: func() models.RegisterInput { in := valid; in.Email = "alice"; return in }, wantErr: models.ErrValidation},
		{name: "short password", in: func() models.RegisterInput { in := valid; in.Password = "123"; return in }, wantErr: models.ErrValidation},
		{name: "unknown role", in: func() models.RegisterInput { in := valid; in.UserType = "admin"; return in }, wantErr: models.ErrValidation},
		{name: "email taken", in: func() models.RegisterInput { return valid }, createErr: models.ErrDuplicate, wantErr: models.ErrDuplicate},
		{name: "wallet error", in: func() models.RegisterInput { return valid }, walletErr: errors.New("insert failed"), wantErr: errors.New("insert failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, users, wallets, jwt := newAuthService(ctrl)

			reachesStore := tt.wantErr == nil || tt.createErr != nil || tt.walletErr != nil
			if reachesStore {
				users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
					assert.Equal(t, "alice@example.com", u.Email)
					assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pass123")))
					return tt.createErr
				})
			}
			if reachesStore && tt.createErr == nil {
				wallets.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *models.Wallet) error {
					assert.Equal(t, "BRL", w.Currency)
					assert.Equal(t, models.WalletKindPersonal, w.Kind)
					return tt.walletErr
				})
			}
			if tt.wantErr == nil {
				jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), models.UserTypeClient).Return("token", nil)
			}

			session, err := svc.Register(context.Background(), tt.in())
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrValidation) || errors.Is(tt.wantErr, models.ErrDuplicate) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token", session.Token)
			assert.Equal(t, session.User.UserID, *session.Wallet.UserID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{UserID: uuid.New(), Email: "bob@example.com", PasswordHash: string(hash), UserType: models.UserTypeFreelancer}

	tests := []struct {
		name     string
		email    string
		password string
		getUser  *models.User
		getErr   error
		wantErr  error
	}{
		{name: "successful login", email: "BOB@example.com ", password: "pass123", getUser: user},
		{name: "unknown email", email: "eve@example.com", password: "pass123", getErr: models.ErrNotFound, wantErr: models.ErrUnauthorized},
		{name: "wrong password", email: "bob@example.com", password: "nope", getUser: user, wantErr: models.ErrUnauthorized},
		{name: "store error", email: "bob@example.com", password: "pass123", getErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			svc, users, _, jwt := newAuthService(ctrl)

			users.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(tt.getUser, tt.getErr).MaxTimes(1)
			users.EXPECT().GetByEmail(gomock.Any(), "eve@example.com").Return(tt.getUser, tt.getErr).MaxTimes(1)
			if tt.wantErr == nil {
				jwt.EXPECT().Generate(gomock.Any(), user.UserID, models.UserTypeFreelancer).Return("token", nil)
			}

			session, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, models.ErrUnauthorized) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token", session.Token)
			assert.Nil(t, session.Wallet)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, users, wallets, _ := newAuthService(ctrl)

	userID := uuid.New()
	users.EXPECT().GetByID(gomock.Any(), userID).Return(&models.User{UserID: userID}, nil)
	wallets.EXPECT().GetByUserID(gomock.Any(), userID).Return(&models.Wallet{UserID: &userID}, nil)

	session, err := svc.Me(context.Background(), models.Caller{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, session.Token)
	assert.Equal(t, userID, session.User.UserID)
}

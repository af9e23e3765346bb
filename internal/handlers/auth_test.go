package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	session := &models.Session{
		Token:  "token",
		User:   &models.User{UserID: uuid.New(), UserType: models.UserTypeClient},
		Wallet: &models.Wallet{WalletID: uuid.New()},
	}

	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(m *MockRegisterer)
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name: "successful registration",
			requestBody: RegisterRequest{
				Name: "Alice", Email: "alice@example.com", Password: "secret123", UserType: models.UserTypeClient,
			},
			setupMocks: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), models.RegisterInput{
					Name: "Alice", Email: "alice@example.com", Password: "secret123", UserType: models.UserTypeClient,
				}).Return(session, nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedKey:        "access_token",
		},
		{
			name:               "invalid request body",
			requestBody:        "invalid-json",
			setupMocks:         func(m *MockRegisterer) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "validation error",
			requestBody: RegisterRequest{Name: "Alice", Email: "bad", Password: "secret123", UserType: models.UserTypeClient},
			setupMocks: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: invalid email", models.ErrValidation))
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name:        "email taken",
			requestBody: RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123", UserType: models.UserTypeClient},
			setupMocks: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: email already registered", models.ErrDuplicate))
			},
			expectedStatusCode: http.StatusConflict,
			expectedKey:        "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockRegisterer(ctrl)
			tt.setupMocks(mockSvc)

			rr := httptest.NewRecorder()
			NewRegisterHandler(mockSvc).ServeHTTP(rr, newRequest(http.MethodPost, "/auth/register", tt.requestBody, nil, nil))

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			var resp map[string]any
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			_, ok := resp[tt.expectedKey]
			assert.True(t, ok, "response should contain key %s", tt.expectedKey)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(m *MockAuthenticator)
		expectedStatusCode int
	}{
		{
			name:        "successful login",
			requestBody: LoginRequest{Email: "alice@example.com", Password: "secret123"},
			setupMocks: func(m *MockAuthenticator) {
				m.EXPECT().Login(gomock.Any(), "alice@example.com", "secret123").
					Return(&models.Session{Token: "token"}, nil)
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "missing password",
			requestBody:        LoginRequest{Email: "alice@example.com"},
			setupMocks:         func(m *MockAuthenticator) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "invalid request body",
			requestBody:        "{",
			setupMocks:         func(m *MockAuthenticator) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "wrong password",
			requestBody: LoginRequest{Email: "alice@example.com", Password: "nope"},
			setupMocks: func(m *MockAuthenticator) {
				m.EXPECT().Login(gomock.Any(), "alice@example.com", "nope").
					Return(nil, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized))
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:        "internal error",
			requestBody: LoginRequest{Email: "alice@example.com", Password: "secret123"},
			setupMocks: func(m *MockAuthenticator) {
				m.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockAuthenticator(ctrl)
			tt.setupMocks(mockSvc)

			rr := httptest.NewRecorder()
			NewLoginHandler(mockSvc).ServeHTTP(rr, newRequest(http.MethodPost, "/auth/login", tt.requestBody, nil, nil))

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
		})
	}
}

func TestMeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockAccountReader(ctrl)
	mockSvc.EXPECT().Me(gomock.Any(), testClient).
		Return(&models.Session{User: &models.User{UserID: testClient.UserID, Name: "Alice"}}, nil)

	rr := httptest.NewRecorder()
	NewMeHandler(mockSvc).ServeHTTP(rr, newRequest(http.MethodGet, "/auth/me", nil, &testClient, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "Alice", got.User.Name)
	assert.Empty(t, got.Token)

	t.Run("no caller", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewMeHandler(mockSvc).ServeHTTP(rr, newRequest(http.MethodGet, "/auth/me", nil, nil, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

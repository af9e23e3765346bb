package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// --- Setup Postgres ---
func setupPostgres(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	logger.Initialize("debug")
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	require.NoError(t, Migrate(db.DB))

	return db, func() {
		db.Close()
		container.Terminate(ctx)
	}
}

// --- Helpers ---
func createUser(t *testing.T, db *sqlx.DB, userType models.UserType, balance models.Amount) (*models.User, *models.Wallet) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	user := &models.User{
		UserID:       uuid.New(),
		Name:         string(userType),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		UserType:     userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(db, nil).Create(ctx, user))

	wallet := models.NewPersonalWallet(user.UserID, models.DefaultCurrency, now)
	wallet.Balance = balance
	require.NoError(t, NewWalletRepository(db, nil).Create(ctx, wallet))

	return user, wallet
}

func createProject(t *testing.T, db *sqlx.DB, clientID uuid.UUID, amount models.Amount) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Project{
		ProjectID:   uuid.New(),
		ClientID:    clientID,
		Title:       "Landing page",
		Description: "Build a landing page",
		Amount:      amount,
		Status:      models.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewProjectRepository(db, nil).Create(context.Background(), p))
	return p
}

func getBalance(t *testing.T, db *sqlx.DB, walletID uuid.UUID) models.Amount {
	t.Helper()
	var balance models.Amount
	require.NoError(t, db.Get(&balance, `SELECT balance FROM wallets WHERE wallet_id = $1`, walletID))
	return balance
}

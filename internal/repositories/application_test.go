package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplication(projectID, freelancerID uuid.UUID, amount models.Amount) *models.Application {
	return &models.Application{
		ApplicationID:  uuid.New(),
		ProjectID:      projectID,
		FreelancerID:   freelancerID,
		ProposedAmount: amount,
		Status:         models.ApplicationPending,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestApplicationRepository(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	client, _ := createUser(t, db, models.UserTypeClient, 0)
	f1, _ := createUser(t, db, models.UserTypeFreelancer, 0)
	f2, _ := createUser(t, db, models.UserTypeFreelancer, 0)
	f3, _ := createUser(t, db, models.UserTypeFreelancer, 0)
	p := createProject(t, db, client.UserID, 10000)

	repo := NewApplicationRepository(db, nil)
	a1 := newApplication(p.ProjectID, f1.UserID, 9000)
	a2 := newApplication(p.ProjectID, f2.UserID, 9500)
	a3 := newApplication(p.ProjectID, f3.UserID, 8000)
	for _, a := range []*models.Application{a1, a2, a3} {
		require.NoError(t, repo.Create(ctx, a))
	}

	t.Run("duplicate pair", func(t *testing.T) {
		err := repo.Create(ctx, newApplication(p.ProjectID, f1.UserID, 1))
		assert.ErrorIs(t, err, models.ErrDuplicate)
	})

	t.Run("list narrowed to freelancer", func(t *testing.T) {
		apps, err := repo.ListByProject(ctx, p.ProjectID, &f2.UserID)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, a2.ApplicationID, apps[0].ApplicationID)
	})

	t.Run("accept one rejects siblings", func(t *testing.T) {
		require.NoError(t, repo.SetStatus(ctx, a3.ApplicationID, models.ApplicationRejected))
		require.NoError(t, repo.SetStatus(ctx, a1.ApplicationID, models.ApplicationAccepted))

		n, err := repo.RejectSiblings(ctx, p.ProjectID, a1.ApplicationID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		apps, err := repo.ListByProject(ctx, p.ProjectID, nil)
		require.NoError(t, err)
		require.Len(t, apps, 3)
		for _, a := range apps {
			if a.ApplicationID == a1.ApplicationID {
				assert.Equal(t, models.ApplicationAccepted, a.Status)
				continue
			}
			assert.Equal(t, models.ApplicationRejected, a.Status)
		}
	})

	t.Run("missing application", func(t *testing.T) {
		_, err := repo.GetByIDForUpdate(ctx, uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, repo.SetStatus(ctx, uuid.New(), models.ApplicationAccepted), models.ErrNotFound)
	})
}

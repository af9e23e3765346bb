package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisputeService_Raise(t *testing.T) {
	clientID, freelancerID := uuid.New(), uuid.New()
	freelancer := models.Caller{UserID: freelancerID, UserType: models.UserTypeFreelancer}

	tests := []struct {
		name    string
		caller  models.Caller
		status  models.ProjectStatus
		reason  string
		wantErr error
	}{
		{name: "freelancer disputes delivered work", caller: freelancer, status: models.StatusDelivered, reason: "client unresponsive"},
		{name: "client disputes funded project", caller: models.Caller{UserID: clientID, UserType: models.UserTypeClient}, status: models.StatusFunded, reason: "no progress"},
		{name: "empty reason", caller: freelancer, status: models.StatusFunded, reason: "  ", wantErr: models.ErrValidation},
		{name: "nothing escrowed yet", caller: freelancer, status: models.StatusAssigned, reason: "x", wantErr: models.ErrInvalidState},
		{name: "already disputed", caller: freelancer, status: models.StatusDisputed, reason: "x", wantErr: models.ErrInvalidState},
		{name: "stranger", caller: models.Caller{UserID: uuid.New()}, status: models.StatusFunded, reason: "x", wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			projects := services.NewMockProjectStore(ctrl)
			disputes := services.NewMockDisputeStore(ctrl)
			svc := services.NewDisputeService(passthroughTx(ctrl), projects, disputes)

			p := testProject(clientID, &freelancerID, tt.status, 100)
			if tt.reason != "  " {
				projects.EXPECT().GetByIDForUpdate(gomock.Any(), p.ProjectID).Return(p, nil)
			}
			if tt.wantErr == nil {
				disputes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				projects.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, up *models.Project) error {
					assert.Equal(t, models.StatusDisputed, up.Status)
					return nil
				})
			}

			d, err := svc.Raise(context.Background(), tt.caller, p.ProjectID, tt.reason)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.DisputeOpen, d.Status)
			assert.Equal(t, tt.caller.UserID, d.RaisedBy)
		})
	}
}

func TestDisputeService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	projects := services.NewMockProjectStore(ctrl)
	disputes := services.NewMockDisputeStore(ctrl)
	svc := services.NewDisputeService(passthroughTx(ctrl), projects, disputes)

	clientID := uuid.New()
	p := testProject(clientID, nil, models.StatusDisputed, 100)
	projects.EXPECT().GetByID(gomock.Any(), p.ProjectID).Return(p, nil).Times(2)
	disputes.EXPECT().ListByProject(gomock.Any(), p.ProjectID).Return([]models.Dispute{{}}, nil)

	got, err := svc.List(context.Background(), models.Caller{UserID: clientID}, p.ProjectID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.List(context.Background(), models.Caller{UserID: uuid.New()}, p.ProjectID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the state of a freelancer's proposal.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a freelancer's proposal for a project, unique per (project, freelancer).
type Application struct {
	ApplicationID  uuid.UUID         `json:"application_id" db:"application_id"`
	ProjectID      uuid.UUID         `json:"project_id" db:"project_id"`
	FreelancerID   uuid.UUID         `json:"freelancer_id" db:"freelancer_id"`
	ProposedAmount Amount            `json:"proposed_amount" db:"proposed_amount"`
	CoverLetter    *string           `json:"cover_letter" db:"cover_letter"`
	Status         ApplicationStatus `json:"status" db:"status"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
}

// ApplyInput is the body of an application.
type ApplyInput struct {
	ProposedAmount Amount  `json:"proposed_amount"`
	CoverLetter    *string `json:"cover_letter"`
}

// Acceptance is the result of accepting an application.
type Acceptance struct {
	Project     *Project     `json:"project"`
	Application *Application `json:"application"`
	Rejected    int64        `json:"rejected_applications"`
}

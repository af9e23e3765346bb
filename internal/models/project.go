package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is a lifecycle state of a project.
type ProjectStatus string

const (
	StatusOpen           ProjectStatus = "open"
	StatusAssigned       ProjectStatus = "assigned"
	StatusFunded         ProjectStatus = "funded"
	StatusInProgress     ProjectStatus = "in_progress"
	StatusDelivered      ProjectStatus = "delivered"
	StatusAwaitingReview ProjectStatus = "awaiting_review"
	StatusCompleted      ProjectStatus = "completed"
	StatusDisputed       ProjectStatus = "disputed"
	StatusCancelled      ProjectStatus = "cancelled"
)

// AllStatuses lists every lifecycle state in declaration order.
var AllStatuses = []ProjectStatus{
	StatusOpen,
	StatusAssigned,
	StatusFunded,
	StatusInProgress,
	StatusDelivered,
	StatusAwaitingReview,
	StatusCompleted,
	StatusDisputed,
	StatusCancelled,
}

// Valid reports whether s is one of AllStatuses.
func (s ProjectStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Deliverable describes one delivered file. Only metadata is stored.
type Deliverable struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// Deliverables is stored as a JSONB array.
type Deliverables []Deliverable

// Value implements driver.Valuer.
func (d Deliverables) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal([]Deliverable(d))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (d *Deliverables) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("deliverables: unsupported source type %T", src)
	}
	var out []Deliverable
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("deliverables: %w", err)
	}
	*d = out
	return nil
}

// Project is a job posted by a client.
type Project struct {
	ProjectID    uuid.UUID     `json:"project_id" db:"project_id"`
	ClientID     uuid.UUID     `json:"client_id" db:"client_id"`
	FreelancerID *uuid.UUID    `json:"freelancer_id" db:"freelancer_id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	Amount       Amount        `json:"amount" db:"amount"` // Replaced once by the accepted proposal
	Status       ProjectStatus `json:"status" db:"status"`
	Deadline     *time.Time    `json:"deadline" db:"deadline"`
	Deliverables Deliverables  `json:"deliverables" db:"deliverables"` // Written by the first delivery only
	DeliveryNote *string       `json:"delivery_note" db:"delivery_note"`
	DeliveredAt  *time.Time    `json:"delivered_at" db:"delivered_at"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at" db:"completed_at"`
}

// IsParticipant reports whether userID is the client or the assigned freelancer.
func (p *Project) IsParticipant(userID uuid.UUID) bool {
	return p.ClientID == userID || p.IsFreelancer(userID)
}

// IsFreelancer reports whether userID is the assigned freelancer.
func (p *Project) IsFreelancer(userID uuid.UUID) bool {
	return p.FreelancerID != nil && *p.FreelancerID == userID
}

// Counterparty returns the other participant for userID, or nil when none is assigned.
func (p *Project) Counterparty(userID uuid.UUID) *uuid.UUID {
	if userID == p.ClientID {
		return p.FreelancerID
	}
	if p.IsFreelancer(userID) {
		id := p.ClientID
		return &id
	}
	return nil
}

// ProjectScope narrows project listings.
type ProjectScope string

const (
	ScopeAll        ProjectScope = ""
	ScopeMyProjects ProjectScope = "my_projects"
	ScopeAvailable  ProjectScope = "available"
)

// ProjectFilter selects projects for listing.
type ProjectFilter struct {
	Status        *ProjectStatus
	ParticipantID *uuid.UUID // client or freelancer
	AvailableOnly bool       // open and unassigned
}

// CreateProjectInput holds the fields a client supplies for a new project.
type CreateProjectInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      Amount     `json:"amount"`
	Deadline    *time.Time `json:"deadline"`
}

// DeliveryInput is a freelancer's delivery submission.
type DeliveryInput struct {
	Description string        `json:"description"`
	Files       []Deliverable `json:"files"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DisputeStatus tracks a dispute's resolution.
type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
)

// Dispute is raised by a participant against a funded project.
type Dispute struct {
	DisputeID  uuid.UUID     `json:"dispute_id" db:"dispute_id"`
	ProjectID  uuid.UUID     `json:"project_id" db:"project_id"`
	RaisedBy   uuid.UUID     `json:"raised_by" db:"raised_by"`
	Reason     string        `json:"reason" db:"reason"`
	Status     DisputeStatus `json:"status" db:"status"`
	Resolution *string       `json:"resolution" db:"resolution"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	ResolvedAt *time.Time    `json:"resolved_at" db:"resolved_at"`
}

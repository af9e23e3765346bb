// Package lifecycle holds the project state machine: which guarded actions
// are legal in which status and where they lead.
package lifecycle

import (
	"fmt"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

// Action is a guarded operation that moves a project between statuses.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionFund    Action = "fund"
	ActionDeliver Action = "deliver"
	ActionRelease Action = "release"
	ActionReview  Action = "review"
	ActionRefund  Action = "refund"
	ActionDispute Action = "dispute"
)

type transition struct {
	from []models.ProjectStatus
	to   models.ProjectStatus
}

var transitions = map[Action]transition{
	ActionAccept: {
		from: []models.ProjectStatus{models.StatusOpen},
		to:   models.StatusAssigned,
	},
	ActionFund: {
		from: []models.ProjectStatus{models.StatusAssigned},
		to:   models.StatusFunded,
	},
	ActionDeliver: {
		from: []models.ProjectStatus{models.StatusFunded, models.StatusInProgress},
		to:   models.StatusDelivered,
	},
	ActionRelease: {
		from: []models.ProjectStatus{models.StatusDelivered, models.StatusFunded, models.StatusInProgress},
		to:   models.StatusCompleted,
	},
	ActionReview: {
		from: []models.ProjectStatus{models.StatusCompleted, models.StatusAwaitingReview},
		to:   models.StatusCompleted,
	},
	ActionRefund: {
		from: []models.ProjectStatus{models.StatusFunded, models.StatusDisputed},
		to:   models.StatusCancelled,
	},
	ActionDispute: {
		from: []models.ProjectStatus{models.StatusFunded, models.StatusInProgress, models.StatusDelivered},
		to:   models.StatusDisputed,
	},
}

// IsTerminal reports whether no transition may leave s.
func IsTerminal(s models.ProjectStatus) bool {
	return s == models.StatusCompleted || s == models.StatusCancelled
}

// Allowed reports whether action may run while a project is in from.
func Allowed(from models.ProjectStatus, action Action) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if s == from {
			return true
		}
	}
	return false
}

// Next returns the status a project reaches by running action from the given status.
// Review is the only action allowed out of a terminal status and it leaves the project completed.
func Next(from models.ProjectStatus, action Action) (models.ProjectStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", models.ErrValidation, action)
	}
	if !Allowed(from, action) {
		return "", fmt.Errorf("%w: cannot %s a project in status %s", models.ErrInvalidState, action, from)
	}
	return t.to, nil
}

// Sources lists the statuses action may start from.
func Sources(action Action) []models.ProjectStatus {
	t := transitions[action]
	out := make([]models.ProjectStatus, len(t.from))
	copy(out, t.from)
	return out
}

// Override validates a direct status change that skips the action guards.
// Any non-terminal status may be set to any known status.
func Override(from, to models.ProjectStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, to)
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: project is %s and can no longer change status", models.ErrInvalidState, from)
	}
	return nil
}

// Bypasses reports whether overriding from -> to reaches a state that
// normally implies a money movement the override does not perform, or one
// that lets release or refund draw on escrow the project never filled.
func Bypasses(from, to models.ProjectStatus) bool {
	if from == to {
		return false
	}
	switch to {
	case models.StatusFunded, models.StatusCompleted, models.StatusCancelled:
		return true
	}
	return drawsOnEscrow(to) && !drawsOnEscrow(from)
}

// drawsOnEscrow reports whether release or refund may start from s.
func drawsOnEscrow(s models.ProjectStatus) bool {
	return Allowed(s, ActionRelease) || Allowed(s, ActionRefund)
}

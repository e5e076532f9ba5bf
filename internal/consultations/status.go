package consultations

import (
	"fmt"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// transitions is the full lifecycle graph. Archived and cancelled have no
// outgoing edges.
var transitions = map[models.ConsultationStatus][]models.ConsultationStatus{
	models.ConsultationPending:    {models.ConsultationInProgress, models.ConsultationCancelled},
	models.ConsultationInProgress: {models.ConsultationArchived, models.ConsultationCancelled},
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s models.ConsultationStatus) bool {
	return s == models.ConsultationArchived || s == models.ConsultationCancelled
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.ConsultationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition applies a status change on the in-memory consultation after
// validating it against the lifecycle graph. Persistence is the caller's
// concern so the change can share the caller's transaction.
func Transition(c *models.Consultation, to models.ConsultationStatus) error {
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}
	c.Status = to
	return nil
}

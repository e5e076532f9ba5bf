package consultations

import "errors"

var (
	// ErrEmptySelection rejects an assignment request with no assignees.
	ErrEmptySelection = errors.New("please select at least one assignee")

	// ErrIneligibleAssignee rejects an id outside the role's eligible pool.
	ErrIneligibleAssignee = errors.New("user is not eligible for this role")

	// ErrConsultationClosed rejects any assignment action on an archived or
	// cancelled consultation.
	ErrConsultationClosed = errors.New("consultation is closed")

	// ErrInvalidTransition rejects a status change that is not an edge of
	// the lifecycle graph.
	ErrInvalidTransition = errors.New("invalid status transition")
)

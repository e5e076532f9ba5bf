package models

import (
	"time"

	"gorm.io/gorm"
)

// ConsultationStatus is the lifecycle state of a consultation.
type ConsultationStatus string

const (
	ConsultationPending    ConsultationStatus = "pending"
	ConsultationInProgress ConsultationStatus = "in_progress"
	ConsultationArchived   ConsultationStatus = "archived"
	ConsultationCancelled  ConsultationStatus = "cancelled"
)

// Priority values carried by a consultation.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Consultation is a unit of legal-advice work requested by an end user.
// Consultations are never physically deleted; archived/cancelled are the
// terminal states.
type Consultation struct {
	gorm.Model
	Topic       string             `json:"topic" gorm:"not null"`
	Priority    string             `json:"priority" gorm:"type:varchar(20);not null;default:'normal'"`
	Status      ConsultationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	RequesterID uint               `json:"requesterId"`
	Requester   User               `json:"requester" gorm:"foreignKey:RequesterID"`
	Lawyers     []User             `json:"lawyers" gorm:"many2many:lawyer_assignments;constraint:OnDelete:CASCADE;"`
	Operators   []User             `json:"operators" gorm:"many2many:operator_assignments;constraint:OnDelete:CASCADE;"`
}

// LawyerAssignment is the pivot row linking a consultation to an assigned
// lawyer. Exactly one lawyer per consultation may be primary at a time.
type LawyerAssignment struct {
	ConsultationID uint      `json:"consultationId" gorm:"primaryKey"`
	UserID         uint      `json:"userId" gorm:"primaryKey"`
	AssignedByID   uint      `json:"assignedById"`
	AssignedAt     time.Time `json:"assignedAt"`
	IsPrimary      bool      `json:"isPrimary" gorm:"not null;default:false"`
}

// OperatorAssignment is the pivot row linking a consultation to an assigned
// operator.
type OperatorAssignment struct {
	ConsultationID uint      `json:"consultationId" gorm:"primaryKey"`
	UserID         uint      `json:"userId" gorm:"primaryKey"`
	AssignedByID   uint      `json:"assignedById"`
	AssignedAt     time.Time `json:"assignedAt"`
}

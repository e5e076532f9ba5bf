package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType is the closed set of notification kinds the system emits.
type NotificationType string

const (
	NotificationConsultationStatus     NotificationType = "consultation_status"
	NotificationConsultationAssignment NotificationType = "consultation_assignment"
	NotificationConsultationPriority   NotificationType = "consultation_priority"
	NotificationMessage                NotificationType = "message"
	NotificationSystem                 NotificationType = "system"
	NotificationAnnouncement           NotificationType = "announcement"
)

// Notification is a persisted, per-recipient message rendered in the
// recipient's locale at creation time. Rows are immutable except for the
// one-way unread -> read transition on ReadAt.
type Notification struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey"`
	Type        NotificationType `json:"type" gorm:"type:varchar(40);not null;index"`
	RecipientID uint             `json:"recipientId" gorm:"not null;index"`
	Recipient   User             `json:"-" gorm:"foreignKey:RecipientID"`
	Locale      string           `json:"locale" gorm:"type:varchar(10);not null"`
	Title       string           `json:"title" gorm:"not null"`
	Body        string           `json:"body" gorm:"type:text"`
	Payload     string           `json:"payload" gorm:"type:text"` // JSON context: consultation id, actor name, ...
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationError   NotificationType = "ERROR"
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
)

// Notification is an entry in a user's append-only log. ID is a ULID so ids sort by creation time.
type Notification struct {
	ID        string           `gorm:"column:id;type:varchar(26);primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Message   string           `gorm:"column:message;not null" json:"message"`
	MessageAr string           `gorm:"column:message_ar" json:"message_ar"`
	Type      NotificationType `gorm:"column:type;not null" json:"type"`
	Link      *string          `gorm:"column:link" json:"link,omitempty"`
	Read      bool             `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

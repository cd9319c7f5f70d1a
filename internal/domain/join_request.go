package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestApproved JoinRequestStatus = "APPROVED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

// JoinRequest is a user's application to join an organization.
// The partial unique index allows one PENDING request per (user, organization)
// while keeping resolved requests as history.
type JoinRequest struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_join_requests_pending,where:status = 'PENDING'" json:"user_id"`
	OrganizationID  uuid.UUID         `gorm:"column:organization_id;type:uuid;not null;index;uniqueIndex:idx_join_requests_pending,where:status = 'PENDING'" json:"organization_id"`
	Status          JoinRequestStatus `gorm:"column:status;not null;default:PENDING" json:"status"`
	RejectionReason *string           `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	ResolvedBy      *uuid.UUID        `gorm:"column:resolved_by;type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time        `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}

func (j *JoinRequest) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

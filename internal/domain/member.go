package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "PENDING"
	MemberStatusApproved MemberStatus = "APPROVED"
	MemberStatusRejected MemberStatus = "REJECTED"
)

// OrganizationMember links a user to an organization. One row per (user, organization).
type OrganizationMember struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_members_user_org" json:"user_id"`
	OrganizationID uuid.UUID                   `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:idx_members_user_org" json:"organization_id"`
	Role           MemberRole                  `gorm:"column:role;not null" json:"role"`
	Permissions    datatypes.JSONSlice[string] `gorm:"column:permissions" json:"permissions"`
	Status         MemberStatus                `gorm:"column:status;not null" json:"status"`
	JoinedAt       time.Time                   `gorm:"column:joined_at" json:"joined_at"`
	User           *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (OrganizationMember) TableName() string {
	return "organization_members"
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *OrganizationMember) IsActiveAdmin() bool {
	return m.Role == MemberRoleAdmin && m.Status == MemberStatusApproved
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrganizationType string

const (
	OrganizationTypeFirm    OrganizationType = "FIRM"
	OrganizationTypeCompany OrganizationType = "COMPANY"
)

type OrganizationStatus string

const (
	OrganizationStatusPending   OrganizationStatus = "PENDING"
	OrganizationStatusApproved  OrganizationStatus = "APPROVED"
	OrganizationStatusRejected  OrganizationStatus = "REJECTED"
	OrganizationStatusSuspended OrganizationStatus = "SUSPENDED"
)

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "PENDING"
	VerificationVerified  VerificationStatus = "VERIFIED"
	VerificationRejected  VerificationStatus = "REJECTED"
	VerificationSuspended VerificationStatus = "SUSPENDED"
)

type RegistrationType string

const (
	RegistrationTypePartner  RegistrationType = "PARTNER"
	RegistrationTypeEmployee RegistrationType = "EMPLOYEE"
)

// Registrant is the person who registered an audit firm, stored as JSON on the firm row.
type Registrant struct {
	NameAr      string `json:"name_ar"`
	NameEn      string `json:"name_en"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	NationalID  string `json:"national_id,omitempty"`
	SocpaNumber string `json:"socpa_number,omitempty"`
}

// Organization is either an audit firm or a company. Firm-only and company-only
// columns are nullable or zero for the other variant.
type Organization struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Type                OrganizationType   `gorm:"column:type;not null;index" json:"type"`
	NameAr              string             `gorm:"column:name_ar;not null" json:"name_ar"`
	NameEn              string             `gorm:"column:name_en;not null" json:"name_en"`
	RegistrationNumber  string             `gorm:"column:registration_number;not null;uniqueIndex" json:"registration_number"`
	Subdomain           string             `gorm:"column:subdomain;not null;uniqueIndex" json:"subdomain"`
	AdminID             uuid.UUID          `gorm:"column:admin_id;type:uuid;not null;index" json:"admin_id"`
	Status              OrganizationStatus `gorm:"column:status;not null;default:PENDING" json:"status"`
	AllowedEmailDomain  *string            `gorm:"column:allowed_email_domain" json:"allowed_email_domain"`
	RestrictEmailDomain bool               `gorm:"column:restrict_email_domain;not null;default:false" json:"restrict_email_domain"`

	GlobalNetwork      *string             `gorm:"column:global_network" json:"global_network,omitempty"`
	LicenseNumber      *string             `gorm:"column:license_number" json:"license_number,omitempty"`
	RegistrationType   *RegistrationType   `gorm:"column:registration_type" json:"registration_type,omitempty"`
	RegisteredBy       datatypes.JSON      `gorm:"column:registered_by" json:"registered_by,omitempty"`
	VerificationStatus *VerificationStatus `gorm:"column:verification_status;index" json:"verification_status,omitempty"`
	VerifiedAt         *time.Time          `gorm:"column:verified_at" json:"verified_at,omitempty"`
	AgreementAccepted  bool                `gorm:"column:agreement_accepted;not null;default:false" json:"agreement_accepted"`
	AgreementDate      *time.Time          `gorm:"column:agreement_date" json:"agreement_date,omitempty"`
	RejectionReason    *string             `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	SuspensionReason   *string             `gorm:"column:suspension_reason" json:"suspension_reason,omitempty"`

	CommercialRegistration *string `gorm:"column:commercial_registration;uniqueIndex:idx_organizations_commercial_registration,where:commercial_registration IS NOT NULL" json:"commercial_registration,omitempty"`
	TaxRegistration        *string `gorm:"column:tax_registration" json:"tax_registration,omitempty"`

	Members   []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Documents []Document           `gorm:"foreignKey:OrganizationID" json:"documents,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *Organization) IsFirm() bool {
	return o.Type == OrganizationTypeFirm
}

// Verification returns the firm verification status, or "" for companies.
func (o *Organization) Verification() VerificationStatus {
	if o.VerificationStatus == nil {
		return ""
	}
	return *o.VerificationStatus
}

// Registrant decodes registered_by. Returns nil when the column is empty.
func (o *Organization) Registrant() (*Registrant, error) {
	if len(o.RegisteredBy) == 0 {
		return nil, nil
	}
	var r Registrant
	if err := json.Unmarshal(o.RegisteredBy, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

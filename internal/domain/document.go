package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentCategory string

const (
	DocumentNationalID         DocumentCategory = "NATIONAL_ID"
	DocumentCommercialRegister DocumentCategory = "COMMERCIAL_REGISTER"
	DocumentSocpaLicense       DocumentCategory = "SOCPA_LICENSE"
	DocumentOther              DocumentCategory = "OTHER"
)

// DocumentOwner says whether a document belongs to the organization or to the firm's registrant.
type DocumentOwner string

const (
	DocumentOwnerOrganization DocumentOwner = "ORGANIZATION"
	DocumentOwnerRegistrant   DocumentOwner = "REGISTRANT"
)

// Document is immutable once written at organization setup.
type Document struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	Owner          DocumentOwner    `gorm:"column:owner;not null" json:"owner"`
	Name           string           `gorm:"column:name;not null" json:"name"`
	Path           string           `gorm:"column:path;not null" json:"path"`
	Type           string           `gorm:"column:type" json:"type"`
	Category       DocumentCategory `gorm:"column:category;not null" json:"category"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func IsValidDocumentCategory(c DocumentCategory) bool {
	switch c {
	case DocumentNationalID, DocumentCommercialRegister, DocumentSocpaLicense, DocumentOther:
		return true
	}
	return false
}

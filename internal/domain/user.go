package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform account. Bilingual name and title fields feed the profile completion score.
type User struct {
	ID                    uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email                 string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash          string     `gorm:"column:password_hash" json:"-"`
	NameAr                string     `gorm:"column:name_ar" json:"name_ar"`
	NameEn                string     `gorm:"column:name_en" json:"name_en"`
	Phone                 string     `gorm:"column:phone" json:"phone"`
	TitleAr               string     `gorm:"column:title_ar" json:"title_ar"`
	TitleEn               string     `gorm:"column:title_en" json:"title_en"`
	Role                  string     `gorm:"column:role;not null;default:USER" json:"role"`
	ProfileCompletion     int        `gorm:"column:profile_completion;not null;default:0" json:"profile_completion"`
	CurrentOrganizationID *uuid.UUID `gorm:"column:current_organization_id;type:uuid" json:"current_organization_id"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets the id for databases without a uuid default.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the English name, then Arabic, then the email.
func (u *User) DisplayName() string {
	switch {
	case u.NameEn != "":
		return u.NameEn
	case u.NameAr != "":
		return u.NameAr
	default:
		return u.Email
	}
}

package organizations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"auditnet-backend/internal/application/notifications"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/infrastructure/metrics"
	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the organization registry and the firm verification workflow.
type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

// DocumentInput is a file already uploaded to storage, attached at setup time.
type DocumentInput struct {
	Name     string                  `json:"name"`
	Path     string                  `json:"path"`
	Type     string                  `json:"type"`
	Category domain.DocumentCategory `json:"category"`
	Owner    domain.DocumentOwner    `json:"owner"`
}

// CreateInput is the organization setup form.
type CreateInput struct {
	Type                   domain.OrganizationType  `json:"type"`
	NameAr                 string                   `json:"name_ar"`
	NameEn                 string                   `json:"name_en"`
	RegistrationNumber     string                   `json:"registration_number"`
	AllowedEmailDomain     *string                  `json:"allowed_email_domain"`
	RestrictEmailDomain    bool                     `json:"restrict_email_domain"`
	GlobalNetwork          *string                  `json:"global_network"`
	RegistrationType       *domain.RegistrationType `json:"registration_type"`
	RegisteredBy           *domain.Registrant       `json:"registered_by"`
	CommercialRegistration *string                  `json:"commercial_registration"`
	TaxRegistration        *string                  `json:"tax_registration"`
	Documents              []DocumentInput          `json:"documents"`
}

func (in *CreateInput) validate() error {
	if in.Type != domain.OrganizationTypeFirm && in.Type != domain.OrganizationTypeCompany {
		return ErrInvalidType
	}
	in.NameAr = strings.TrimSpace(in.NameAr)
	in.NameEn = strings.TrimSpace(in.NameEn)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	if in.NameAr == "" || in.NameEn == "" {
		return ErrNameRequired
	}
	if !validation.IsValidLicenseNumber(in.RegistrationNumber) {
		return ErrInvalidLicenseFormat
	}
	if in.AllowedEmailDomain != nil {
		d := strings.ToLower(strings.TrimSpace(*in.AllowedEmailDomain))
		if d == "" {
			in.AllowedEmailDomain = nil
		} else if !validation.IsValidDomain(d) {
			return ErrInvalidEmailDomain
		} else {
			in.AllowedEmailDomain = &d
		}
	}
	if in.Type == domain.OrganizationTypeFirm {
		if in.RegistrationType == nil ||
			(*in.RegistrationType != domain.RegistrationTypePartner && *in.RegistrationType != domain.RegistrationTypeEmployee) {
			return ErrInvalidRegistrationType
		}
		if in.RegisteredBy == nil {
			return ErrRegistrantRequired
		}
		if in.RegisteredBy.Email != "" && !validation.IsValidEmail(in.RegisteredBy.Email) {
			return ErrInvalidRegistrantEmail
		}
		if in.RegisteredBy.SocpaNumber != "" && !validation.IsValidLicenseNumber(in.RegisteredBy.SocpaNumber) {
			return ErrInvalidSocpaNumber
		}
	}
	for _, d := range in.Documents {
		if validation.IsBlank(d.Name) || validation.IsBlank(d.Path) || !domain.IsValidDocumentCategory(d.Category) {
			return ErrInvalidDocument
		}
	}
	return nil
}

// Create registers a new organization owned by creatorID. The creator must have a
// complete profile; they become the sole APPROVED ADMIN member and their current
// organization pointer moves to the new organization. Audit firms start PENDING
// verification.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, in CreateInput) (*domain.Organization, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	subdomain := validation.GenerateSubdomain(in.NameEn)
	if subdomain == "" {
		return nil, ErrInvalidSubdomain
	}

	now := time.Now()
	org := &domain.Organization{
		Type:                in.Type,
		NameAr:              in.NameAr,
		NameEn:              in.NameEn,
		RegistrationNumber:  in.RegistrationNumber,
		Subdomain:           subdomain,
		AdminID:             creatorID,
		Status:              domain.OrganizationStatusPending,
		AllowedEmailDomain:  in.AllowedEmailDomain,
		RestrictEmailDomain: in.RestrictEmailDomain,
		Members: []domain.OrganizationMember{{
			UserID:      creatorID,
			Role:        domain.MemberRoleAdmin,
			Permissions: []string{constants.MemberAdmin},
			Status:      domain.MemberStatusApproved,
			JoinedAt:    now,
		}},
	}
	if in.Type == domain.OrganizationTypeFirm {
		pending := domain.VerificationPending
		regBy, err := json.Marshal(in.RegisteredBy)
		if err != nil {
			return nil, err
		}
		org.GlobalNetwork = in.GlobalNetwork
		org.LicenseNumber = &org.RegistrationNumber
		org.RegistrationType = in.RegistrationType
		org.RegisteredBy = regBy
		org.VerificationStatus = &pending
		org.AgreementAccepted = true
		org.AgreementDate = &now
	} else {
		cr := org.RegistrationNumber
		if in.CommercialRegistration != nil && strings.TrimSpace(*in.CommercialRegistration) != "" {
			cr = strings.TrimSpace(*in.CommercialRegistration)
		}
		org.CommercialRegistration = &cr
		org.TaxRegistration = in.TaxRegistration
	}
	for _, d := range in.Documents {
		owner := d.Owner
		if owner == "" {
			owner = domain.DocumentOwnerOrganization
		}
		org.Documents = append(org.Documents, domain.Document{
			Owner:    owner,
			Name:     strings.TrimSpace(d.Name),
			Path:     strings.TrimSpace(d.Path),
			Type:     d.Type,
			Category: d.Category,
		})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var creator domain.User
		if err := tx.Where("id = ?", creatorID).First(&creator).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCreatorNotFound
			}
			return err
		}
		if err := policies.RequireCompleteProfile(&creator); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&domain.Organization{}).Where("registration_number = ?", org.RegistrationNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRegistration
		}
		if err := tx.Model(&domain.Organization{}).Where("subdomain = ?", org.Subdomain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSubdomainTaken
		}
		if org.CommercialRegistration != nil {
			if err := tx.Model(&domain.Organization{}).Where("commercial_registration = ?", *org.CommercialRegistration).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateCommercialRegistration
			}
		}

		if err := tx.Create(org).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRegistration
			}
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", creatorID).
			Update("current_organization_id", org.ID).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.OrganizationEvent(metrics.EventOrganizationCreated)
	return org, nil
}

// Get returns the organization with its members (in join order) and documents.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return getOrganization(s.DB.WithContext(ctx), id)
}

func getOrganization(db *gorm.DB, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC, created_at ASC") }).
		Preload("Members.User").
		Preload("Documents").
		Where("id = ?", id).
		First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Type               domain.OrganizationType
	Status             domain.OrganizationStatus
	VerificationStatus domain.VerificationStatus
	Query              string
}

// List searches organizations by case-insensitive name (Arabic or English) or
// registration number substring.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Organization, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Organization{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VerificationStatus != "" {
		q = q.Where("verification_status = ?", f.VerificationStatus)
	}
	if t := strings.TrimSpace(f.Query); t != "" {
		lower := "%" + strings.ToLower(t) + "%"
		q = q.Where("LOWER(name_en) LIKE ? OR LOWER(name_ar) LIKE ? OR registration_number LIKE ?", lower, lower, "%"+t+"%")
	}
	var out []domain.Organization
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Current returns the organization the user is currently working in.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*domain.Organization, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}
	if u.CurrentOrganizationID == nil {
		return nil, ErrNoCurrentOrganization
	}
	org, err := s.Get(ctx, *u.CurrentOrganizationID)
	if errors.Is(err, ErrOrganizationNotFound) {
		return nil, ErrNoCurrentOrganization
	}
	return org, err
}

// UpdateInput holds the fields an organization admin may change. Nil fields are left unchanged.
type UpdateInput struct {
	NameAr              *string `json:"name_ar"`
	NameEn              *string `json:"name_en"`
	GlobalNetwork       *string `json:"global_network"`
	TaxRegistration     *string `json:"tax_registration"`
	AllowedEmailDomain  *string `json:"allowed_email_domain"`
	RestrictEmailDomain *bool   `json:"restrict_email_domain"`
}

// Update changes editable fields. The subdomain is fixed at creation.
func (s *Service) Update(ctx context.Context, actor policies.Actor, id uuid.UUID, in UpdateInput) (*domain.Organization, error) {
	updates := map[string]interface{}{}
	if in.NameAr != nil {
		if validation.IsBlank(*in.NameAr) {
			return nil, ErrNameRequired
		}
		updates["name_ar"] = strings.TrimSpace(*in.NameAr)
	}
	if in.NameEn != nil {
		if validation.IsBlank(*in.NameEn) {
			return nil, ErrNameRequired
		}
		updates["name_en"] = strings.TrimSpace(*in.NameEn)
	}
	if in.AllowedEmailDomain != nil {
		d := strings.ToLower(strings.TrimSpace(*in.AllowedEmailDomain))
		if d == "" {
			updates["allowed_email_domain"] = nil
		} else if !validation.IsValidDomain(d) {
			return nil, ErrInvalidEmailDomain
		} else {
			updates["allowed_email_domain"] = d
		}
	}
	if in.RestrictEmailDomain != nil {
		updates["restrict_email_domain"] = *in.RestrictEmailDomain
	}
	if len(updates) == 0 && in.GlobalNetwork == nil && in.TaxRegistration == nil {
		return nil, ErrNoUpdateFields
	}

	var out *domain.Organization
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := getOrganization(tx, id)
		if err != nil {
			return err
		}
		if err := RequireAdmin(actor, org); err != nil {
			return err
		}
		if in.GlobalNetwork != nil && org.IsFirm() {
			updates["global_network"] = strings.TrimSpace(*in.GlobalNetwork)
		}
		if in.TaxRegistration != nil && !org.IsFirm() {
			updates["tax_registration"] = strings.TrimSpace(*in.TaxRegistration)
		}
		if len(updates) == 0 {
			return ErrNoUpdateFields
		}
		if err := tx.Model(&domain.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		out, err = getOrganization(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RevokeMember marks a member REJECTED so they no longer count as active.
// Organization admins cannot revoke themselves; a system admin can revoke anyone.
func (s *Service) RevokeMember(ctx context.Context, actor policies.Actor, orgID, userID uuid.UUID) (*domain.OrganizationMember, error) {
	var member domain.OrganizationMember
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := getOrganization(tx, orgID)
		if err != nil {
			return err
		}
		if err := RequireAdmin(actor, org); err != nil {
			return err
		}
		if userID == actor.UserID && !actor.IsSystemAdmin() {
			return ErrCannotRevokeSelf
		}
		if err := tx.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if err := tx.Model(&member).Update("status", domain.MemberStatusRejected).Error; err != nil {
			return err
		}
		member.Status = domain.MemberStatusRejected
		return tx.Model(&domain.User{}).
			Where("id = ? AND current_organization_id = ?", userID, orgID).
			Update("current_organization_id", nil).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.OrganizationEvent(metrics.EventMemberRevoked)
	return &member, nil
}

// RequireAdmin allows system admins and APPROVED ADMIN members of org.
func RequireAdmin(actor policies.Actor, org *domain.Organization) error {
	if actor.IsSystemAdmin() {
		return nil
	}
	if policies.IsOrganizationAdmin(org.Members, actor.UserID.String()) {
		return nil
	}
	return ErrForbidden
}

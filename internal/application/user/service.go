package user

import (
	"context"
	"errors"
	"strings"

	"auditnet-backend/internal/application/emails"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds dependencies for user registration and profile operations.
type Service struct {
	DB               *gorm.DB
	EmailSender      emails.Sender
	SystemAdminEmail string
}

// RegisterInput is the registration form body.
type RegisterInput struct {
	Email                string `json:"email"`
	NameEn               string `json:"name_en"`
	NameAr               string `json:"name_ar"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates an account. The configured system admin email gets SYSTEM_ADMIN.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if validation.IsBlank(in.NameEn) && validation.IsBlank(in.NameAr) {
		return nil, ErrNameRequired
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	if in.Password != in.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		NameEn:       strings.TrimSpace(in.NameEn),
		NameAr:       strings.TrimSpace(in.NameAr),
		Role:         RoleFor(email, s.SystemAdminEmail),
	}
	u.ProfileCompletion = policies.ProfileCompletion(u)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.EmailSender != nil {
		if err := s.EmailSender.SendWelcome(ctx, u.Email, u.DisplayName()); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("register: welcome email failed")
		}
	}
	return u, nil
}

// View returns the user by id.
func (s *Service) View(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ProfileInput holds the editable profile fields. Nil fields are left unchanged.
type ProfileInput struct {
	NameAr  *string `json:"name_ar"`
	NameEn  *string `json:"name_en"`
	Phone   *string `json:"phone"`
	TitleAr *string `json:"title_ar"`
	TitleEn *string `json:"title_en"`
	Email   *string `json:"email"`
}

func (in ProfileInput) empty() bool {
	return in.NameAr == nil && in.NameEn == nil && in.Phone == nil &&
		in.TitleAr == nil && in.TitleEn == nil && in.Email == nil
}

// UpdateProfile applies the changed fields and recomputes profile_completion in the same write.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.User, error) {
	if in.empty() {
		return nil, ErrNoUpdateFields
	}
	var out domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&out).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		assign := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		assign(&out.NameAr, in.NameAr)
		assign(&out.NameEn, in.NameEn)
		assign(&out.Phone, in.Phone)
		assign(&out.TitleAr, in.TitleAr)
		assign(&out.TitleEn, in.TitleEn)

		if in.Email != nil {
			email := NormalizeEmail(*in.Email)
			if !validation.IsValidEmail(email) {
				return ErrInvalidEmail
			}
			if email != out.Email {
				var count int64
				if err := tx.Model(&domain.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return ErrEmailTaken
				}
				out.Email = email
			}
		}

		out.ProfileCompletion = policies.ProfileCompletion(&out)
		err := tx.Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"name_ar":            out.NameAr,
			"name_en":            out.NameEn,
			"phone":              out.Phone,
			"title_ar":           out.TitleAr,
			"title_en":           out.TitleEn,
			"email":              out.Email,
			"profile_completion": out.ProfileCompletion,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns users ordered by creation, optionally filtered by a case-insensitive
// match on email or either name.
func (s *Service) List(ctx context.Context, query string) ([]domain.User, error) {
	q := s.DB.WithContext(ctx).Model(&domain.User{})
	if t := strings.TrimSpace(query); t != "" {
		like := "%" + strings.ToLower(t) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name_en) LIKE ? OR name_ar LIKE ?", like, like, "%"+t+"%")
	}
	var out []domain.User
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleFor returns SYSTEM_ADMIN when email matches the configured admin address.
func RoleFor(email, systemAdminEmail string) string {
	if systemAdminEmail != "" && NormalizeEmail(email) == NormalizeEmail(systemAdminEmail) {
		return constants.SystemAdmin
	}
	return constants.User
}

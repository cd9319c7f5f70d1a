package auth

import (
	"context"
	"errors"
	"strings"

	"auditnet-backend/internal/application/policies"
	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authenticator resolves login credentials to a user (GORM in production, fakes in tests).
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// Service implements Authenticator. Unknown emails are registered on first login.
type Service struct {
	DB               *gorm.DB
	SystemAdminEmail string
}

// Login finds the user by email, creating it when absent. Accounts with a stored
// password hash must present the matching password; accounts without one accept
// email-only login. A password given on first login is stored.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = usersvc.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	var u domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&u).Error
		if err == nil {
			return checkPassword(&u, password)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		u = domain.User{
			Email:  email,
			NameEn: localPart(email),
			Role:   usersvc.RoleFor(email, s.SystemAdminEmail),
		}
		if password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
			if err != nil {
				return err
			}
			u.PasswordHash = string(hash)
		}
		u.ProfileCompletion = policies.ProfileCompletion(&u)
		return tx.Create(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func checkPassword(u *domain.User, password string) error {
	if u.PasswordHash == "" {
		return nil
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// SessionUserShape is the object stored in the session and returned by /me.
type SessionUserShape struct {
	UserID                string  `json:"user_id"`
	NameEn                string  `json:"name_en"`
	NameAr                string  `json:"name_ar"`
	Email                 string  `json:"email"`
	Role                  string  `json:"role"`
	CurrentOrganizationID *string `json:"current_organization_id"`
}

// VerifyUser validates the session user value and returns its shape.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	out := &SessionUserShape{
		UserID: userID,
		NameEn: str(m["name_en"]),
		NameAr: str(m["name_ar"]),
		Email:  str(m["email"]),
		Role:   str(m["role"]),
	}
	if s, ok := m["current_organization_id"].(string); ok && s != "" {
		out.CurrentOrganizationID = &s
	}
	return out, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

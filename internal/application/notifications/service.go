package notifications

import (
	"context"
	"errors"
	"time"

	"auditnet-backend/internal/application/emails"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/pkg/ids"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service reads and updates the notification log and mirrors new entries by email.
type Service struct {
	DB     *gorm.DB
	Mailer emails.Sender
}

// Append stores a notification for userID using tx, so it commits or rolls back
// with the mutation that produced it.
func Append(tx *gorm.DB, userID uuid.UUID, m Message) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        ids.New(),
		UserID:    userID,
		Message:   m.En,
		MessageAr: m.Ar,
		Type:      m.Type,
		CreatedAt: time.Now(),
	}
	if m.Link != "" {
		link := m.Link
		n.Link = &link
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// Deliver emails each notification to its recipient. Call after the transaction commits.
// Delivery failures are logged and never returned.
func (s *Service) Deliver(ctx context.Context, notes ...*domain.Notification) {
	if s == nil || s.Mailer == nil || s.DB == nil {
		return
	}
	for _, n := range notes {
		if n == nil {
			continue
		}
		var u domain.User
		if err := s.DB.WithContext(ctx).Where("id = ?", n.UserID).First(&u).Error; err != nil {
			log.Warn().Err(err).Str("notification_id", n.ID).Msg("notification email: recipient lookup failed")
			continue
		}
		notice := emails.Notice{Subject: subjectFor(n), MessageEn: n.Message, MessageAr: n.MessageAr}
		if n.Link != nil {
			notice.Link = *n.Link
		}
		if err := s.Mailer.SendNotification(ctx, u.Email, u.DisplayName(), notice); err != nil {
			log.Error().Err(err).Str("notification_id", n.ID).Str("user_id", u.ID.String()).Msg("notification email: send failed")
		}
	}
}

func subjectFor(n *domain.Notification) string {
	switch n.Type {
	case domain.NotificationSuccess:
		return "AuditNet: request approved"
	case domain.NotificationError:
		return "AuditNet: action required"
	default:
		return "AuditNet notification"
	}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []domain.Notification
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead sets the read flag on one of the user's notifications.
// Another user's notification id is reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID uuid.UUID, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.Read {
		return &n, nil
	}
	if err := s.DB.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return nil, err
	}
	n.Read = true
	return &n, nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

package organizations

import (
	"context"
	"errors"
	"strings"
	"time"

	"auditnet-backend/internal/application/notifications"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FirmList is the admin view of audit firms.
type FirmList struct {
	Firms        []domain.Organization `json:"firms"`
	PendingCount int64                 `json:"pending_count"`
}

// ListFirms returns audit firms matching the filter and the number awaiting verification.
func (s *Service) ListFirms(ctx context.Context, verification domain.VerificationStatus, query string) (*FirmList, error) {
	firms, err := s.List(ctx, ListFilter{
		Type:               domain.OrganizationTypeFirm,
		VerificationStatus: verification,
		Query:              query,
	})
	if err != nil {
		return nil, err
	}
	var pending int64
	if err := s.DB.WithContext(ctx).Model(&domain.Organization{}).
		Where("type = ? AND verification_status = ?", domain.OrganizationTypeFirm, domain.VerificationPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	return &FirmList{Firms: firms, PendingCount: pending}, nil
}

func (s *Service) Approve(ctx context.Context, actor policies.Actor, firmID uuid.UUID) (*domain.Organization, error) {
	now := time.Now()
	return s.transition(ctx, actor, firmID, policies.ActionApprove,
		map[string]interface{}{"verified_at": now},
		notifications.FirmApproved(), metrics.EventFirmApproved)
}

func (s *Service) Reject(ctx context.Context, actor policies.Actor, firmID uuid.UUID, reason string) (*domain.Organization, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.transition(ctx, actor, firmID, policies.ActionReject,
		map[string]interface{}{"rejection_reason": reason},
		notifications.FirmRejected(reason), metrics.EventFirmRejected)
}

func (s *Service) Suspend(ctx context.Context, actor policies.Actor, firmID uuid.UUID, reason string) (*domain.Organization, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.transition(ctx, actor, firmID, policies.ActionSuspend,
		map[string]interface{}{"suspension_reason": reason},
		notifications.FirmSuspended(reason), metrics.EventFirmSuspended)
}

func (s *Service) Unsuspend(ctx context.Context, actor policies.Actor, firmID uuid.UUID) (*domain.Organization, error) {
	return s.transition(ctx, actor, firmID, policies.ActionUnsuspend,
		map[string]interface{}{"suspension_reason": nil},
		notifications.FirmUnsuspended(), metrics.EventFirmUnsuspended)
}

// transition applies action to the firm and notifies its admin in the same transaction.
// The update is conditional on the verification status read, so two concurrent
// actions on one firm cannot both succeed.
func (s *Service) transition(
	ctx context.Context,
	actor policies.Actor,
	firmID uuid.UUID,
	action policies.VerificationAction,
	extra map[string]interface{},
	msg notifications.Message,
	event string,
) (*domain.Organization, error) {
	if !actor.IsSystemAdmin() {
		return nil, ErrForbidden
	}
	var (
		org  *domain.Organization
		note *domain.Notification
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadFirm(tx, firmID)
		if err != nil {
			return err
		}
		next, err := policies.NextFirmState(current, action)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"verification_status": next.Verification,
			"status":              next.Status,
		}
		for k, v := range extra {
			updates[k] = v
		}
		res := tx.Model(&domain.Organization{}).
			Where("id = ? AND verification_status = ?", firmID, current.Verification()).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return policies.ErrInvalidTransition
		}

		if org, err = loadFirm(tx, firmID); err != nil {
			return err
		}
		note, err = notifications.Append(tx, org.AdminID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Deliver(ctx, note)
	metrics.OrganizationEvent(event)
	log.Info().
		Str("firm_id", firmID.String()).
		Str("action", string(action)).
		Str("actor_id", actor.UserID.String()).
		Str("verification_status", string(org.Verification())).
		Msg("firm verification updated")
	return org, nil
}

// Delete removes a firm and everything attached to it. Allowed only from
// VERIFIED, REJECTED or SUSPENDED and only when no member is APPROVED.
func (s *Service) Delete(ctx context.Context, actor policies.Actor, firmID uuid.UUID) error {
	if !actor.IsSystemAdmin() {
		return ErrForbidden
	}
	var note *domain.Notification
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := loadFirm(tx, firmID)
		if err != nil {
			return err
		}
		if err := policies.CanDeleteFirm(org); err != nil {
			return err
		}
		var members []domain.OrganizationMember
		if err := tx.Where("organization_id = ?", firmID).Find(&members).Error; err != nil {
			return err
		}
		if policies.HasActiveMembers(members) {
			return ErrHasActiveMembers
		}

		if err := tx.Where("organization_id = ?", firmID).Delete(&domain.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", firmID).Delete(&domain.JoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", firmID).Delete(&domain.OrganizationMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).Where("current_organization_id = ?", firmID).
			Update("current_organization_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Organization{}, "id = ?", firmID).Error; err != nil {
			return err
		}
		note, err = notifications.Append(tx, org.AdminID, notifications.FirmDeleted())
		return err
	})
	if err != nil {
		return err
	}

	s.Notifier.Deliver(ctx, note)
	metrics.OrganizationEvent(metrics.EventFirmDeleted)
	log.Info().Str("firm_id", firmID.String()).Str("actor_id", actor.UserID.String()).Msg("firm deleted")
	return nil
}

func loadFirm(tx *gorm.DB, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := tx.Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFirmNotFound
		}
		return nil, err
	}
	if !org.IsFirm() {
		return nil, ErrFirmNotFound
	}
	return &org, nil
}

package joinrequests

import (
	"context"
	"errors"
	"strings"
	"time"

	"auditnet-backend/internal/application/notifications"
	"auditnet-backend/internal/application/policies"
	"auditnet-backend/internal/domain"
	"auditnet-backend/internal/infrastructure/metrics"
	"auditnet-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

// Join files a PENDING request from userID to orgID and notifies the organization admin.
func (s *Service) Join(ctx context.Context, userID, orgID uuid.UUID) (*domain.JoinRequest, error) {
	var (
		req  *domain.JoinRequest
		note *domain.Notification
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := policies.RequireCompleteProfile(&u); err != nil {
			return err
		}

		var org domain.Organization
		if err := tx.Where("id = ?", orgID).First(&org).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return err
		}
		if org.Status == domain.OrganizationStatusRejected || org.Status == domain.OrganizationStatusSuspended {
			return ErrOrganizationNotJoinable
		}
		if !policies.CanJoin(&u, &org) {
			return policies.ErrEmailDomainNotAllowed
		}

		var count int64
		if err := tx.Model(&domain.OrganizationMember{}).
			Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, domain.MemberStatusApproved).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMember
		}
		if err := tx.Model(&domain.JoinRequest{}).
			Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, domain.JoinRequestPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrJoinRequestExists
		}

		req = &domain.JoinRequest{UserID: userID, OrganizationID: orgID, Status: domain.JoinRequestPending}
		if err := tx.Create(req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrJoinRequestExists
			}
			return err
		}
		var err error
		note, err = notifications.Append(tx, org.AdminID, notifications.JoinRequestReceived(orgID.String()))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.Deliver(ctx, note)
	metrics.OrganizationEvent(metrics.EventJoinRequested)
	return req, nil
}

// Approve resolves a pending request and makes the requester an APPROVED MEMBER
// with the given permissions ({VIEW} when none are given). A requester without a
// current organization is moved into this one.
func (s *Service) Approve(ctx context.Context, actor policies.Actor, requestID uuid.UUID, permissions []string) (*domain.JoinRequest, error) {
	if len(permissions) == 0 {
		permissions = constants.DefaultMemberPermissions()
	}
	for _, p := range permissions {
		if !constants.IsValidMemberPermission(p) {
			return nil, ErrInvalidPermission
		}
	}

	var (
		req  domain.JoinRequest
		note *domain.Notification
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loadForResolution(tx, actor, requestID, &req); err != nil {
			return err
		}
		now := time.Now()
		if err := resolve(tx, &req, actor, domain.JoinRequestApproved, nil, now); err != nil {
			return err
		}

		var member domain.OrganizationMember
		err := tx.Where("organization_id = ? AND user_id = ?", req.OrganizationID, req.UserID).First(&member).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			member = domain.OrganizationMember{
				UserID:         req.UserID,
				OrganizationID: req.OrganizationID,
				Role:           domain.MemberRoleMember,
				Permissions:    permissions,
				Status:         domain.MemberStatusApproved,
				JoinedAt:       now,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			member.Role = domain.MemberRoleMember
			member.Permissions = permissions
			member.Status = domain.MemberStatusApproved
			member.JoinedAt = now
			if err := tx.Save(&member).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&domain.User{}).
			Where("id = ? AND current_organization_id IS NULL", req.UserID).
			Update("current_organization_id", req.OrganizationID).Error; err != nil {
			return err
		}
		note, err = notifications.Append(tx, req.UserID, notifications.JoinRequestApproved(req.OrganizationID.String()))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.Deliver(ctx, note)
	metrics.OrganizationEvent(metrics.EventJoinApproved)
	return &req, nil
}

// Reject resolves a pending request with a reason that is passed on to the requester.
func (s *Service) Reject(ctx context.Context, actor policies.Actor, requestID uuid.UUID, reason string) (*domain.JoinRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	var (
		req  domain.JoinRequest
		note *domain.Notification
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loadForResolution(tx, actor, requestID, &req); err != nil {
			return err
		}
		if err := resolve(tx, &req, actor, domain.JoinRequestRejected, &reason, time.Now()); err != nil {
			return err
		}
		var err error
		note, err = notifications.Append(tx, req.UserID, notifications.JoinRequestRejected(reason))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.Deliver(ctx, note)
	metrics.OrganizationEvent(metrics.EventJoinRejected)
	return &req, nil
}

func (s *Service) loadForResolution(tx *gorm.DB, actor policies.Actor, requestID uuid.UUID, req *domain.JoinRequest) error {
	if err := tx.Where("id = ?", requestID).First(req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJoinRequestNotFound
		}
		return err
	}
	if err := requireAdmin(tx, actor, req.OrganizationID); err != nil {
		return err
	}
	if req.Status != domain.JoinRequestPending {
		return ErrJoinRequestResolved
	}
	return nil
}

// resolve moves req out of PENDING. The update is conditional on the row still
// being PENDING so that two concurrent resolutions cannot both succeed.
func resolve(tx *gorm.DB, req *domain.JoinRequest, actor policies.Actor, status domain.JoinRequestStatus, reason *string, at time.Time) error {
	updates := map[string]interface{}{
		"status":      status,
		"resolved_by": actor.UserID,
		"resolved_at": at,
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}
	res := tx.Model(&domain.JoinRequest{}).
		Where("id = ? AND status = ?", req.ID, domain.JoinRequestPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJoinRequestResolved
	}
	req.Status = status
	req.ResolvedBy = &actor.UserID
	req.ResolvedAt = &at
	req.RejectionReason = reason
	return nil
}

func requireAdmin(tx *gorm.DB, actor policies.Actor, orgID uuid.UUID) error {
	if constants.AllowedRole(constants.ResolveJoinRequest, actor.Role) {
		return nil
	}
	var members []domain.OrganizationMember
	if err := tx.Where("organization_id = ? AND user_id = ?", orgID, actor.UserID).Find(&members).Error; err != nil {
		return err
	}
	if !policies.IsOrganizationAdmin(members, actor.UserID.String()) {
		return ErrForbidden
	}
	return nil
}

// OrganizationRequests is the admin view of an organization's queue.
type OrganizationRequests struct {
	Requests     []domain.JoinRequest `json:"requests"`
	PendingCount int64                `json:"pending_count"`
}

// ListForOrganization returns the organization's requests, oldest first, optionally
// filtered by status, with their requesters.
func (s *Service) ListForOrganization(ctx context.Context, actor policies.Actor, orgID uuid.UUID, status domain.JoinRequestStatus) (*OrganizationRequests, error) {
	switch status {
	case "", domain.JoinRequestPending, domain.JoinRequestApproved, domain.JoinRequestRejected:
	default:
		return nil, ErrInvalidStatus
	}
	db := s.DB.WithContext(ctx)

	var org domain.Organization
	if err := db.Select("id").Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	if err := requireAdmin(db, actor, orgID); err != nil {
		return nil, err
	}

	q := db.Preload("User").Where("organization_id = ?", orgID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := &OrganizationRequests{Requests: []domain.JoinRequest{}}
	if err := q.Order("created_at ASC").Find(&out.Requests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.JoinRequest{}).
		Where("organization_id = ? AND status = ?", orgID, domain.JoinRequestPending).
		Count(&out.PendingCount).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListMine returns the caller's own requests, newest first.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

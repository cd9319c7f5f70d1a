package notifications

import (
	"fmt"

	"auditnet-backend/internal/domain"
)

// Message is a bilingual notification before it is stored.
type Message struct {
	Type domain.NotificationType
	En   string
	Ar   string
	Link string
}

func JoinRequestReceived(orgID string) Message {
	return Message{
		Type: domain.NotificationInfo,
		En:   "New join request received",
		Ar:   "تم استلام طلب انضمام جديد",
		Link: "/organizations/" + orgID + "/join-requests",
	}
}

func JoinRequestApproved(orgID string) Message {
	return Message{
		Type: domain.NotificationSuccess,
		En:   "Your join request has been approved",
		Ar:   "تمت الموافقة على طلب الانضمام الخاص بك",
		Link: "/organizations/" + orgID,
	}
}

func JoinRequestRejected(reason string) Message {
	return Message{
		Type: domain.NotificationError,
		En:   fmt.Sprintf("Your join request has been rejected. Reason: %s", reason),
		Ar:   fmt.Sprintf("تم رفض طلب الانضمام الخاص بك. السبب: %s", reason),
	}
}

func FirmApproved() Message {
	return Message{
		Type: domain.NotificationSuccess,
		En:   "Your firm verification has been approved",
		Ar:   "تمت الموافقة على توثيق منشأتك",
	}
}

func FirmRejected(reason string) Message {
	return Message{
		Type: domain.NotificationError,
		En:   fmt.Sprintf("Your firm verification has been rejected. Reason: %s", reason),
		Ar:   fmt.Sprintf("تم رفض توثيق منشأتك. السبب: %s", reason),
	}
}

func FirmSuspended(reason string) Message {
	return Message{
		Type: domain.NotificationError,
		En:   fmt.Sprintf("Your firm has been suspended. Reason: %s", reason),
		Ar:   fmt.Sprintf("تم تعليق منشأتك. السبب: %s", reason),
	}
}

func FirmUnsuspended() Message {
	return Message{
		Type: domain.NotificationSuccess,
		En:   "Your firm suspension has been lifted",
		Ar:   "تم رفع التعليق عن منشأتك",
	}
}

func FirmDeleted() Message {
	return Message{
		Type: domain.NotificationError,
		En:   "Your firm has been deleted from the system",
		Ar:   "تم حذف منشأتك من النظام",
	}
}

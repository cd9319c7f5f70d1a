package policies

import (
	"math"
	"strings"

	"auditnet-backend/internal/domain"
)

// CompletionFields is the number of profile fields that count toward completion.
const CompletionFields = 6

// ProfileCompletion returns round(100 * filled / 6) over name_ar, name_en, phone,
// title_ar, title_en and email, where a field counts if it is non-blank after trimming.
func ProfileCompletion(u *domain.User) int {
	if u == nil {
		return 0
	}
	filled := 0
	for _, v := range []string{u.NameAr, u.NameEn, u.Phone, u.TitleAr, u.TitleEn, u.Email} {
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / CompletionFields))
}

// RequireCompleteProfile gates organization creation and join requests.
func RequireCompleteProfile(u *domain.User) error {
	if ProfileCompletion(u) < 100 {
		return ErrProfileIncomplete
	}
	return nil
}

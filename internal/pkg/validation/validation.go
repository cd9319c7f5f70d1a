package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// emailRe: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// License numbers are either SOCPA form (123/SOCPA/2024) or a plain number of up to ten digits.
var (
	socpaLicenseRe   = regexp.MustCompile(`^\d+/SOCPA/\d{4}$`)
	numericLicenseRe = regexp.MustCompile(`^\d{1,10}$`)
)

var (
	nonSubdomainRe = regexp.MustCompile(`[^a-z0-9]`)
	hyphenRunRe    = regexp.MustCompile(`-+`)
	domainRe       = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter, a digit and a symbol.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// IsValidLicenseNumber accepts "123/SOCPA/2024" or up to ten digits.
func IsValidLicenseNumber(s string) bool {
	return socpaLicenseRe.MatchString(s) || numericLicenseRe.MatchString(s)
}

// GenerateSubdomain lowercases name, turns every run of non-alphanumerics into a
// single hyphen and trims hyphens from both ends. Names with no ASCII letters or
// digits produce "".
func GenerateSubdomain(name string) string {
	s := nonSubdomainRe.ReplaceAllString(strings.ToLower(name), "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EmailDomain returns the text after the last "@", or "" if there is none.
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return email[i+1:]
}

// IsValidDomain checks a bare host name such as "acme.com".
func IsValidDomain(domain string) bool {
	return domainRe.MatchString(strings.ToLower(domain))
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

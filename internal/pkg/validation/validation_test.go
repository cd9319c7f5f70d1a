package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLicenseNumber(t *testing.T) {
	assert.True(t, IsValidLicenseNumber("123/SOCPA/2024"))
	assert.True(t, IsValidLicenseNumber("12345"))
	assert.True(t, IsValidLicenseNumber("1234567890"))
	assert.False(t, IsValidLicenseNumber("abc"))
	assert.False(t, IsValidLicenseNumber("12345678901"))
	assert.False(t, IsValidLicenseNumber("123/SOCPA/24"))
	assert.False(t, IsValidLicenseNumber("123/socpa/2024"))
	assert.False(t, IsValidLicenseNumber(""))
}

func TestGenerateSubdomain(t *testing.T) {
	cases := map[string]string{
		"Al Faisal & Co.":        "al-faisal-co",
		"  KPMG  Saudi Arabia  ": "kpmg-saudi-arabia",
		"Ernst--&--Young":        "ernst-young",
		"ABC123":                 "abc123",
		"شركة التدقيق":           "",
		"---":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSubdomain(in), in)
	}
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "acme.com", EmailDomain("x@acme.com"))
	assert.Equal(t, "", EmailDomain("no-at-sign"))
	assert.Equal(t, "", EmailDomain("trailing@"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.False(t, IsValidEmail("user@example"))
	assert.False(t, IsValidEmail("user example.com"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("secret12!"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!!"))
	assert.False(t, IsValidPassword("nosymbol12"))
}

func TestIsValidDomain(t *testing.T) {
	assert.True(t, IsValidDomain("acme.com"))
	assert.True(t, IsValidDomain("mail.acme.com.sa"))
	assert.False(t, IsValidDomain("acme"))
	assert.False(t, IsValidDomain("@acme.com"))
}

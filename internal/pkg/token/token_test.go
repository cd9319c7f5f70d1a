package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	uid := uuid.New()

	tok, err := m.Issue(uid, "a@acme.com", "USER")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uid.String(), claims.UserID)
	assert.Equal(t, "a@acme.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewManager("one", time.Hour).Issue(uuid.New(), "a@acme.com", "USER")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue(uuid.New(), "a@acme.com", "USER")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

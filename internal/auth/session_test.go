package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	first := "Ana"
	token, err := m.Issue(Session{UserID: "u1", Email: "ana@example.com", FirstName: &first, IsAdmin: true})
	require.NoError(t, err)

	s, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "ana@example.com", s.Email)
	assert.True(t, s.IsAdmin)
	require.NotNil(t, s.FirstName)
	assert.Equal(t, "Ana", *s.FirstName)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Issue(Session{UserID: "u1"})
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewSessionManager("secret", -time.Minute)
	// ttl<=0 falls back to the default, so craft expiry manually
	m2 := &SessionManager{secret: []byte("secret"), ttl: -time.Minute}
	token, err := m2.Issue(Session{UserID: "u1"})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	_, err := m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestFromRequest(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	token, err := m.Issue(Session{UserID: "u1", Email: "a@b.c"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(m.Cookie(token))

	s, err := m.FromRequest(r)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID)

	// No cookie at all is not an error, just an absent session.
	s, err = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCookieAttributes(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	c := m.Cookie("tok")
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	cleared := m.ClearCookie()
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("hunter2hunter2", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateToken(t *testing.T) {
	a := GenerateToken(24)
	b := GenerateToken(24)
	assert.Len(t, a, 48)
	assert.NotEqual(t, a, b)
}

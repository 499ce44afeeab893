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
	m := NewManager("testsecret", time.Hour)

	token, err := m.Issue("john")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := m.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "john", subject)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("testsecret", time.Hour)

	token, err := m.Issue("john")
	require.NoError(t, err)

	// Move the clock past the TTL.
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Malformed(t *testing.T) {
	m := NewManager("testsecret", time.Hour)

	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewManager("secret1", time.Hour)
	verifier := NewManager("secret2", time.Hour)

	token, err := issuer.Issue("john")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerify_MissingSubject(t *testing.T) {
	m := NewManager("testsecret", time.Hour)

	token, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestExtractBearer(t *testing.T) {
	t.Run("AuthorizationHeader", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/orders", nil)
		r.Header.Set("Authorization", "Bearer abc123")
		assert.Equal(t, "abc123", ExtractBearer(r))
	})

	t.Run("Cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/orders", nil)
		r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		assert.Equal(t, "cookie-token", ExtractBearer(r))
	})

	t.Run("Missing", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/orders", nil)
		assert.Empty(t, ExtractBearer(r))
	})
}

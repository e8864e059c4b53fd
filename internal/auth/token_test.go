package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokens([]byte("test-secret"), time.Hour)
	userID := uuid.New()

	tok, err := tokens.Issue(userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokens_Verify_Expired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens([]byte("test-secret"), -time.Minute)
	tok, err := tokens.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokens([]byte("right-secret"), time.Hour)
	verifier := NewTokens([]byte("wrong-secret"), time.Hour)

	tok, err := issuer.Issue(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Verify_Malformed(t *testing.T) {
	t.Parallel()

	tokens := NewTokens([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..sig"} {
		_, err := tokens.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

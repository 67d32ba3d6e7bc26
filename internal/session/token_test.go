package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	id := &Identity{UserId: uuid.New(), Email: "alice@example.com"}

	token, err := issuer.Issue(id)
	require.NoError(t, err)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	id := &Identity{UserId: uuid.New(), Email: "alice@example.com"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other", time.Hour).Issue(id)
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewTokenIssuer("secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := old.Issue(id)
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.Parse("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no identity", func(t *testing.T) {
		_, err := issuer.Issue(nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

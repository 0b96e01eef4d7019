package auth

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-classic/internal/db"
)

func newUsers(t *testing.T) *Users {
	conn, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewUsers(conn)
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	u, err := users.Create(ctx, "  alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Len(t, u.ID, 22)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = users.Create(ctx, "ALICE", "another password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "Alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	_, err = users.Authenticate(ctx, "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "bob", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("bob_99", "password1"))
	assert.Error(t, ValidateSignup("bo", "password1"))
	assert.Error(t, ValidateSignup("bob!", "password1"))
	assert.Error(t, ValidateSignup("bob", "short"))
}

func TestRecordGame(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	u, err := users.Create(ctx, "carol", "password123")
	require.NoError(t, err)

	require.NoError(t, users.RecordGame(ctx, u.ID, true))
	require.NoError(t, users.RecordGame(ctx, u.ID, true))
	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 2, got.Streak)

	require.NoError(t, users.RecordGame(ctx, u.ID, false))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 0, got.Streak)

	assert.ErrorIs(t, users.RecordGame(ctx, "missing", true), ErrNotFound)
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("secret", 1)
	s, exp, err := tokens.Sign("id1", "dave")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	c, err := tokens.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "id1", c.ID)
	assert.Equal(t, "dave", c.Username)

	_, err = NewTokens("other", 1).Parse(s)
	assert.Error(t, err)
	_, err = tokens.Parse("not.a.token")
	assert.Error(t, err)
}

func TestBearerOrCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", BearerOrCookie(r, "tok"))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", BearerOrCookie(r, "tok"))

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "tok=xyz")
	assert.Equal(t, "xyz", BearerOrCookie(r, "tok"))
}

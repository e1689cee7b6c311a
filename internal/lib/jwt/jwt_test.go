package jwt

import (
	"testing"
	"time"

	"blog-api/internal/domain/models"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewToken_RoundTrip(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte(secret), nil)

	token, err := NewToken(models.User{ID: "user-1"}, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := UserID(tokenAuth, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestUserID_WrongSecret(t *testing.T) {
	token, err := NewToken(models.User{ID: "user-1"}, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	_, err = UserID(jwtauth.New("HS256", []byte("other"), nil), token)
	require.Error(t, err)
}

func TestUserID_Expired(t *testing.T) {
	token, err := NewToken(models.User{ID: "user-1"}, time.Now().Add(-time.Hour), secret)
	require.NoError(t, err)

	_, err = UserID(jwtauth.New("HS256", []byte(secret), nil), token)
	require.Error(t, err)
}

func TestUserID_Malformed(t *testing.T) {
	_, err := UserID(jwtauth.New("HS256", []byte(secret), nil), "not-a-token")
	require.Error(t, err)
}

func TestUserID_MissingClaim(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte(secret), nil)
	_, token, err := tokenAuth.Encode(map[string]interface{}{"sub": "x"})
	require.NoError(t, err)

	_, err = UserID(tokenAuth, token)
	require.ErrorIs(t, err, ErrNoUID)
}

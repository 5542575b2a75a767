package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateAccessToken("hamza", 7, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := VerifyAccessToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, int32(7), userID)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("hamza", 7, time.Now().Add(time.Hour), []byte("secret-a"))
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken("hamza", 7, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = VerifyAccessToken(token, secret)
	require.Error(t, err)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := VerifyAccessToken("not-a-token", []byte("test-secret"))
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, CheckPassword(hash, "hunter2"))
	require.False(t, CheckPassword(hash, "hunter3"))
}

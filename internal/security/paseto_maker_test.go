package security

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"
)

const testSymmetricKey = "12345678901234567890123456789012"

func TestNewPasetoMaker(t *testing.T) {
	t.Run("accepts a key of the exact size", func(t *testing.T) {
		maker, err := NewPasetoMaker(testSymmetricKey)
		require.NoError(t, err)
		assert.NotNil(t, maker)
	})

	t.Run("rejects a short key", func(t *testing.T) {
		_, err := NewPasetoMaker("too-short")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid key size")
	})

	t.Run("rejects a long key", func(t *testing.T) {
		_, err := NewPasetoMaker(strings.Repeat("x", chacha20poly1305.KeySize+1))
		require.Error(t, err)
	})
}

func TestPasetoMaker_RoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	userID := uuid.New()
	token, payload, err := maker.CreateToken(userID, time.Minute, 3, TokenScopeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, payload)

	verified, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload.ID, verified.ID)
	assert.Equal(t, userID, verified.UserID)
	assert.Equal(t, int64(3), verified.Version)
	assert.Equal(t, TokenScopeAccess, verified.Scope)
	assert.WithinDuration(t, time.Now(), verified.IssuedAt, time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Minute), verified.ExpiredAt, time.Second)
}

func TestPasetoMaker_ExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	token, _, err := maker.CreateToken(uuid.New(), -time.Minute, 0, TokenScopeAccess)
	require.NoError(t, err)

	_, err = maker.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasetoMaker_InvalidToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	t.Run("garbage input", func(t *testing.T) {
		_, err := maker.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token from another key", func(t *testing.T) {
		other, err := NewPasetoMaker(strings.Repeat("k", chacha20poly1305.KeySize))
		require.NoError(t, err)

		token, _, err := other.CreateToken(uuid.New(), time.Minute, 0, TokenScopeAccess)
		require.NoError(t, err)

		_, err = maker.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, _, err := maker.CreateToken(uuid.New(), time.Minute, 0, TokenScopeAccess)
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "zz"
		_, err = maker.VerifyToken(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

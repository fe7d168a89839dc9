package helper

import (
	"testing"
	"time"

	"event_hub/constants"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	JwtSecret = []byte("test-secret")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	claim := model.TokenClaim{UserId: 42, Email: "buyer@example.com", Role: constants.ROLE_USER}

	signed, err := GenerateAccessToken(claim)
	require.NoError(t, err)

	token, err := ParseToken(signed)
	require.NoError(t, err)
	require.True(t, token.Valid)

	parsed, err := ClaimFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, claim, parsed)
}

func TestResetTokenScope(t *testing.T) {
	signed, err := GenerateResetToken("buyer@example.com", 15*time.Minute)
	require.NoError(t, err)

	email, err := VerifyResetToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", email)

	// An access token must not pass as a reset token.
	access, err := GenerateAccessToken(model.TokenClaim{UserId: 1, Email: "buyer@example.com", Role: constants.ROLE_USER})
	require.NoError(t, err)
	_, err = VerifyResetToken(access)
	assert.Error(t, err)
}

func TestResetTokenExpiry(t *testing.T) {
	signed, err := GenerateResetToken("buyer@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyResetToken(signed)
	assert.Error(t, err)
}

func TestCanTouchEvent(t *testing.T) {
	managerId := uint(5)
	event := &model.Event{ManagerId: &managerId}

	admin := model.TokenClaim{UserId: 0, Role: constants.ROLE_ADMIN}
	assert.True(t, CanTouchEvent(admin, nil, event))

	owner := &model.User{ID: 5, Role: constants.ROLE_MANAGER, IsApproved: true}
	assert.True(t, CanTouchEvent(model.TokenClaim{UserId: 5, Role: constants.ROLE_MANAGER}, owner, event))

	unapproved := &model.User{ID: 5, Role: constants.ROLE_MANAGER, IsApproved: false}
	assert.False(t, CanTouchEvent(model.TokenClaim{UserId: 5, Role: constants.ROLE_MANAGER}, unapproved, event))

	stranger := &model.User{ID: 9, Role: constants.ROLE_MANAGER, IsApproved: true}
	assert.False(t, CanTouchEvent(model.TokenClaim{UserId: 9, Role: constants.ROLE_MANAGER}, stranger, event))

	buyer := &model.User{ID: 5, Role: constants.ROLE_USER}
	assert.False(t, CanTouchEvent(model.TokenClaim{UserId: 5, Role: constants.ROLE_USER}, buyer, event))
}

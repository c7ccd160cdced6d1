package scheduler

import (
	"testing"
	"time"

	"medialibrary_backend/internals/databases/dbtest"
	authModel "medialibrary_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRefreshTokensOnce(t *testing.T) {
	db := dbtest.New(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	longRevoked := now.Add(-10 * 24 * time.Hour)
	recentlyRevoked := now.Add(-time.Hour)
	rows := []authModel.RefreshTokenModel{
		{UserID: userID, TokenHash: []byte("expired"), ExpiresAt: now.Add(-time.Minute)},
		{UserID: userID, TokenHash: []byte("old-revoked"), ExpiresAt: now.Add(time.Hour), RevokedAt: &longRevoked},
		{UserID: userID, TokenHash: []byte("new-revoked"), ExpiresAt: now.Add(time.Hour), RevokedAt: &recentlyRevoked},
		{UserID: userID, TokenHash: []byte("live"), ExpiresAt: now.Add(time.Hour)},
	}
	require.NoError(t, db.Create(&rows).Error)

	n, err := CleanupRefreshTokensOnce(db, now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var left []authModel.RefreshTokenModel
	require.NoError(t, db.Order("token_hash").Find(&left).Error)
	require.Len(t, left, 2)
	assert.Equal(t, "live", string(left[0].TokenHash))
	assert.Equal(t, "new-revoked", string(left[1].TokenHash))
}

func TestRetentionFromEnv(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_RETENTION_DAYS", "")
	assert.Equal(t, 7*24*time.Hour, RetentionFromEnv())

	t.Setenv("REFRESH_TOKEN_RETENTION_DAYS", "30")
	assert.Equal(t, 30*24*time.Hour, RetentionFromEnv())
}

package repository

import (
	"context"
	"testing"
	"time"

	"simmr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(email, token string, expiresAt time.Time) *models.VerificationToken {
	return &models.VerificationToken{
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

func TestTokenRepository_ConsumeIsSingleUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-1", time.Now().Add(15*time.Minute))))

	vt, err := repo.Consume(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, vt)
	assert.Equal(t, "a@b.com", vt.Email)

	// The same token cannot be consumed twice.
	vt, err = repo.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, vt)
}

func TestTokenRepository_ConsumeExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-old", time.Now().Add(-time.Minute))))

	vt, err := repo.Consume(ctx, "tok-old")
	require.NoError(t, err)
	assert.Nil(t, vt)
}

func TestTokenRepository_ReissueReplacesPriorTokens(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-1", time.Now().Add(15*time.Minute))))
	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-2", time.Now().Add(15*time.Minute))))

	// Only the second token is live.
	vt, err := repo.Consume(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, vt)

	vt, err = repo.Consume(ctx, "tok-2")
	require.NoError(t, err)
	require.NotNil(t, vt)

	// Reissue for one address leaves other addresses alone.
	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-3", time.Now().Add(15*time.Minute))))
	require.NoError(t, repo.Reissue(ctx, newToken("c@d.com", "tok-4", time.Now().Add(15*time.Minute))))

	vt, err = repo.Consume(ctx, "tok-3")
	require.NoError(t, err)
	assert.NotNil(t, vt)
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Reissue(ctx, newToken("a@b.com", "tok-live", time.Now().Add(15*time.Minute))))
	require.NoError(t, repo.Reissue(ctx, newToken("c@d.com", "tok-dead", time.Now().Add(-time.Minute))))

	require.NoError(t, repo.DeleteExpired(ctx))

	var count int64
	require.NoError(t, db.Model(&models.VerificationToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

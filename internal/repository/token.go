package repository

import (
	"context"
	"errors"
	"time"

	"simmr/internal/models"

	"gorm.io/gorm"
)

// TokenRepository manages magic-link verification tokens.
type TokenRepository interface {
	// Reissue deletes any prior tokens for the email and stores a new one.
	Reissue(ctx context.Context, token *models.VerificationToken) error
	// Consume finds a live token by value and deletes it so it cannot be
	// used again. Returns (nil, nil) for unknown or expired tokens.
	Consume(ctx context.Context, token string) (*models.VerificationToken, error)
	// DeleteExpired removes tokens past their expiry.
	DeleteExpired(ctx context.Context) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Reissue(ctx context.Context, token *models.VerificationToken) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", token.Email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) Consume(ctx context.Context, token string) (*models.VerificationToken, error) {
	var vt models.VerificationToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("token = ? AND expires_at > ?", token, time.Now()).
			First(&vt).Error; err != nil {
			return err
		}
		return tx.Delete(&models.VerificationToken{}, vt.ID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vt, nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.VerificationToken{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

package repo

import (
	"context"
	"time"

	"github.com/vitikova/user-service/internal/models"
)

// IsRevoked reports whether any blacklist entry exists for the username.
// The blacklist is keyed by username, so one logout invalidates every
// outstanding token for that user.
func (r *GormRepo) IsRevoked(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) Revoke(ctx context.Context, username, token string, expiresAt time.Time) error {
	entry := models.RevokedToken{
		Username:  username,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).Create(&entry).Error
}

// PurgeExpired deletes blacklist rows whose expiry is before now and
// returns how many were removed. Deletes are idempotent, so concurrent
// runs need no locking.
func (r *GormRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return tx.RowsAffected, tx.Error
}

// PurgeForUser removes every blacklist entry for the username. Called on
// sign-in so a fresh login clears prior forced-logout state.
func (r *GormRepo) PurgeForUser(ctx context.Context, username string) error {
	return r.DB.WithContext(ctx).Where("username = ?", username).Delete(&models.RevokedToken{}).Error
}

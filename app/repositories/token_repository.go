package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// TokenRepository keeps issued tokens in personal_access_tokens. It is the
// auth.TokenStore used when TOKEN_DRIVER=database.
type TokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ auth.TokenStore = (*TokenRepository)(nil)

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db, now: time.Now}
}

func (r *TokenRepository) Save(ctx context.Context, rec auth.TokenRecord) error {
	defer metrics.ObserveDBQuery("tokens.save", time.Now())

	row := models.PersonalAccessToken{
		UserID:    rec.UserID,
		Name:      rec.Name,
		TokenID:   rec.ID,
		ExpiresAt: rec.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Active reports whether the token is still on record for userID and stamps
// its last_used_at.
func (r *TokenRepository) Active(ctx context.Context, tokenID string, userID uint) (bool, error) {
	defer metrics.ObserveDBQuery("tokens.active", time.Now())

	now := r.now()
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PersonalAccessToken{}).
		Where("token_id = ? AND user_id = ? AND expires_at > ?", tokenID, userID, now).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("look up token: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	err = r.db.WithContext(ctx).Model(&models.PersonalAccessToken{}).
		Where("token_id = ?", tokenID).
		Update("last_used_at", now).Error
	if err != nil {
		return false, fmt.Errorf("touch token: %w", err)
	}
	return true, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, tokenID string) error {
	defer metrics.ObserveDBQuery("tokens.revoke", time.Now())

	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&models.PersonalAccessToken{}).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Count returns how many tokens userID holds, expired ones included.
func (r *TokenRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PersonalAccessToken{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return n, nil
}

// PruneExpired deletes tokens past their expiry and returns how many went.
func (r *TokenRepository) PruneExpired(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery("tokens.prune", time.Now())

	res := r.db.WithContext(ctx).Where("expires_at <= ?", r.now()).Delete(&models.PersonalAccessToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}

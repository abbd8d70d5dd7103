package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user. A concurrent registration that already took
// the email surfaces as ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("users.create", time.Now())

	err := r.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	var n int64
	if cerr := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error; cerr == nil && n > 0 {
		return ErrEmailTaken
	}
	return fmt.Errorf("create user: %w", err)
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("users.find_by_email", time.Now())
	return r.first(ctx, "email = ?", email)
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.ObserveDBQuery("users.find", time.Now())
	return r.first(ctx, "id = ?", id)
}

// Delete removes the user row. Meals, today entries and tokens go with it
// through the foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("users.delete", time.Now())

	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// UpdateTargetMacros writes only the provided macro columns on the user's
// own row and returns the fresh record.
func (r *UserRepository) UpdateTargetMacros(ctx context.Context, userID uint, fields map[string]any) (*models.User, error) {
	defer metrics.ObserveDBQuery("users.update_macros", time.Now())

	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{ID: userID}).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update target macros of user %d: %w", userID, res.Error)
		}
	}
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

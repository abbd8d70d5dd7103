// Package repositories holds the gorm-backed stores. Every query is scoped to
// the calling user; a row owned by someone else is reported as ErrNotFound,
// exactly like a missing one.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
)

var (
	// ErrNotFound means the row does not exist or belongs to another user.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when a user insert loses a race on the email index.
	ErrEmailTaken = errors.New("email already taken")
)

type ownedRow interface {
	models.Meal | models.Today
}

// findOwned loads the row with id only if its user_id equals userID.
func findOwned[T ownedRow](ctx context.Context, db *gorm.DB, userID, id uint) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find owned %T %d: %w", row, id, err)
	}
	return &row, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// MealRepository handles database operations for a user's meal library.
type MealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

// List returns every meal owned by userID, oldest first.
func (r *MealRepository) List(ctx context.Context, userID uint) ([]models.Meal, error) {
	defer metrics.ObserveDBQuery("meals.list", time.Now())

	meals := []models.Meal{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return meals, nil
}

// Find returns the meal only when userID owns it.
func (r *MealRepository) Find(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	defer metrics.ObserveDBQuery("meals.find", time.Now())
	return findOwned[models.Meal](ctx, r.db, userID, mealID)
}

// Create stores meal under userID. Any id or owner already set on meal is replaced.
func (r *MealRepository) Create(ctx context.Context, userID uint, meal *models.Meal) error {
	defer metrics.ObserveDBQuery("meals.create", time.Now())

	meal.ID = 0
	meal.UserID = userID
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// Update writes only the given columns and returns the fresh row.
func (r *MealRepository) Update(ctx context.Context, userID, mealID uint, fields map[string]any) (*models.Meal, error) {
	defer metrics.ObserveDBQuery("meals.update", time.Now())

	var meal *models.Meal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if meal, err = findOwned[models.Meal](ctx, tx, userID, mealID); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(meal).Updates(fields).Error; err != nil {
			return fmt.Errorf("update meal %d: %w", mealID, err)
		}
		meal, err = findOwned[models.Meal](ctx, tx, userID, mealID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

// Delete removes the meal together with every today entry that references it
// and returns the meal's last state.
func (r *MealRepository) Delete(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	defer metrics.ObserveDBQuery("meals.delete", time.Now())

	var meal *models.Meal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if meal, err = findOwned[models.Meal](ctx, tx, userID, mealID); err != nil {
			return err
		}
		// The FK cascades too; deleting here keeps drivers without FK
		// enforcement consistent.
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.Today{}).Error; err != nil {
			return fmt.Errorf("delete today entries of meal %d: %w", mealID, err)
		}
		if err := tx.Delete(&models.Meal{}, meal.ID).Error; err != nil {
			return fmt.Errorf("delete meal %d: %w", mealID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meal, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
)

// TodayRepository handles database operations for the today list.
type TodayRepository struct {
	db *gorm.DB
}

func NewTodayRepository(db *gorm.DB) *TodayRepository {
	return &TodayRepository{db: db}
}

// List joins the user's entries to their meals. Each item is the meal's
// columns plus the entry's amount.
func (r *TodayRepository) List(ctx context.Context, userID uint) ([]models.TodayItem, error) {
	defer metrics.ObserveDBQuery("todays.list", time.Now())

	items := []models.TodayItem{}
	err := r.db.WithContext(ctx).
		Table("todays").
		Select("meals.*, todays.amount").
		Joins("JOIN meals ON meals.id = todays.meal_id").
		Where("todays.user_id = ?", userID).
		Order("todays.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list today: %w", err)
	}
	return items, nil
}

// Find returns the entry only when userID owns it.
func (r *TodayRepository) Find(ctx context.Context, userID, entryID uint) (*models.Today, error) {
	defer metrics.ObserveDBQuery("todays.find", time.Now())
	return findOwned[models.Today](ctx, r.db, userID, entryID)
}

// AddOrIncrement puts the meal on the user's today list with amount 1, or
// adds 1 to the existing entry. The insert and the increment are a single
// upsert on the (user_id, meal_id) index, so concurrent adds never lose a count.
// Returns ErrNotFound when userID does not own mealID.
func (r *TodayRepository) AddOrIncrement(ctx context.Context, userID, mealID uint) (*models.Today, error) {
	defer metrics.ObserveDBQuery("todays.add", time.Now())

	var entry models.Today
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwned[models.Meal](ctx, tx, userID, mealID); err != nil {
			return err
		}

		row := models.Today{UserID: userID, MealID: mealID, Amount: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "meal_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"amount":     gorm.Expr("todays.amount + ?", 1),
				"updated_at": tx.NowFunc(),
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert today entry for meal %d: %w", mealID, err)
		}

		if err := tx.Where("user_id = ? AND meal_id = ?", userID, mealID).First(&entry).Error; err != nil {
			return fmt.Errorf("reload today entry for meal %d: %w", mealID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TodayIncrements.Inc()
	return &entry, nil
}

// Update overwrites the entry's amount.
func (r *TodayRepository) Update(ctx context.Context, userID, entryID uint, amount float64) (*models.Today, error) {
	defer metrics.ObserveDBQuery("todays.update", time.Now())

	var entry *models.Today
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if entry, err = findOwned[models.Today](ctx, tx, userID, entryID); err != nil {
			return err
		}
		if err := tx.Model(entry).Update("amount", amount).Error; err != nil {
			return fmt.Errorf("update today entry %d: %w", entryID, err)
		}
		entry, err = findOwned[models.Today](ctx, tx, userID, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes one entry and returns its last state.
func (r *TodayRepository) Delete(ctx context.Context, userID, entryID uint) (*models.Today, error) {
	defer metrics.ObserveDBQuery("todays.delete", time.Now())

	var entry *models.Today
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if entry, err = findOwned[models.Today](ctx, tx, userID, entryID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Today{}, entry.ID).Error; err != nil {
			return fmt.Errorf("delete today entry %d: %w", entryID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DropAll clears the user's today list and reports how many entries went.
// It is a no-op on an empty list.
func (r *TodayRepository) DropAll(ctx context.Context, userID uint) (int64, error) {
	defer metrics.ObserveDBQuery("todays.drop", time.Now())

	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Today{})
	if res.Error != nil {
		return 0, fmt.Errorf("drop today list: %w", res.Error)
	}
	return res.RowsAffected, nil
}

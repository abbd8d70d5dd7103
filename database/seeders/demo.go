package seeders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
)

const (
	DemoEmail    = "demo@nutritrack.local"
	DemoPassword = "secret"
	demoMeals    = 5
)

var (
	foodWords = []string{"oats", "rice", "lentils", "yogurt", "banana", "almonds", "paneer", "salmon", "quinoa", "apple", "toast", "omelette"}
	unitWords = []string{"bowl", "cup", "plate", "slice", "piece", "glass", "gram"}
	catWords  = []string{"breakfast", "lunch", "dinner", "snack"}
)

func init() {
	Register("demo user", SeedDemoUser)
	Register("demo meals", SeedDemoMeals)
}

// SeedDemoUser creates demo@nutritrack.local unless it already exists.
func SeedDemoUser(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", DemoEmail).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(&models.User{Name: "Demo", Email: DemoEmail, Password: hash}).Error
}

// SeedDemoMeals adds a handful of random meals to the demo user's library.
func SeedDemoMeals(ctx context.Context, db *gorm.DB) error {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", DemoEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("demo user missing; run the demo user seeder first")
	}
	if err != nil {
		return err
	}

	meals := make([]models.Meal, demoMeals)
	for i := range meals {
		meals[i] = RandomMeal(user.ID)
	}
	return db.WithContext(ctx).Create(&meals).Error
}

// RandomMeal builds a meal with a random name, unit, category and
// three-digit nutrition values.
func RandomMeal(userID uint) models.Meal {
	category := pick(catWords)
	return models.Meal{
		UserID:   userID,
		Name:     pick(foodWords),
		Unit:     pick(unitWords),
		Category: &category,
		Calories: threeDigits(),
		Tfat:     ptr(threeDigits()),
		Sfat:     ptr(threeDigits()),
		Carbs:    ptr(threeDigits()),
		Sugar:    ptr(threeDigits()),
		Protein:  ptr(threeDigits()),
	}
}

func pick(words []string) string { return words[rand.Intn(len(words))] }

func threeDigits() int { return rand.Intn(1000) }

func ptr(v int) *int { return &v }

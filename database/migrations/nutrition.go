package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

func init() {
	migration.Register("2023_12_01_133449_create_meals_table", &CreateMealsTable{})
	migration.Register("2023_12_05_190745_create_todays_table", &CreateTodaysTable{})
}

// -------- meals --------

type CreateMealsTable struct{}

func (m *CreateMealsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Meal{})
}

func (m *CreateMealsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("meals")
}

// -------- todays --------

// The (user_id, meal_id) unique index backs the add-to-today upsert.
type CreateTodaysTable struct{}

func (m *CreateTodaysTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Today{})
}

func (m *CreateTodaysTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("todays")
}

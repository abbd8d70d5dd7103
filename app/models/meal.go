package models

import "time"

// Meal is a food item in a user's library. UserID never changes after create.
type Meal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Unit      string    `gorm:"size:255;not null" json:"unit"`
	Category  *string   `gorm:"size:255" json:"category"`
	Calories  int       `gorm:"not null" json:"calories"`
	Tfat      *int      `json:"tfat"`
	Sfat      *int      `json:"sfat"`
	Carbs     *int      `json:"carbs"`
	Sugar     *int      `json:"sugar"`
	Protein   *int      `json:"protein"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

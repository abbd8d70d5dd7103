package models

import "time"

// Today is one meal on a user's today list. There is at most one row per
// (user_id, meal_id); adding the meal again bumps Amount.
type Today struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_todays_user_meal" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MealID    uint      `gorm:"not null;uniqueIndex:idx_todays_user_meal;index" json:"meal_id"`
	Meal      *Meal     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount    float64   `gorm:"not null;default:1" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Today) TableName() string { return "todays" }

// TodayItem is a today-list row: the meal's columns with the entry's amount.
// ID is the meal id.
type TodayItem struct {
	Meal
	Amount float64 `json:"amount"`
}

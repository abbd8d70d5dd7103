package models

import "time"

// User owns meals, today entries and access tokens. The six target macros
// stay null until the user sets them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Calories  *int      `json:"calories"`
	Tfat      *int      `json:"tfat"`
	Sfat      *int      `json:"sfat"`
	Carbs     *int      `json:"carbs"`
	Sugar     *int      `json:"sugar"`
	Protein   *int      `json:"protein"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

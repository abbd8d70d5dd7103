package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Presence answers "does a row with this column value exist" for the
// validator's unique rule.
type Presence struct {
	db *gorm.DB
}

func NewPresence(db *gorm.DB) *Presence {
	return &Presence{db: db}
}

// Exists counts rows in table where column equals value.
func (p *Presence) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	var n int64
	err := p.db.WithContext(ctx).
		Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("database: presence %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

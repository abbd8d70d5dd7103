package repositories_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "repo.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Rok", Email: email, Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMeal(t *testing.T, db *gorm.DB, userID uint, name string) *models.Meal {
	t.Helper()
	m := &models.Meal{UserID: userID, Name: name, Unit: "Bowl", Calories: 300}
	require.NoError(t, db.Create(m).Error)
	return m
}

func intp(v int) *int { return &v }

var ctx = context.Background()

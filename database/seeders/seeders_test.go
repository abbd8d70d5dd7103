package seeders_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nutritrack/app/models"
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
	"github.com/shashiranjanraj/nutritrack/database/seeders"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

func TestRunAllSeedsDemoData(t *testing.T) {
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "seed.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(context.Background(), db, &out))
	require.NoError(t, seeders.RunAll(context.Background(), db, &out))
	assert.Contains(t, out.String(), "Running seeder: demo user")

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.True(t, auth.CheckPassword(users[0].Password, seeders.DemoPassword))

	var meals int64
	require.NoError(t, db.Model(&models.Meal{}).Where("user_id = ?", users[0].ID).Count(&meals).Error)
	assert.Equal(t, int64(10), meals)
}

func TestRandomMealValues(t *testing.T) {
	for i := 0; i < 50; i++ {
		m := seeders.RandomMeal(3)
		assert.Equal(t, uint(3), m.UserID)
		assert.NotEmpty(t, m.Name)
		assert.GreaterOrEqual(t, m.Calories, 0)
		assert.Less(t, m.Calories, 1000)
		require.NotNil(t, m.Protein)
	}
}

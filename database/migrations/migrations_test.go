package migrations_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nutritrack/app/models"
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

func TestSchemaUpAndDown(t *testing.T) {
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "schema.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	r := migration.New(db, nil)
	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, table := range []string{"users", "personal_access_tokens", "meals", "todays"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Today{}, "idx_todays_user_meal"))

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, db.Migrator().HasTable("users"))
}

package migration_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.Migrator().CreateTable(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addWidgetIndex struct{}

func (addWidgetIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_widgets_name ON widgets (name)").Error
}
func (addWidgetIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_widgets_name").Error
}

func init() {
	// Registered out of order on purpose; the runner sorts by name.
	migration.Register("2024_01_02_000000_add_widget_index", addWidgetIndex{})
	migration.Register("2024_01_01_000000_create_widgets", createWidgets{})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "m.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.Contains(t, out.String(), "Migrated:  2024_01_01_000000_create_widgets")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := r.Status()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024_01_01_000000_create_widgets", rows[0].Name)
	assert.True(t, rows[0].Ran)
	assert.Equal(t, 1, rows[1].Batch)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, db.Migrator().HasTable("widgets"))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRollbackWithNothingRan(t *testing.T) {
	r := migration.New(openDB(t), nil)
	n, err := r.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		migration.Register("2024_01_01_000000_create_widgets", createWidgets{})
	})
}

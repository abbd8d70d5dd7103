package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

func init() {
	migration.Register("2014_10_12_000000_create_users_table", &CreateUsersTable{})
	migration.Register("2019_12_14_000001_create_personal_access_tokens_table", &CreatePersonalAccessTokensTable{})
}

// -------- users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- personal_access_tokens --------

type CreatePersonalAccessTokensTable struct{}

func (m *CreatePersonalAccessTokensTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.PersonalAccessToken{})
}

func (m *CreatePersonalAccessTokensTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("personal_access_tokens")
}

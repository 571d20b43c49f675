// Package storetest opens migrated in-memory databases for tests.
package storetest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
)

// NewDB returns a fresh SQLite database with the schema applied.
// The pool is limited to one connection so every query sees the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// User inserts a user row directly; the password column holds a placeholder, not a usable hash.
func User(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Name: "Test", Password: "!", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

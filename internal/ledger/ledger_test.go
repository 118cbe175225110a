package ledger

import (
	"testing"

	"cash_management/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
// A single connection keeps every query on the same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.AddCash{}, &domain.Expense{}))
	return db
}

// newTestUser inserts a user and returns its ID
func newTestUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	u := domain.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

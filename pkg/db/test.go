package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewTest opens a private in-memory database for tests.
func NewTest() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
}

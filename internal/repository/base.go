package repository

import (
	"minisocial/internal/database"

	"gorm.io/gorm"
)

// readDB returns the read-replica connection when one is configured,
// falling back to the primary otherwise. Reads that must observe their
// own prior writes should use the primary directly.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

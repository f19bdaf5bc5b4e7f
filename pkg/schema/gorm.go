package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&ExportRun{},
		&Sample{},
		&SampleCount{},
	}
}

// ExportTables are tables cleared by a forced export, children first.
func ExportTables() []string {
	return []string{
		SampleCount{}.TableName(),
		Sample{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

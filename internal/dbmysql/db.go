package dbmysql

import (
	"fmt"

	"gorm.io/gorm"
)

// Models lists every table owned by this package in creation order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Message{},
		&DiaryEntry{},
		&LocationShare{},
		&CalendarEvent{},
		&Reminder{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

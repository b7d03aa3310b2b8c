package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes makes sure the lookup indexes exist. Works on every supported driver.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
	}{
		// Owner-scoped listing, newest first
		{&models.Task{}, "idx_tasks_user_created"},
		// Login lookup and email uniqueness
		{&models.User{}, "idx_users_email"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s", idx.name)
	}

	return nil
}

// CaseSensitiveEmails gives users.email a binary collation on MySQL so that
// uniqueness and login lookups compare emails exactly as stored.
// SQLite and Postgres already compare text case-sensitively.
func CaseSensitiveEmails(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if err := db.Exec("ALTER TABLE `users` MODIFY `email` varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").Error; err != nil {
		return fmt.Errorf("failed to set email collation: %w", err)
	}
	return nil
}

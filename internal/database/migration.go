package database

import (
	"fmt"

	"moneybook/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.CashbookEntry{},
		&models.ExpenseCategory{},
		&models.ExpenseItem{},
		&models.Notebook{},
		&models.Note{},
		&models.SpinGroup{},
		&models.Participant{},
		&models.SpinWinner{},
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

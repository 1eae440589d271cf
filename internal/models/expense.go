package models

import "time"

// ExpenseCategory groups line items under a user-defined label.
type ExpenseCategory struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"index;not null" json:"userId"`
	Category  string        `gorm:"size:64;not null" json:"category"`
	Items     []ExpenseItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"expenses"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ExpenseItem has no lifecycle outside its category.
type ExpenseItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"index;not null" json:"categoryId"`
	Title      string    `gorm:"size:128" json:"title"`
	Amount     float64   `gorm:"not null;default:0" json:"amount"`
	Date       time.Time `json:"date"`
}

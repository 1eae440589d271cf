package models

import "time"

type Notebook struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Heading     string    `gorm:"size:255;not null" json:"heading"`
	Description string    `gorm:"type:text" json:"description"`
	Notes       []Note    `gorm:"constraint:OnDelete:CASCADE" json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Note keeps its insertion order via ID; positional updates rely on it.
type Note struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NotebookID uint      `gorm:"index;not null" json:"notebookId"`
	Title      string    `gorm:"size:255" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

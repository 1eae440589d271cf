package models

import "time"

// SpinGroup is a prize group: participants with stakes, a prize pool and
// an append-only history of drawn winners.
type SpinGroup struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"index;not null" json:"userId"`
	Category     string        `gorm:"size:64;not null" json:"category"`
	TotalAmount  float64       `gorm:"not null;default:0" json:"totalAmount"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE" json:"users"`
	Winners      []SpinWinner  `gorm:"constraint:OnDelete:CASCADE" json:"winners"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Participant struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SpinGroupID uint    `gorm:"index;not null" json:"spinGroupId"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Amount      float64 `gorm:"not null;default:0" json:"amount"`
}

// SpinWinner is one draw result. Name and Amount are copied so the record
// survives the participant being removed later.
type SpinWinner struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SpinGroupID   uint      `gorm:"index;not null" json:"spinGroupId"`
	ParticipantID uint      `gorm:"index" json:"participantId"`
	Name          string    `gorm:"size:128" json:"name"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"createdAt"`
}

package models

import "time"

const (
	TxCashIn  = "cash_in"
	TxCashOut = "cash_out"

	StatusPending  = "pending"
	StatusReceived = "received"
	StatusPaid     = "paid"
)

// CashbookEntry is one cash movement. Exactly one of CashIn/CashOut carries
// the amount, chosen by TransactionType; the other stays zero.
type CashbookEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	TransactionType string    `gorm:"size:16;not null" json:"transactionType"`
	CashIn          float64   `gorm:"not null;default:0" json:"cash_in"`
	CashOut         float64   `gorm:"not null;default:0" json:"cash_out"`
	Status          string    `gorm:"size:16;index;not null;default:pending" json:"status"`
	Note            string    `gorm:"size:255" json:"note,omitempty"`
	Date            time.Time `gorm:"index" json:"date"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SplitAmount puts amount on the side selected by txType and zeroes the other.
func (e *CashbookEntry) SplitAmount(txType string, amount float64) {
	e.TransactionType = txType
	if txType == TxCashIn {
		e.CashIn, e.CashOut = amount, 0
		return
	}
	e.CashIn, e.CashOut = 0, amount
}

// Amount returns whichever side is populated.
func (e *CashbookEntry) Amount() float64 {
	if e.TransactionType == TxCashIn {
		return e.CashIn
	}
	return e.CashOut
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cache is the slice of a key/value cache the cashbook summary uses.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

const summaryTTL = 60 * time.Second

type Cashbook struct {
	db    *gorm.DB
	cache Cache
}

// NewCashbook builds the ledger store; cache may be nil.
func NewCashbook(db *gorm.DB, cache Cache) *Cashbook {
	return &Cashbook{db: db, cache: cache}
}

type EntryInput struct {
	Name            string
	TransactionType string
	Amount          float64
	Status          string
	Note            string
	Date            time.Time
}

// EntryPatch holds the fields an update may touch; nil means unchanged.
type EntryPatch struct {
	Name            *string
	TransactionType *string
	Amount          *float64
	Status          *string
}

// View is one of the derived status listings.
type View string

const (
	ViewAwaitingCashIn  View = "cash-in"
	ViewAwaitingCashOut View = "cash-out"
	ViewReceived        View = "cash-received"
	ViewPaid            View = "cash-paid"
)

type Summary struct {
	TotalCashIn  float64 `json:"totalCashIn"`
	TotalCashOut float64 `json:"totalCashOut"`
	Balance      float64 `json:"balance"`
	TotalEntries int64   `json:"totalEntries"`
}

func validTxType(t string) bool {
	return t == models.TxCashIn || t == models.TxCashOut
}

func validStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusReceived, models.StatusPaid:
		return true
	}
	return false
}

func summaryKey(owner uint) string {
	return fmt.Sprintf("cashbook:summary:%d", owner)
}

func (s *Cashbook) Invalidate(ctx context.Context, owner uint) {
	if s.cache != nil {
		s.cache.Delete(ctx, summaryKey(owner))
	}
}

func (s *Cashbook) Create(ctx context.Context, owner uint, in EntryInput) (*models.CashbookEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, util.Invalid("name is required")
	}
	if !validTxType(in.TransactionType) {
		return nil, util.Invalid("transactionType must be cash_in or cash_out")
	}
	if err := util.ValidateAmount(in.Amount); err != nil {
		return nil, util.Invalid("%s", err.Error())
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if !validStatus(in.Status) {
		return nil, util.Invalid("status must be pending, received or paid")
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	entry := models.CashbookEntry{
		UserID: owner,
		Name:   in.Name,
		Status: in.Status,
		Note:   in.Note,
		Date:   in.Date,
	}
	entry.SplitAmount(in.TransactionType, in.Amount)

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create cashbook entry: %w", err)
	}
	s.Invalidate(ctx, owner)
	return &entry, nil
}

func (s *Cashbook) List(ctx context.Context, owner uint) ([]models.CashbookEntry, error) {
	entries := make([]models.CashbookEntry, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list cashbook entries: %w", err)
	}
	return entries, nil
}

func (s *Cashbook) Get(ctx context.Context, owner, id uint) (*models.CashbookEntry, error) {
	if err := checkOwner[models.CashbookEntry](ctx, s.db, id, owner, "cashbook entry"); err != nil {
		return nil, err
	}
	var entry models.CashbookEntry
	if err := scoped(s.db.WithContext(ctx), id, owner).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Cashbook entry not found")
		}
		return nil, fmt.Errorf("get cashbook entry: %w", err)
	}
	return &entry, nil
}

// Update applies patch. The amount (patched or stored) is re-split by the
// patched transaction type, falling back to the stored type.
func (s *Cashbook) Update(ctx context.Context, owner, id uint, patch EntryPatch) (*models.CashbookEntry, error) {
	entry, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, util.Invalid("name must not be empty")
		}
		entry.Name = name
	}
	if patch.Status != nil {
		if !validStatus(*patch.Status) {
			return nil, util.Invalid("status must be pending, received or paid")
		}
		entry.Status = *patch.Status
	}
	txType := entry.TransactionType
	if patch.TransactionType != nil {
		if !validTxType(*patch.TransactionType) {
			return nil, util.Invalid("transactionType must be cash_in or cash_out")
		}
		txType = *patch.TransactionType
	}
	amount := entry.Amount()
	if patch.Amount != nil {
		if err := util.ValidateAmount(*patch.Amount); err != nil {
			return nil, util.Invalid("%s", err.Error())
		}
		amount = *patch.Amount
	}
	entry.SplitAmount(txType, amount)

	res := scoped(s.db.WithContext(ctx).Model(&models.CashbookEntry{}), id, owner).
		Updates(map[string]interface{}{
			"name":             entry.Name,
			"status":           entry.Status,
			"transaction_type": entry.TransactionType,
			"cash_in":          entry.CashIn,
			"cash_out":         entry.CashOut,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update cashbook entry: %w", res.Error)
	}
	s.Invalidate(ctx, owner)
	return s.Get(ctx, owner, id)
}

func (s *Cashbook) Delete(ctx context.Context, owner, id uint) error {
	if err := checkOwner[models.CashbookEntry](ctx, s.db, id, owner, "cashbook entry"); err != nil {
		return err
	}
	if err := scoped(s.db.WithContext(ctx), id, owner).Delete(&models.CashbookEntry{}).Error; err != nil {
		return fmt.Errorf("delete cashbook entry: %w", err)
	}
	s.Invalidate(ctx, owner)
	return nil
}

// View lists the entries of one derived listing, newest first. An empty
// listing is reported as not found.
func (s *Cashbook) View(ctx context.Context, owner uint, view View) ([]models.CashbookEntry, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	var empty string
	switch view {
	case ViewAwaitingCashIn:
		q = q.Where("status = ? AND cash_in > ?", models.StatusPending, 1)
		empty = "No pending cash entries found"
	case ViewAwaitingCashOut:
		q = q.Where("status = ? AND cash_out > ?", models.StatusPending, 1)
		empty = "No cash out records found"
	case ViewReceived:
		q = q.Where("status = ?", models.StatusReceived)
		empty = "Cash received not found"
	case ViewPaid:
		q = q.Where("status = ?", models.StatusPaid)
		empty = "Cash paid not found"
	default:
		return nil, util.Invalid("unknown view %q", view)
	}

	var entries []models.CashbookEntry
	if err := q.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", view, err)
	}
	if len(entries) == 0 {
		return nil, util.NotFound(empty)
	}
	return entries, nil
}

// Summary totals every entry of owner: balance = cash in - cash out.
func (s *Cashbook) Summary(ctx context.Context, owner uint) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		if s.cache.GetJSON(ctx, summaryKey(owner), &cached) {
			return &cached, nil
		}
	}

	var rows []models.CashbookEntry
	if err := s.db.WithContext(ctx).
		Select("cash_in", "cash_out").
		Where("user_id = ?", owner).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load cashbook summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, util.NotFound("No entries found")
	}

	in, out := decimal.Zero, decimal.Zero
	for i := range rows {
		in = in.Add(decimal.NewFromFloat(rows[i].CashIn))
		out = out.Add(decimal.NewFromFloat(rows[i].CashOut))
	}
	sum := &Summary{
		TotalCashIn:  in.InexactFloat64(),
		TotalCashOut: out.InexactFloat64(),
		Balance:      in.Sub(out).InexactFloat64(),
		TotalEntries: int64(len(rows)),
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, summaryKey(owner), sum, summaryTTL)
	}
	return sum, nil
}

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

type Expenses struct {
	db *gorm.DB
}

func NewExpenses(db *gorm.DB) *Expenses {
	return &Expenses{db: db}
}

type ItemInput struct {
	Title  string
	Amount float64
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return util.Invalid("expense title is required")
	}
	if err := util.ValidateAmount(in.Amount); err != nil {
		return util.Invalid("expense %q: %s", in.Title, err.Error())
	}
	return nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// TotalOf sums the item amounts of a category.
func TotalOf(cat *models.ExpenseCategory) float64 {
	total := decimal.Zero
	for i := range cat.Items {
		total = total.Add(decimal.NewFromFloat(cat.Items[i].Amount))
	}
	return total.InexactFloat64()
}

func (s *Expenses) Create(ctx context.Context, owner uint, category string, items []ItemInput) (*models.ExpenseCategory, error) {
	category = strings.TrimSpace(category)
	if err := util.ValidateCategory(category); err != nil {
		return nil, util.Invalid("%s", err.Error())
	}
	if len(items) == 0 {
		return nil, util.Invalid("at least one expense is required")
	}

	now := time.Now()
	cat := models.ExpenseCategory{UserID: owner, Category: category}
	for _, in := range items {
		if err := in.validate(); err != nil {
			return nil, err
		}
		cat.Items = append(cat.Items, models.ExpenseItem{
			Title:  strings.TrimSpace(in.Title),
			Amount: in.Amount,
			Date:   now,
		})
	}

	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create expense category: %w", err)
	}
	return &cat, nil
}

func (s *Expenses) List(ctx context.Context, owner uint) ([]models.ExpenseCategory, error) {
	cats := make([]models.ExpenseCategory, 0)
	if err := preloadItems(s.db.WithContext(ctx)).
		Where("user_id = ?", owner).
		Order("id DESC").
		Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	return cats, nil
}

// Get returns the category with its items and their total.
func (s *Expenses) Get(ctx context.Context, owner, id uint) (*models.ExpenseCategory, float64, error) {
	if err := checkOwner[models.ExpenseCategory](ctx, s.db, id, owner, "expense"); err != nil {
		return nil, 0, err
	}
	var cat models.ExpenseCategory
	if err := preloadItems(scoped(s.db.WithContext(ctx), id, owner)).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.NotFound("Expense not found")
		}
		return nil, 0, fmt.Errorf("get expense category: %w", err)
	}
	return &cat, TotalOf(&cat), nil
}

// itemOwner resolves the owner of a line item through its category.
func (s *Expenses) itemOwner(ctx context.Context, itemID uint) (uint, bool, error) {
	var owners []uint
	err := s.db.WithContext(ctx).
		Table("expense_items").
		Joins("JOIN expense_categories ON expense_categories.id = expense_items.category_id").
		Where("expense_items.id = ?", itemID).
		Limit(1).
		Pluck("expense_categories.user_id", &owners).Error
	if err != nil {
		return 0, false, fmt.Errorf("load expense item owner: %w", err)
	}
	if len(owners) == 0 {
		return 0, false, nil
	}
	return owners[0], true, nil
}

func (s *Expenses) checkItemOwner(ctx context.Context, owner, itemID uint) error {
	got, ok, err := s.itemOwner(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return util.NotFound("Expense not found")
	}
	if got != owner {
		return util.Forbidden("Forbidden: You don't have permission to access this expense")
	}
	return nil
}

// itemScope restricts item queries to items whose category belongs to owner.
func itemScope(db *gorm.DB, itemID, owner uint) *gorm.DB {
	return db.Where("id = ? AND category_id IN (?)", itemID,
		db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ExpenseCategory{}).
			Select("id").
			Where("user_id = ?", owner))
}

// GetItem looks the item up only among owner's categories, so a foreign
// item reads as not found.
func (s *Expenses) GetItem(ctx context.Context, owner, itemID uint) (*models.ExpenseItem, error) {
	var item models.ExpenseItem
	if err := itemScope(s.db.WithContext(ctx), itemID, owner).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Expense not found")
		}
		return nil, fmt.Errorf("get expense item: %w", err)
	}
	return &item, nil
}

func (s *Expenses) AddItem(ctx context.Context, owner, categoryID uint, in ItemInput) (*models.ExpenseCategory, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkOwner[models.ExpenseCategory](ctx, s.db, categoryID, owner, "expense"); err != nil {
		return nil, err
	}
	item := models.ExpenseItem{
		CategoryID: categoryID,
		Title:      strings.TrimSpace(in.Title),
		Amount:     in.Amount,
		Date:       time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("add expense item: %w", err)
	}
	cat, _, err := s.Get(ctx, owner, categoryID)
	return cat, err
}

func (s *Expenses) UpdateItem(ctx context.Context, owner, itemID uint, in ItemInput) (*models.ExpenseItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkItemOwner(ctx, owner, itemID); err != nil {
		return nil, err
	}
	res := itemScope(s.db.WithContext(ctx).Model(&models.ExpenseItem{}), itemID, owner).
		Updates(map[string]interface{}{
			"title":  strings.TrimSpace(in.Title),
			"amount": in.Amount,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update expense item: %w", res.Error)
	}
	return s.GetItem(ctx, owner, itemID)
}

// Delete removes the category and every item under it.
func (s *Expenses) Delete(ctx context.Context, owner, id uint) error {
	if err := checkOwner[models.ExpenseCategory](ctx, s.db, id, owner, "expense"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.ExpenseItem{}).Error; err != nil {
			return fmt.Errorf("delete expense items: %w", err)
		}
		if err := scoped(tx, id, owner).Delete(&models.ExpenseCategory{}).Error; err != nil {
			return fmt.Errorf("delete expense category: %w", err)
		}
		return nil
	})
}

func (s *Expenses) DeleteItem(ctx context.Context, owner, itemID uint) error {
	if err := s.checkItemOwner(ctx, owner, itemID); err != nil {
		return err
	}
	if err := itemScope(s.db.WithContext(ctx), itemID, owner).Delete(&models.ExpenseItem{}).Error; err != nil {
		return fmt.Errorf("delete expense item: %w", err)
	}
	return nil
}

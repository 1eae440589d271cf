package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"gorm.io/gorm"
)

type Notebooks struct {
	db *gorm.DB
}

func NewNotebooks(db *gorm.DB) *Notebooks {
	return &Notebooks{db: db}
}

// NoteInput is a submitted note. ID is zero for new or positional notes.
type NoteInput struct {
	ID      uint
	Title   string
	Content string
}

func preloadNotes(db *gorm.DB) *gorm.DB {
	return db.Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (s *Notebooks) Create(ctx context.Context, owner uint, heading, description string, notes []NoteInput) (*models.Notebook, error) {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return nil, util.Invalid("heading is required")
	}
	nb := models.Notebook{
		UserID:      owner,
		Heading:     heading,
		Description: description,
	}
	for _, n := range notes {
		nb.Notes = append(nb.Notes, models.Note{Title: n.Title, Content: n.Content})
	}
	if err := s.db.WithContext(ctx).Create(&nb).Error; err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}
	return &nb, nil
}

// List returns owner's notebooks; having none is reported as not found.
func (s *Notebooks) List(ctx context.Context, owner uint) ([]models.Notebook, error) {
	var nbs []models.Notebook
	if err := preloadNotes(s.db.WithContext(ctx)).
		Where("user_id = ?", owner).
		Order("id DESC").
		Find(&nbs).Error; err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	if len(nbs) == 0 {
		return nil, util.NotFound("No notebooks found")
	}
	return nbs, nil
}

func (s *Notebooks) Get(ctx context.Context, owner, id uint) (*models.Notebook, error) {
	if err := checkOwner[models.Notebook](ctx, s.db, id, owner, "notebook"); err != nil {
		return nil, err
	}
	var nb models.Notebook
	if err := preloadNotes(scoped(s.db.WithContext(ctx), id, owner)).First(&nb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Notebook not found")
		}
		return nil, fmt.Errorf("get notebook: %w", err)
	}
	return &nb, nil
}

// MergeNotes applies incoming onto stored. A note with an ID replaces the
// stored note of that ID; one without replaces the stored note at the same
// position. Empty incoming fields keep the stored value. Notes are never
// added or removed here.
func MergeNotes(stored []models.Note, incoming []NoteInput) ([]models.Note, error) {
	merged := make([]models.Note, len(stored))
	copy(merged, stored)

	byID := make(map[uint]int, len(merged))
	for i := range merged {
		byID[merged[i].ID] = i
	}

	for pos, in := range incoming {
		idx := pos
		if in.ID != 0 {
			i, ok := byID[in.ID]
			if !ok {
				return nil, util.Invalid("note %d does not belong to this notebook", in.ID)
			}
			idx = i
		} else if pos >= len(merged) {
			return nil, util.Invalid("note %d has no stored counterpart", pos)
		}
		if in.Title != "" {
			merged[idx].Title = in.Title
		}
		if in.Content != "" {
			merged[idx].Content = in.Content
		}
	}
	return merged, nil
}

func (s *Notebooks) Update(ctx context.Context, owner, id uint, heading, description string, notes []NoteInput) (*models.Notebook, error) {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return nil, util.Invalid("heading is required")
	}
	nb, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	merged, err := MergeNotes(nb.Notes, notes)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.Notebook{}), id, owner).
			Updates(map[string]interface{}{
				"heading":     heading,
				"description": description,
			})
		if res.Error != nil {
			return fmt.Errorf("update notebook: %w", res.Error)
		}
		for i := range merged {
			if err := tx.Model(&models.Note{}).
				Where("id = ? AND notebook_id = ?", merged[i].ID, id).
				Updates(map[string]interface{}{
					"title":   merged[i].Title,
					"content": merged[i].Content,
				}).Error; err != nil {
				return fmt.Errorf("update note %d: %w", merged[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, owner, id)
}

func (s *Notebooks) Delete(ctx context.Context, owner, id uint) error {
	if err := checkOwner[models.Notebook](ctx, s.db, id, owner, "notebook"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notebook_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if err := scoped(tx, id, owner).Delete(&models.Notebook{}).Error; err != nil {
			return fmt.Errorf("delete notebook: %w", err)
		}
		return nil
	})
}

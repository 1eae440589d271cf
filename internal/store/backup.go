package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"gorm.io/gorm"
)

// Snapshot is everything one account owns, as written into a backup file.
type Snapshot struct {
	UserID    uint                     `json:"user_id"`
	Created   time.Time                `json:"created"`
	Cashbook  []models.CashbookEntry   `json:"cashbook"`
	Expenses  []models.ExpenseCategory `json:"expenses"`
	Notebooks []models.Notebook        `json:"notebooks"`
	Spins     []models.SpinGroup       `json:"spins"`
}

// Rows counts the top-level records in the snapshot.
func (s *Snapshot) Rows() int {
	return len(s.Cashbook) + len(s.Expenses) + len(s.Notebooks) + len(s.Spins)
}

type Backups struct {
	db *gorm.DB
}

func NewBackups(db *gorm.DB) *Backups {
	return &Backups{db: db}
}

// Record stores the metadata of a written backup file.
func (s *Backups) Record(ctx context.Context, owner uint, fileName, path string, size int64) (*models.Backup, error) {
	b := models.Backup{UserID: owner, FileName: fileName, FilePath: path, Size: size}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return nil, fmt.Errorf("record backup: %w", err)
	}
	return &b, nil
}

func (s *Backups) List(ctx context.Context, owner uint) ([]models.Backup, error) {
	list := make([]models.Backup, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

func (s *Backups) Get(ctx context.Context, owner, id uint) (*models.Backup, error) {
	if err := checkOwner[models.Backup](ctx, s.db, id, owner, "backup"); err != nil {
		return nil, err
	}
	var b models.Backup
	if err := scoped(s.db.WithContext(ctx), id, owner).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Backup not found")
		}
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return &b, nil
}

// Delete removes the record and returns it so the caller can drop the file.
func (s *Backups) Delete(ctx context.Context, owner, id uint) (*models.Backup, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := scoped(s.db.WithContext(ctx), id, owner).Delete(&models.Backup{}).Error; err != nil {
		return nil, fmt.Errorf("delete backup: %w", err)
	}
	return b, nil
}

func (s *Backups) Snapshot(ctx context.Context, owner uint) (*Snapshot, error) {
	snap := &Snapshot{UserID: owner, Created: time.Now()}
	db := s.db.WithContext(ctx)

	if err := db.Where("user_id = ?", owner).Order("id ASC").Find(&snap.Cashbook).Error; err != nil {
		return nil, fmt.Errorf("snapshot cashbook: %w", err)
	}
	if err := preloadItems(db).Where("user_id = ?", owner).Order("id ASC").Find(&snap.Expenses).Error; err != nil {
		return nil, fmt.Errorf("snapshot expenses: %w", err)
	}
	if err := preloadNotes(db).Where("user_id = ?", owner).Order("id ASC").Find(&snap.Notebooks).Error; err != nil {
		return nil, fmt.Errorf("snapshot notebooks: %w", err)
	}
	if err := preloadSpin(db).Where("user_id = ?", owner).Order("id ASC").Find(&snap.Spins).Error; err != nil {
		return nil, fmt.Errorf("snapshot spins: %w", err)
	}
	return snap, nil
}

// Restore replaces owner's data with the snapshot in one transaction.
// Every row gets a fresh primary key and is owned by owner regardless of
// what the snapshot says.
func (s *Backups) Restore(ctx context.Context, owner uint, snap *Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := purge(tx, owner); err != nil {
			return err
		}

		for _, e := range snap.Cashbook {
			e.ID = 0
			e.UserID = owner
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("restore cashbook entry: %w", err)
			}
		}

		for _, cat := range snap.Expenses {
			cat.ID = 0
			cat.UserID = owner
			items := make([]models.ExpenseItem, len(cat.Items))
			for i, it := range cat.Items {
				it.ID, it.CategoryID = 0, 0
				items[i] = it
			}
			cat.Items = items
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("restore expense category: %w", err)
			}
		}

		for _, nb := range snap.Notebooks {
			nb.ID = 0
			nb.UserID = owner
			notes := make([]models.Note, len(nb.Notes))
			for i, n := range nb.Notes {
				n.ID, n.NotebookID = 0, 0
				notes[i] = n
			}
			nb.Notes = notes
			if err := tx.Create(&nb).Error; err != nil {
				return fmt.Errorf("restore notebook: %w", err)
			}
		}

		for _, g := range snap.Spins {
			if err := restoreSpin(tx, owner, g); err != nil {
				return err
			}
		}
		return nil
	})
}

func restoreSpin(tx *gorm.DB, owner uint, g models.SpinGroup) error {
	oldIDs := make([]uint, len(g.Participants))
	participants := make([]models.Participant, len(g.Participants))
	for i, p := range g.Participants {
		oldIDs[i] = p.ID
		p.ID, p.SpinGroupID = 0, 0
		participants[i] = p
	}
	winners := g.Winners

	g.ID = 0
	g.UserID = owner
	g.Participants = participants
	g.Winners = nil
	if err := tx.Create(&g).Error; err != nil {
		return fmt.Errorf("restore spin group: %w", err)
	}

	remap := make(map[uint]uint, len(oldIDs))
	for i, old := range oldIDs {
		remap[old] = g.Participants[i].ID
	}
	for _, w := range winners {
		w.ID = 0
		w.SpinGroupID = g.ID
		w.ParticipantID = remap[w.ParticipantID]
		if err := tx.Create(&w).Error; err != nil {
			return fmt.Errorf("restore spin winner: %w", err)
		}
	}
	return nil
}

// purge deletes every domain row owned by owner, children first.
func purge(tx *gorm.DB, owner uint) error {
	sub := func(model interface{}) *gorm.DB {
		return tx.Session(&gorm.Session{NewDB: true}).Model(model).Select("id").Where("user_id = ?", owner)
	}
	steps := []struct {
		what  string
		query *gorm.DB
		model interface{}
	}{
		{"expense items", tx.Where("category_id IN (?)", sub(&models.ExpenseCategory{})), &models.ExpenseItem{}},
		{"notes", tx.Where("notebook_id IN (?)", sub(&models.Notebook{})), &models.Note{}},
		{"spin winners", tx.Where("spin_group_id IN (?)", sub(&models.SpinGroup{})), &models.SpinWinner{}},
		{"participants", tx.Where("spin_group_id IN (?)", sub(&models.SpinGroup{})), &models.Participant{}},
		{"cashbook entries", tx.Where("user_id = ?", owner), &models.CashbookEntry{}},
		{"expense categories", tx.Where("user_id = ?", owner), &models.ExpenseCategory{}},
		{"notebooks", tx.Where("user_id = ?", owner), &models.Notebook{}},
		{"spin groups", tx.Where("user_id = ?", owner), &models.SpinGroup{}},
	}
	for _, st := range steps {
		if err := st.query.Delete(st.model).Error; err != nil {
			return fmt.Errorf("purge %s: %w", st.what, err)
		}
	}
	return nil
}

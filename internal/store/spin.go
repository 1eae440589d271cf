package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneybook/internal/models"
	"moneybook/internal/spin"
	"moneybook/internal/util"

	"gorm.io/gorm"
)

type Spins struct {
	db       *gorm.DB
	selector *spin.Selector
}

// NewSpins builds the prize-group store; a nil selector draws from the
// global random source.
func NewSpins(db *gorm.DB, selector *spin.Selector) *Spins {
	if selector == nil {
		selector = spin.NewSelector()
	}
	return &Spins{db: db, selector: selector}
}

type ParticipantInput struct {
	ID     uint
	Name   string
	Amount float64
}

func (in ParticipantInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return util.Invalid("participant name is required")
	}
	if err := util.ValidateAmount(in.Amount); err != nil {
		return util.Invalid("participant %q: %s", in.Name, err.Error())
	}
	return nil
}

// DrawResult is the outcome of one winner draw.
type DrawResult struct {
	Winner      models.Participant
	TotalAmount float64
	Winners     int64
}

func preloadSpin(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return db.Preload("Participants", byID).Preload("Winners", byID)
}

func validateGroup(category string, total float64, participants []ParticipantInput) error {
	if err := util.ValidateCategory(category); err != nil {
		return util.Invalid("%s", err.Error())
	}
	if err := util.ValidateAmount(total); err != nil {
		return util.Invalid("totalAmount: %s", err.Error())
	}
	for _, p := range participants {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Create stores a group with its participants. One invalid participant
// rejects the whole group.
func (s *Spins) Create(ctx context.Context, owner uint, category string, total float64, participants []ParticipantInput) (*models.SpinGroup, error) {
	category = strings.TrimSpace(category)
	if err := validateGroup(category, total, participants); err != nil {
		return nil, err
	}
	group := models.SpinGroup{
		UserID:      owner,
		Category:    category,
		TotalAmount: total,
	}
	for _, p := range participants {
		group.Participants = append(group.Participants, models.Participant{
			Name:   strings.TrimSpace(p.Name),
			Amount: p.Amount,
		})
	}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, fmt.Errorf("create spin group: %w", err)
	}
	return &group, nil
}

func (s *Spins) List(ctx context.Context, owner uint) ([]models.SpinGroup, error) {
	groups := make([]models.SpinGroup, 0)
	if err := preloadSpin(s.db.WithContext(ctx)).
		Where("user_id = ?", owner).
		Order("id DESC").
		Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list spin groups: %w", err)
	}
	return groups, nil
}

func (s *Spins) Get(ctx context.Context, owner, id uint) (*models.SpinGroup, error) {
	if err := checkOwner[models.SpinGroup](ctx, s.db, id, owner, "spin group"); err != nil {
		return nil, err
	}
	var group models.SpinGroup
	if err := preloadSpin(scoped(s.db.WithContext(ctx), id, owner)).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Spin group not found")
		}
		return nil, fmt.Errorf("get spin group: %w", err)
	}
	return &group, nil
}

func (s *Spins) AddParticipant(ctx context.Context, owner, groupID uint, in ParticipantInput) (*models.SpinGroup, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkOwner[models.SpinGroup](ctx, s.db, groupID, owner, "spin group"); err != nil {
		return nil, err
	}
	p := models.Participant{
		SpinGroupID: groupID,
		Name:        strings.TrimSpace(in.Name),
		Amount:      in.Amount,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	return s.Get(ctx, owner, groupID)
}

// Update replaces the group's fields and participant set. Submitted
// participants with an ID keep their identity, ones without are created,
// and stored ones that were not submitted are removed.
func (s *Spins) Update(ctx context.Context, owner, id uint, category string, total float64, participants []ParticipantInput) (*models.SpinGroup, error) {
	category = strings.TrimSpace(category)
	if err := validateGroup(category, total, participants); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	stored := make(map[uint]bool, len(current.Participants))
	for _, p := range current.Participants {
		stored[p.ID] = true
	}
	for _, p := range participants {
		if p.ID != 0 && !stored[p.ID] {
			return nil, util.Invalid("participant %d does not belong to this spin group", p.ID)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.SpinGroup{}), id, owner).
			Updates(map[string]interface{}{
				"category":     category,
				"total_amount": total,
			})
		if res.Error != nil {
			return fmt.Errorf("update spin group: %w", res.Error)
		}

		keep := make([]uint, 0, len(participants))
		for _, p := range participants {
			name := strings.TrimSpace(p.Name)
			if p.ID != 0 {
				keep = append(keep, p.ID)
				if err := tx.Model(&models.Participant{}).
					Where("id = ? AND spin_group_id = ?", p.ID, id).
					Updates(map[string]interface{}{"name": name, "amount": p.Amount}).Error; err != nil {
					return fmt.Errorf("update participant %d: %w", p.ID, err)
				}
				continue
			}
			np := models.Participant{SpinGroupID: id, Name: name, Amount: p.Amount}
			if err := tx.Create(&np).Error; err != nil {
				return fmt.Errorf("create participant: %w", err)
			}
			keep = append(keep, np.ID)
		}

		q := tx.Where("spin_group_id = ?", id)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		if err := q.Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("prune participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, owner, id)
}

// Delete removes the group, its participants and its winner history.
func (s *Spins) Delete(ctx context.Context, owner, id uint) error {
	if err := checkOwner[models.SpinGroup](ctx, s.db, id, owner, "spin group"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spin_group_id = ?", id).Delete(&models.SpinWinner{}).Error; err != nil {
			return fmt.Errorf("delete winners: %w", err)
		}
		if err := tx.Where("spin_group_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}
		if err := scoped(tx, id, owner).Delete(&models.SpinGroup{}).Error; err != nil {
			return fmt.Errorf("delete spin group: %w", err)
		}
		return nil
	})
}

func (s *Spins) DeleteParticipant(ctx context.Context, owner, groupID, participantID uint) (*models.SpinGroup, error) {
	if err := checkOwner[models.SpinGroup](ctx, s.db, groupID, owner, "spin group"); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND spin_group_id = ?", participantID, groupID).
		Delete(&models.Participant{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete participant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, util.NotFound("Participant not found in this spin group")
	}
	return s.Get(ctx, owner, groupID)
}

// Draw picks a winner for the group and appends it to the winner history.
// A non-zero chosen records that participant instead of drawing. Draws on
// the same group are not serialized; two concurrent calls both append.
func (s *Spins) Draw(ctx context.Context, owner, groupID, chosen uint) (*DrawResult, error) {
	group, err := s.Get(ctx, owner, groupID)
	if err != nil {
		return nil, err
	}

	var winner models.Participant
	if chosen != 0 {
		winner, err = s.selector.PickByID(group.Participants, chosen)
	} else {
		winner, err = s.selector.Pick(group.Participants)
	}
	if err != nil {
		return nil, err
	}

	result := &DrawResult{Winner: winner, TotalAmount: group.TotalAmount}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := models.SpinWinner{
			SpinGroupID:   groupID,
			ParticipantID: winner.ID,
			Name:          winner.Name,
			Amount:        winner.Amount,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("record winner: %w", err)
		}
		return tx.Model(&models.SpinWinner{}).
			Where("spin_group_id = ?", groupID).
			Count(&result.Winners).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

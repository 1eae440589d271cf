package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

// Create opens a session for userID; its ID becomes the token's jti.
func (s *Sessions) Create(ctx context.Context, userID uint, ttl time.Duration) (*models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Verify fails unless id is a live, unrevoked session of userID.
func (s *Sessions) Verify(ctx context.Context, id string, userID uint) error {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.Unauthenticated("Unauthorized: session not found")
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) {
		return util.Unauthenticated("Unauthorized: session expired")
	}
	return nil
}

func (s *Sessions) Revoke(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Sweep deletes sessions that are revoked or expired as of now.
func (s *Sessions) Sweep(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("revoked = ? OR expires_at < ?", true, now).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

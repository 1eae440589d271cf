package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockoutPeriod   = 10 * time.Minute
)

type Accounts struct {
	db   *gorm.DB
	cost int
	now  func() time.Time
}

func NewAccounts(db *gorm.DB, bcryptCost int) *Accounts {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Accounts{db: db, cost: bcryptCost, now: time.Now}
}

func (s *Accounts) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Accounts) Register(ctx context.Context, fullName, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := util.ValidateEmail(email); err != nil {
		return nil, util.Invalid("Invalid email format")
	}
	if password == "" {
		return nil, util.Invalid("Password is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, util.Invalid("Email already exists")
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks credentials. Five consecutive failures lock the
// account for ten minutes; a success clears the counter and records ip.
func (s *Accounts) Authenticate(ctx context.Context, email, password, ip string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.Unauthenticated("Invalid email or password")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, util.Unauthenticated("Account locked, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["locked_until"] = now.Add(lockoutPeriod)
			updates["failed_login_attempts"] = 0
		}
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		return nil, util.Unauthenticated("Invalid email or password")
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
		"last_login_ip":         ip,
	}).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &user, nil
}

func (s *Accounts) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.Unauthenticated("Unauthorized: user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Accounts) UpdateName(ctx context.Context, id uint, fullName string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, util.Invalid("fullname is required")
	}
	if len([]rune(fullName)) > 128 {
		return nil, util.Invalid("fullname too long, max 128 characters")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("full_name", fullName).Error; err != nil {
		return nil, fmt.Errorf("update name: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Accounts) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return util.Invalid("Current password is incorrect")
	}
	if newPassword == "" {
		return util.Invalid("New password is required")
	}
	if newPassword == oldPassword {
		return util.Invalid("New password must differ from the current one")
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

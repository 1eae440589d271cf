package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"moneybook/internal/config"
	"moneybook/internal/database"
	"moneybook/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{FullName: email, Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// memCache is an in-process Cache for exercising summary caching.
type memCache struct {
	mu      sync.Mutex
	data    map[string]any
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]any{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false
	}
	if s, ok := dst.(*Summary); ok {
		*s = *(v.(*Summary))
	}
	return true
}

func (m *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
}

func (m *memCache) Delete(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deletes++
}

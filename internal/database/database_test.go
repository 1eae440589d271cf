package database

import (
	"path/filepath"
	"testing"

	"moneybook/internal/config"
	"moneybook/internal/models"
)

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		"postgresql://u:p@h:5432/db":            "postgres://u:p@h:5432/db?sslmode=disable",
		"postgres://u:p@h/db?connect_timeout=5": "postgres://u:p@h/db?connect_timeout=5&sslmode=disable",
		"postgres://u:p@h/db?sslmode=require":   "postgres://u:p@h/db?sslmode=require",
		"host=h user=u dbname=db":               "host=h user=u dbname=db",
	}
	for in, want := range cases {
		if got := NormalizeDSN(in); got != want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInit_SQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	for _, m := range []any{&models.User{}, &models.CashbookEntry{}, &models.SpinWinner{}, &models.Note{}} {
		if !db.Migrator().HasTable(m) {
			t.Errorf("table for %T not created", m)
		}
	}

	sqlDB, _ := SQLDB(db)
	sqlDB.Close()
}

func TestInit_UnknownDriver(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("Init() with unknown driver error = nil, want error")
	}
}

func TestInit_PostgresNeedsDSN(t *testing.T) {
	if _, err := Init(config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Error("Init() postgres without dsn error = nil, want error")
	}
}

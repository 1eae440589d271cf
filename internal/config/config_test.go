package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5002 {
		t.Errorf("server.port = %d, want 5002", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database.driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireHours != 360 {
		t.Errorf("jwt.expire_hours = %d, want 360", cfg.JWT.ExpireHours)
	}
	if cfg.Jobs.SessionSweep != "@every 1h" {
		t.Errorf("jobs.session_sweep = %q", cfg.Jobs.SessionSweep)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\njwt:\n  secret: s3cret\n")
	t.Setenv("MB_SERVER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("server.port = %d, want 9100", cfg.Server.Port)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() without jwt.secret error = nil, want error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on missing file error = nil, want error")
	}
}

func TestServerConfig_Production(t *testing.T) {
	if (ServerConfig{Mode: "debug"}).Production() {
		t.Error("debug mode reported as production")
	}
	if !(ServerConfig{Mode: "release"}).Production() {
		t.Error("release mode not reported as production")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.DBName != "courseport" {
		t.Errorf("Database.DBName = %q, want courseport", cfg.Database.DBName)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("Storage.Driver = %q, want local", cfg.Storage.Driver)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != "30s" {
		t.Errorf("cache defaults = %v/%q, want enabled/30s", cfg.Cache.Enabled, cfg.Cache.TTL)
	}
	if cfg.Jobs.CleanupSchedule != "@hourly" || cfg.Jobs.ReminderDays != 3 {
		t.Errorf("job defaults = %q/%d", cfg.Jobs.CleanupSchedule, cfg.Jobs.ReminderDays)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("JOBS_REMINDER_DAYS", "7")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be overridden to false")
	}
	if cfg.Jobs.ReminderDays != 7 {
		t.Errorf("Jobs.ReminderDays = %d, want 7", cfg.Jobs.ReminderDays)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  port: \"3000\"\n  mode: production\ndatabase:\n  dbname: courseport_test\n")
	if err := os.WriteFile(configPath, body, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Server.Port != "3000" || cfg.Server.Mode != "production" {
		t.Errorf("server = %q/%q, want 3000/production", cfg.Server.Port, cfg.Server.Mode)
	}
	if cfg.Database.DBName != "courseport_test" {
		t.Errorf("Database.DBName = %q, want courseport_test", cfg.Database.DBName)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("jwt secret required", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := LoadConfig(missing); err == nil {
			t.Error("LoadConfig() without JWT secret expected error, got nil")
		}
	})

	t.Run("bad cache ttl", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("CACHE_TTL", "often")
		if _, err := LoadConfig(missing); err == nil {
			t.Error("LoadConfig() with bad cache TTL expected error, got nil")
		}
	})

	t.Run("cloudinary requires url", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("STORAGE_DRIVER", "cloudinary")
		if _, err := LoadConfig(missing); err == nil {
			t.Error("LoadConfig() with cloudinary and no URL expected error, got nil")
		}
	})
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "app"
	cfg.Database.Password = "secret"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "courseport"

	got := cfg.GetPostgresConnectionString()
	want := "postgres://app:secret@db:5432/courseport?sslmode=disable"
	if got != want {
		t.Errorf("GetPostgresConnectionString() = %q, want %q", got, want)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != defaultHost || cfg.Port != defaultPort {
		t.Fatalf("expected default host/port, got %q/%d", cfg.Host, cfg.Port)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Fatalf("expected default address, got %q", cfg.Address())
	}
	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Fatalf("expected default database url, got %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.CORSOrigin != defaultCORSOrigin {
		t.Fatalf("expected default cors origin, got %q", cfg.CORSOrigin)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("OXIDGENE_HOST", "10.1.2.3")
	t.Setenv("OXIDGENE_PORT", "9999")
	t.Setenv("OXIDGENE_DATABASE_URL", "postgres://db.internal/oxidgene")
	t.Setenv("OXIDGENE_LOG_LEVEL", "debug")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Address() != "10.1.2.3:9999" {
		t.Fatalf("expected env host and port, got %q", cfg.Address())
	}
	if cfg.DatabaseURL != "postgres://db.internal/oxidgene" {
		t.Fatalf("expected env database url, got %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.LogLevel)
	}
}

func TestLoadReadsConfigFileFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	contents := "host = \"127.0.0.1\"\nport = 4000\ncors_origin = \"https://app.example\"\n"
	if err := os.WriteFile(filepath.Join(dir, "oxidgene.toml"), []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Chdir(dir)

	configViper := NewViper()
	if err := ReadConfigFile(configViper, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Address() != "127.0.0.1:4000" {
		t.Fatalf("expected file host and port, got %q", cfg.Address())
	}
	if cfg.CORSOrigin != "https://app.example" {
		t.Fatalf("expected file cors origin, got %q", cfg.CORSOrigin)
	}
	// Untouched keys keep their defaults.
	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Fatalf("expected default database url, got %q", cfg.DatabaseURL)
	}
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "oxidgene.toml"), []byte("port = 4000\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("OXIDGENE_PORT", "5000")

	configViper := NewViper()
	if err := ReadConfigFile(configViper, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 5000 {
		t.Fatalf("expected env to win over the file, got %d", cfg.Port)
	}
}

func TestReadConfigFileToleratesMissingImplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := ReadConfigFile(NewViper(), ""); err != nil {
		t.Fatalf("expected a missing implicit file to be skipped: %v", err)
	}
}

func TestReadConfigFileRequiresExplicitFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.toml")
	if err := ReadConfigFile(NewViper(), missing); err == nil {
		t.Fatalf("expected an error for a missing explicit file")
	}

	malformed := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(malformed, []byte("port = ["), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if err := ReadConfigFile(NewViper(), malformed); err == nil {
		t.Fatalf("expected an error for a malformed explicit file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	configViper := NewViper()
	configViper.Set("host", "   ")
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected an error for a blank host")
	}

	configViper = NewViper()
	configViper.Set("port", 0)
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected an error for port 0")
	}

	configViper = NewViper()
	configViper.Set("database_url", " ")
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected an error for a blank database url")
	}
}

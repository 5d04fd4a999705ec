package config_test

import (
	"testing"
	"time"

	"github.com/example/quill/internal/config"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Errorf("DefaultTimezone = %q, want UTC", cfg.DefaultTimezone)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	want := &config.Config{
		DefaultProfile:  "marianne",
		DefaultTimezone: "America/New_York",
		ArchiveRoot:     "/tmp/archive",
		VerifyTimeout:   5 * time.Second,
	}
	if err := config.SaveConfig(dir, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := config.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.DefaultProfile != "marianne" {
		t.Errorf("DefaultProfile = %q", got.DefaultProfile)
	}
	if got.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q", got.DefaultTimezone)
	}
	if got.VerifyTimeout != 5*time.Second {
		t.Errorf("VerifyTimeout = %v", got.VerifyTimeout)
	}
}

package utils

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "PRODID", "ICAL_VERSION", "TIMEZONE", "LOG_LEVEL", "METRIC_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetPort() != "8080" {
		t.Errorf("Wrong default port: %s", cfg.GetPort())
	}
	if cfg.GetDatabasePath() != "sqlite.db" {
		t.Errorf("Wrong default database path: %s", cfg.GetDatabasePath())
	}
	if cfg.GetProdID() != "-//vcal//vcal//EN" {
		t.Errorf("Wrong default PRODID: %s", cfg.GetProdID())
	}
	if cfg.GetIcalVersion() != "2.0" {
		t.Errorf("Wrong default version: %s", cfg.GetIcalVersion())
	}
	if cfg.GetLocation() != time.Local {
		t.Errorf("Wrong default location: %s", cfg.GetLocation())
	}
	if cfg.GetLogLevel() != slog.LevelInfo {
		t.Errorf("Wrong default log level: %s", cfg.GetLogLevel())
	}
	if cfg.GetMetricCollectionInterval() != 15*time.Second {
		t.Errorf("Wrong default metric interval: %s", cfg.GetMetricCollectionInterval())
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PRODID", "-//ACME//Planner//EN")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRIC_INTERVAL", "1m")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetPort() != "9000" || cfg.GetProdID() != "-//ACME//Planner//EN" {
		t.Errorf("env not applied: %s %s", cfg.GetPort(), cfg.GetProdID())
	}
	if cfg.GetLocation() != time.UTC {
		t.Errorf("expected UTC, got %s", cfg.GetLocation())
	}
	if cfg.GetLogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.GetLogLevel())
	}
	if cfg.GetMetricCollectionInterval() != time.Minute {
		t.Errorf("expected 1m, got %s", cfg.GetMetricCollectionInterval())
	}
}

func TestNewConfigInvalid(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	t.Setenv("LOG_LEVEL", "chatty")
	t.Setenv("METRIC_INTERVAL", "soon")

	_, err := NewConfig()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, key := range []string{"TIMEZONE", "LOG_LEVEL", "METRIC_INTERVAL"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
		}
	}
}

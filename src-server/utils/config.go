package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level of the default slog handler, set from LOG_LEVEL once the config is read.
var LogLevel = new(slog.LevelVar)

type Config struct {
	port         string
	databasePath string

	prodID      string
	icalVersion string

	location                 *time.Location
	logLevel                 slog.Level
	metricCollectionInterval time.Duration
}

// Read the configuration from the environment (and .env, loaded by main).
func NewConfig() (*Config, error) {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	cfg := &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),
		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return filepath.Clean(databasePath)
		}(),

		prodID: func() string {
			prodID := os.Getenv("PRODID")
			if prodID == "" {
				prodID = "-//vcal//vcal//EN"
			}
			slog.Debug("env", "PRODID", prodID)
			return prodID
		}(),
		icalVersion: func() string {
			icalVersion := os.Getenv("ICAL_VERSION")
			if icalVersion == "" {
				icalVersion = "2.0"
			}
			slog.Debug("env", "ICAL_VERSION", icalVersion)
			return icalVersion
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			switch timezoneStr {
			case "":
				slog.Debug("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				return time.Local
			case "UTC":
				return time.UTC
			}
			loc, err := time.LoadLocation(timezoneStr)
			if err != nil {
				fail("invalid TIMEZONE %q: %s", timezoneStr, err)
				return time.Local
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		logLevel: func() slog.Level {
			logLevel := os.Getenv("LOG_LEVEL")
			if logLevel == "" {
				return slog.LevelInfo
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				fail("invalid LOG_LEVEL %q", logLevel)
				return slog.LevelInfo
			}
			return level
		}(),
		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_INTERVAL")
			if interval == "" {
				interval = "15s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				fail("invalid METRIC_INTERVAL %q", interval)
				return 15 * time.Second
			}
			slog.Debug("env", "METRIC_INTERVAL", interval, "duration", duration)
			return duration
		}(),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("NewConfig: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get PRODID env
func (c *Config) GetProdID() string {
	return c.prodID
}

// Get ICAL_VERSION env, default to 2.0
func (c *Config) GetIcalVersion() string {
	return c.icalVersion
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get LOG_LEVEL env, default to info
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get METRIC_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

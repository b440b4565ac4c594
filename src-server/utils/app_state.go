package utils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"vcal/src-server/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	When   *when.Parser

	AppCloseSignalChan chan os.Signal

	shutdownOnce sync.Once
}

func NewAppState(cfg *Config) *AppState {
	as := &AppState{
		Config:             cfg,
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	return as
}

// Open the sqlite database at DATABASE_PATH and make sure the schema exists.
func (as *AppState) OpenDatabase(ctx context.Context) error {
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, "file:"+as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("(*AppState).OpenDatabase: %w", err)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(ctx, as.BunDB); err != nil {
		return fmt.Errorf("(*AppState).OpenDatabase: %w", err)
	}
	slog.Debug("database ready", "path", as.Config.GetDatabasePath())
	return nil
}

// Release everything the app state holds. Safe to call more than once.
func (as *AppState) GracefulShutdown() {
	as.shutdownOnce.Do(func() {
		if as.BunDB != nil {
			if err := as.BunDB.Close(); err != nil {
				slog.Warn("can't close database", "error", err)
			}
		}
	})
}

package main

import (
	"log/slog"
	"os"
	"time"
	"vcal/src-server/command"
	"vcal/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      utils.LogLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	if err := command.Execute(); err != nil {
		slog.Error("vcal failed", "error", err)
		os.Exit(1)
	}
}

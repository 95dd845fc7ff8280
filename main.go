package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fieldcheck/cli"
)

func main() {
	// Optional .env for local development; absence is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}

	logLevel := slog.LevelWarn
	if os.Getenv("FIELDCHECK_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cli.Execute()
}

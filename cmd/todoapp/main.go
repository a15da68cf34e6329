package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	// bootstrap-логгер (используется только до загрузки конфигурации)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	if err := newRootCmd(bootstrapLogger).ExecuteContext(context.Background()); err != nil {
		bootstrapLogger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

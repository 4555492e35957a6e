package main

import (
	"context"
	"os"

	"pdf-study-assistant/internal/cli"
	"pdf-study-assistant/internal/config"
	"pdf-study-assistant/internal/domain"
	"pdf-study-assistant/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	cli.SetServiceFactory(func(ctx context.Context, opts cli.Options) (domain.StudyService, func(), error) {
		cfg := config.LoadConfig()
		if opts.MinTextLength >= 0 {
			cfg.OCRMinTextLength = opts.MinTextLength
		}
		// stdout carries command output; logs go to stderr
		appLogger := logger.NewLoggerWithWriter(opts.LogLevel, os.Stderr)

		container := config.NewContainerWithConfig(ctx, cfg, appLogger)
		return container.StudyService, func() { _ = container.Close() }, nil
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

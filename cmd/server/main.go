package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/core"
	"github.com/agenthands/graphqa/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using defaults")
	}

	logger, err := core.NewLogger(envOr("LOG_LEVEL", "info"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		logrus.Fatal(err)
	}

	cfg, err := config.Resolve("")
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	kg, err := core.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer kg.Close(ctx)

	if !cfg.Query.AllowMutatingStatements {
		logger.Info("Generated write statements are rejected")
	} else {
		logger.Warn("Generated write statements are allowed; set ALLOW_MUTATING_STATEMENTS=false for untrusted callers")
	}

	if err := kg.BuildIndices(ctx); err != nil {
		logger.WithError(err).Warn("Failed to build indices")
	}

	r := server.NewServer(kg, logger).SetupRouter()

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/driver"
	"github.com/agenthands/graphqa/internal/llm"
)

// Open connects to the configured store and model provider.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*KnowledgeGraph, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		_ = d.Close(ctx)
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	store := driver.NewStore(d, logger.WithField("component", "store"))
	return NewKnowledgeGraph(store, client, cfg, logger), nil
}

// NewLogger builds the process logger from a level name and format ("text" or "json").
func NewLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

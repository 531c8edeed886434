package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/core"
)

var (
	inputDir   = flag.String("input", "", "Directory containing input text files")
	configPath = flag.String("config", "", "Path to the TOML configuration")
	question   = flag.String("ask", "", "Question to answer after ingestion")
	logLevel   = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger, err := core.NewLogger(*logLevel, "text")
	if err != nil {
		logrus.Fatal(err)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using defaults")
	}

	if *inputDir == "" {
		logger.Fatal("Input directory must be specified")
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	texts, err := readInputFiles(*inputDir)
	if err != nil {
		logger.Fatalf("Failed to read input directory: %v", err)
	}
	if len(texts) == 0 {
		logger.Fatal("No input files found")
	}

	ctx := context.Background()
	kg, err := core.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer kg.Close(ctx)

	logger.Infof("Processing %d input files...", len(texts))
	report, err := kg.Ingest(ctx, texts, nil)
	if err != nil {
		logger.Fatalf("Failed to ingest documents: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"nodes":         report.Nodes,
		"relationships": report.Relationships,
		"empty":         report.EmptyDocuments,
	}).Info("Knowledge graph loaded")

	if err := kg.BuildIndices(ctx); err != nil {
		logger.WithError(err).Warn("Failed to build indices")
	}

	if *question != "" {
		answer, err := kg.Ask(ctx, *question)
		if err != nil {
			logger.Fatalf("Failed to answer question: %v", err)
		}
		logger.WithField("statement", answer.Statement).Info(answer.Text)
	}
}

func readInputFiles(dir string) ([]string, error) {
	var texts []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if text := strings.TrimSpace(string(content)); text != "" {
			texts = append(texts, text)
		}
		return nil
	})
	return texts, err
}

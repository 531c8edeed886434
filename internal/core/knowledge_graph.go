package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/core/dedupe"
	"github.com/agenthands/graphqa/internal/core/extraction"
	"github.com/agenthands/graphqa/internal/core/model"
	"github.com/agenthands/graphqa/internal/core/query"
	"github.com/agenthands/graphqa/internal/driver"
	"github.com/agenthands/graphqa/internal/llm"
	"github.com/agenthands/graphqa/internal/metrics"
)

// KnowledgeGraph ties the two pipelines to one store. Ingestion and questions share
// nothing but the store.
type KnowledgeGraph struct {
	Store     *driver.Store
	Extractor *extraction.Extractor
	Chain     *query.Chain
	Load      driver.LoadOptions
	// Extraction is used when Ingest is called without explicit options.
	Extraction extraction.Options
	Logger     logrus.FieldLogger
}

type IngestReport struct {
	Documents      int      `json:"documents"`
	EmptyDocuments int      `json:"empty_documents"`
	Nodes          int      `json:"nodes"`
	Relationships  int      `json:"relationships"`
	Reconciled     int      `json:"reconciled"`
	SourceIDs      []string `json:"source_ids"`
}

func NewKnowledgeGraph(store *driver.Store, llmClient llm.LLMClient, cfg *config.Config, logger logrus.FieldLogger) *KnowledgeGraph {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	extractor := extraction.NewExtractor(llmClient, cfg.Prompts, logger.WithField("component", "extraction"))
	extractor.Timeout = cfg.Timeouts.Model.Duration
	extractor.Concurrency = cfg.Concurrency.BulkIngest

	chain := query.NewChain(store, llmClient, cfg.Prompts, query.NewOptions(cfg), logger.WithField("component", "query"))

	return &KnowledgeGraph{
		Store:     store,
		Extractor: extractor,
		Chain:     chain,
		Load: driver.LoadOptions{
			IncludeSource:   cfg.Extraction.IncludeSource,
			BaseEntityLabel: cfg.Extraction.BaseEntityLabel,
		},
		Extraction: extraction.NewOptions(cfg.Extraction),
		Logger:     logger,
	}
}

// Ingest extracts a graph from every text, merges mentions across the batch and loads
// the result. opts nil means the configured extraction options.
func (k *KnowledgeGraph) Ingest(ctx context.Context, texts []string, opts *extraction.Options) (*IngestReport, error) {
	extractOpts := k.Extraction
	if opts != nil {
		extractOpts = *opts
	}

	docs, err := k.Extractor.ExtractDocuments(ctx, texts, extractOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract documents: %w", err)
	}

	docs, reconciled := dedupe.Reconcile(docs)

	if err := k.Store.AddGraphDocuments(ctx, docs, k.Load); err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	metrics.DocumentsLoaded.Add(float64(len(docs)))

	report := &IngestReport{Documents: len(docs), Reconciled: reconciled}
	for _, doc := range docs {
		if doc.IsEmpty() {
			report.EmptyDocuments++
		}
		report.Nodes += len(doc.Nodes)
		report.Relationships += len(doc.Relationships)
		report.SourceIDs = append(report.SourceIDs, doc.Source.ID)
	}

	k.Logger.WithFields(logrus.Fields{
		"documents":     report.Documents,
		"empty":         report.EmptyDocuments,
		"nodes":         report.Nodes,
		"relationships": report.Relationships,
		"reconciled":    report.Reconciled,
	}).Info("Ingested documents")

	return report, nil
}

func (k *KnowledgeGraph) ExtractionDefaults() extraction.Options {
	return k.Extraction
}

func (k *KnowledgeGraph) Ask(ctx context.Context, question string) (*query.Answer, error) {
	return k.Chain.Run(ctx, question)
}

func (k *KnowledgeGraph) Schema(ctx context.Context) (*model.SchemaDescription, error) {
	return k.Store.DescribeSchema(ctx)
}

func (k *KnowledgeGraph) BuildIndices(ctx context.Context) error {
	return k.Store.BuildIndices(ctx)
}

func (k *KnowledgeGraph) Close(ctx context.Context) error {
	return k.Store.Close(ctx)
}

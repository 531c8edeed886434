package extraction

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/core/model"
	"github.com/agenthands/graphqa/internal/llm"
	"github.com/agenthands/graphqa/internal/metrics"
)

const stage = "extraction"

type Extractor struct {
	LLM     llm.LLMClient
	Prompts config.Prompts
	Logger  logrus.FieldLogger

	// Timeout bounds every model call; zero leaves it to ctx.
	Timeout time.Duration
	// Concurrency caps parallel model calls in ExtractDocuments.
	Concurrency int
}

func NewExtractor(llmClient llm.LLMClient, prompts config.Prompts, logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if prompts.Extraction == "" {
		prompts.Extraction = config.DefaultExtractionPrompt
	}
	return &Extractor{
		LLM:         llmClient,
		Prompts:     prompts,
		Logger:      logger,
		Concurrency: 1,
	}
}

// ExtractDocument turns one text unit into a GraphDocument with a single model call.
// Unreadable model output yields an empty document; only the model call itself can fail.
func (e *Extractor) ExtractDocument(ctx context.Context, text string, opts Options) (*model.GraphDocument, error) {
	source := model.NewSource(text)
	log := e.Logger.WithField("doc_id", source.ID)

	prompt := BuildPrompt(e.Prompts.Extraction, e.Prompts.Instructions, text, opts)

	callCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := e.LLM.Generate(callCtx, prompt)
	metrics.ObserveModelCall(stage, start, err)
	if err != nil {
		return nil, &llm.InvocationError{Stage: stage, Err: err}
	}

	graph, err := ParseResponse(response)
	if err != nil {
		metrics.ExtractionParseFailures.Inc()
		log.WithError(err).Warn("Discarding unparseable extraction output")
		return model.NewGraphDocument(source), nil
	}

	doc, stats := BuildDocument(graph, source, opts)
	metrics.ExtractedElements.WithLabelValues("node", "kept").Add(float64(stats.NodesKept))
	metrics.ExtractedElements.WithLabelValues("node", "dropped").Add(float64(stats.NodesDropped))
	metrics.ExtractedElements.WithLabelValues("relationship", "kept").Add(float64(stats.RelationshipsKept))
	metrics.ExtractedElements.WithLabelValues("relationship", "dropped").Add(float64(stats.RelationshipsDropped))

	log.WithFields(logrus.Fields{
		"nodes":                 len(doc.Nodes),
		"relationships":         len(doc.Relationships),
		"dropped_nodes":         stats.NodesDropped,
		"dropped_relationships": stats.RelationshipsDropped,
	}).Debug("Extracted graph document")

	return doc, nil
}

// ExtractDocuments extracts every text in parallel. The result is index-aligned with texts.
func (e *Extractor) ExtractDocuments(ctx context.Context, texts []string, opts Options) ([]*model.GraphDocument, error) {
	docs := make([]*model.GraphDocument, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	limit := e.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, text := range texts {
		g.Go(func() error {
			doc, err := e.ExtractDocument(gctx, text, opts)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

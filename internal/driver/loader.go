package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/core/model"
)

const defaultBatchSize = 1000

type LoadOptions struct {
	// IncludeSource adds a Document node per source text with MENTIONS edges to its nodes.
	IncludeSource bool
	// BaseEntityLabel adds the __Entity__ label to every loaded node.
	BaseEntityLabel bool
	// BatchSize caps the rows sent with one UNWIND statement.
	BatchSize int
}

// AddGraphDocuments validates and persists docs, one write transaction per document.
// Nodes are merged on id and label so loading the same document twice is a no-op.
func (s *Store) AddGraphDocuments(ctx context.Context, docs []*model.GraphDocument, opts LoadOptions) error {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if err := doc.Validate(); err != nil {
			return err
		}
		if doc.IsEmpty() && !opts.IncludeSource {
			continue
		}

		statements := buildStatements(doc, opts)
		if err := s.driver.ExecuteWrite(ctx, statements); err != nil {
			return classify("", err)
		}
		s.logger.WithFields(logrus.Fields{
			"doc_id":        doc.Source.ID,
			"nodes":         len(doc.Nodes),
			"relationships": len(doc.Relationships),
		}).Debug("Loaded graph document")
	}
	return nil
}

func buildStatements(doc *model.GraphDocument, opts LoadOptions) []Statement {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var statements []Statement

	if opts.IncludeSource {
		statements = append(statements, Statement{
			Query:  mergeSourceQuery,
			Params: map[string]interface{}{"id": doc.Source.ID, "text": doc.Source.Text},
		})
	}

	labels, nodesByLabel := groupNodes(doc.Nodes)
	for _, label := range labels {
		labelExpr := escapeName(label)
		if opts.BaseEntityLabel {
			labelExpr = escapeName(BaseEntityLabel) + ":" + labelExpr
		}
		for _, batch := range chunk(nodesByLabel[label], batchSize) {
			statements = append(statements, Statement{
				Query:  fmt.Sprintf(mergeNodesTemplate, labelExpr),
				Params: map[string]interface{}{"rows": batch},
			})
		}
	}

	keys, relsByKey := groupRelationships(doc.Relationships)
	for _, key := range keys {
		query := fmt.Sprintf(mergeRelationshipsTemplate, escapeName(key.start), escapeName(key.end), escapeName(key.relType))
		for _, batch := range chunk(relsByKey[key], batchSize) {
			statements = append(statements, Statement{
				Query:  query,
				Params: map[string]interface{}{"rows": batch},
			})
		}
	}

	if opts.IncludeSource {
		for _, label := range labels {
			query := fmt.Sprintf(linkSourceTemplate, escapeName(label))
			for _, batch := range chunk(nodesByLabel[label], batchSize) {
				statements = append(statements, Statement{
					Query:  query,
					Params: map[string]interface{}{"id": doc.Source.ID, "rows": batch},
				})
			}
		}
	}

	return statements
}

type relKey struct {
	start, relType, end string
}

func groupNodes(nodes []model.GraphNode) ([]string, map[string][]interface{}) {
	var labels []string
	byLabel := map[string][]interface{}{}
	for _, n := range nodes {
		if _, ok := byLabel[n.Type]; !ok {
			labels = append(labels, n.Type)
		}
		byLabel[n.Type] = append(byLabel[n.Type], map[string]interface{}{
			"id":         n.ID,
			"properties": propertiesOrEmpty(n.Properties),
		})
	}
	return labels, byLabel
}

func groupRelationships(rels []model.GraphRelationship) ([]relKey, map[relKey][]interface{}) {
	var keys []relKey
	byKey := map[relKey][]interface{}{}
	for _, r := range rels {
		key := relKey{start: r.Source.Type, relType: r.Type, end: r.Target.Type}
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], map[string]interface{}{
			"source":     r.Source.ID,
			"target":     r.Target.ID,
			"properties": propertiesOrEmpty(r.Properties),
		})
	}
	return keys, byKey
}

func chunk(rows []interface{}, size int) [][]interface{} {
	var out [][]interface{}
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

func propertiesOrEmpty(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return map[string]interface{}{}
	}
	return props
}

// escapeName quotes a label or relationship type with backticks.
func escapeName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

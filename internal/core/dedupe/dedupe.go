package dedupe

import (
	"strings"

	"github.com/agenthands/graphqa/internal/core/model"
)

// Key folds case and whitespace so "Elon  Musk" and "elon musk" of one type collide.
func Key(n model.GraphNode) model.NodeKey {
	return model.NodeKey{
		ID:   strings.ToLower(strings.Join(strings.Fields(n.ID), " ")),
		Type: n.Type,
	}
}

// Reconcile merges mentions of the same entity across a batch of documents. Node ids are
// rewritten to the first spelling seen for their key, duplicate nodes inside a document
// are folded into one (first value wins per property), and relationships are re-pointed
// and deduplicated. The input documents are not modified. The second result counts the
// nodes whose ids were rewritten.
func Reconcile(docs []*model.GraphDocument) ([]*model.GraphDocument, int) {
	canonical := map[model.NodeKey]string{}
	renamed := 0

	resolve := func(n model.GraphNode) model.GraphNode {
		key := Key(n)
		id, ok := canonical[key]
		if !ok {
			canonical[key] = n.ID
			return n
		}
		n.ID = id
		return n
	}

	out := make([]*model.GraphDocument, len(docs))
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		merged := model.NewGraphDocument(doc.Source)
		index := map[model.NodeKey]int{}

		for _, n := range doc.Nodes {
			original := n.ID
			n = resolve(n)
			if n.ID != original {
				renamed++
			}
			if at, ok := index[n.Key()]; ok {
				merged.Nodes[at] = mergeProperties(merged.Nodes[at], n)
				continue
			}
			index[n.Key()] = len(merged.Nodes)
			merged.Nodes = append(merged.Nodes, n)
		}

		seen := map[string]struct{}{}
		for _, r := range doc.Relationships {
			src, okSrc := index[resolve(r.Source).Key()]
			dst, okDst := index[resolve(r.Target).Key()]
			if !okSrc || !okDst {
				// Dangling relationships are kept as-is so validation still reports them.
				merged.AddRelationship(r)
				continue
			}
			r.Source = merged.Nodes[src]
			r.Target = merged.Nodes[dst]

			sig := r.Source.ID + "\x00" + r.Source.Type + "\x00" + r.Type + "\x00" + r.Target.ID + "\x00" + r.Target.Type
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			merged.AddRelationship(r)
		}
		out[i] = merged
	}
	return out, renamed
}

func mergeProperties(into, from model.GraphNode) model.GraphNode {
	for k, v := range from.Properties {
		if _, ok := into.Properties[k]; !ok {
			into = into.SetProperty(k, v)
		}
	}
	return into
}

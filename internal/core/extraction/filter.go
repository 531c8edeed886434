package extraction

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/agenthands/graphqa/internal/core/model"
)

// FilterStats counts what filtering kept and dropped.
type FilterStats struct {
	NodesKept, NodesDropped                 int
	RelationshipsKept, RelationshipsDropped int
}

// canonicalizer maps loosely spelled types onto their allow-list spelling.
type canonicalizer struct {
	allowed map[string]string
	format  func(string) string
}

func newCanonicalizer(allowed mapset.Set[string], format func(string) string) canonicalizer {
	c := canonicalizer{format: format}
	if isEmpty(allowed) {
		return c
	}
	c.allowed = make(map[string]string, allowed.Cardinality())
	allowed.Each(func(name string) bool {
		c.allowed[normalize(name)] = name
		return false
	})
	return c
}

// resolve returns the canonical type, or false when an allow-list is active and t is not on it.
func (c canonicalizer) resolve(t string) (string, bool) {
	t = strings.TrimSpace(t)
	if t == "" {
		return "", false
	}
	if c.allowed == nil {
		formatted := c.format(t)
		return formatted, formatted != ""
	}
	canonical, ok := c.allowed[normalize(t)]
	return canonical, ok
}

// BuildDocument turns raw model output into a validated GraphDocument. Entries whose
// type is off an active allow-list are dropped, and so is every relationship touching
// a dropped node.
func BuildDocument(graph model.ExtractedGraph, source model.Source, opts Options) (*model.GraphDocument, FilterStats) {
	var stats FilterStats
	doc := model.NewGraphDocument(source)
	nodeTypes := newCanonicalizer(opts.AllowedNodes, formatNodeType)
	relTypes := newCanonicalizer(opts.AllowedRelationships, formatRelationshipType)

	// typeByID lets relationships that omit an endpoint type find the declared node.
	typeByID := map[string]string{}

	for _, n := range graph.Nodes {
		id := strings.TrimSpace(n.ID)
		nodeType, ok := nodeTypes.resolve(n.Type)
		if id == "" || !ok {
			stats.NodesDropped++
			continue
		}
		node := model.NewNode(id, nodeType)
		for k, v := range filterProperties(n.Properties, opts.NodeProperties) {
			if strings.EqualFold(k, model.IDProperty) {
				continue
			}
			node = node.SetProperty(k, v)
		}
		if doc.MergeNode(node) {
			stats.NodesKept++
		}
		if _, seen := typeByID[id]; !seen {
			typeByID[id] = nodeType
		}
	}

	type relKey struct {
		source, target model.NodeKey
		relType        string
	}
	seen := map[relKey]struct{}{}

	for _, r := range graph.Relationships {
		relType, ok := relTypes.resolve(r.Type)
		if !ok {
			stats.RelationshipsDropped++
			continue
		}
		src, okSrc := resolveEndpoint(doc, r.Source, nodeTypes, typeByID, opts.StrictMode, &stats)
		dst, okDst := resolveEndpoint(doc, r.Target, nodeTypes, typeByID, opts.StrictMode, &stats)
		if !okSrc || !okDst {
			stats.RelationshipsDropped++
			continue
		}

		key := relKey{source: src.Key(), target: dst.Key(), relType: relType}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rel := model.NewRelationship(src, dst, relType)
		for k, v := range filterProperties(r.Properties, opts.RelationshipProperties) {
			rel = rel.SetProperty(k, v)
		}
		doc.AddRelationship(rel)
		stats.RelationshipsKept++
	}

	return doc, stats
}

func resolveEndpoint(doc *model.GraphDocument, end model.ExtractedNode, types canonicalizer, typeByID map[string]string, strict bool, stats *FilterStats) (model.GraphNode, bool) {
	id := strings.TrimSpace(end.ID)
	if id == "" {
		return model.GraphNode{}, false
	}

	var nodeType string
	if strings.TrimSpace(end.Type) == "" {
		declared, ok := typeByID[id]
		if !ok {
			return model.GraphNode{}, false
		}
		nodeType = declared
	} else {
		resolved, ok := types.resolve(end.Type)
		if !ok {
			return model.GraphNode{}, false
		}
		nodeType = resolved
	}

	if node, ok := doc.Node(id, nodeType); ok {
		return node, true
	}
	if strict {
		return model.GraphNode{}, false
	}

	node := model.NewNode(id, nodeType)
	doc.AddNode(node)
	typeByID[id] = nodeType
	stats.NodesKept++
	return node, true
}

func filterProperties(props map[string]interface{}, allowed mapset.Set[string]) map[string]interface{} {
	if len(props) == 0 || isEmpty(allowed) {
		return nil
	}
	if acceptsAny(allowed) {
		return props
	}

	byName := make(map[string]string, allowed.Cardinality())
	allowed.Each(func(name string) bool {
		byName[strings.ToLower(name)] = name
		return false
	})

	out := map[string]interface{}{}
	for k, v := range props {
		if canonical, ok := byName[strings.ToLower(k)]; ok {
			out[canonical] = v
		}
	}
	return out
}

// formatNodeType upper-cases the first letter of every word and joins the words.
func formatNodeType(t string) string {
	words := strings.FieldsFunc(t, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// formatRelationshipType renders t as UPPER_SNAKE_CASE.
func formatRelationshipType(t string) string {
	words := strings.FieldsFunc(t, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})
	return strings.ToUpper(strings.Join(words, "_"))
}

func normalize(t string) string {
	var b strings.Builder
	for _, r := range t {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

package extraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agenthands/graphqa/internal/core/common"
	"github.com/agenthands/graphqa/internal/core/model"
)

var errNoGraph = errors.New("response has neither nodes nor relationships")

// ParseError reports model output that could not be read as a graph. It is logged,
// never returned to callers of the pipeline.
type ParseError struct {
	Response string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse extraction output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseResponse reads the model's answer. Accepted shapes are an object with "nodes" and
// "relationships", or a flat list of head/relation/tail triples. Prose and code fences
// around the JSON are ignored.
func ParseResponse(response string) (model.ExtractedGraph, error) {
	raw, err := common.ExtractJSON(response)
	if err != nil {
		return model.ExtractedGraph{}, &ParseError{Response: response, Err: err}
	}

	root := gjson.Parse(raw)
	if root.IsArray() {
		return parseTriples(root), nil
	}

	nodes := root.Get("nodes")
	rels := root.Get("relationships")
	if !nodes.Exists() && !rels.Exists() {
		return model.ExtractedGraph{}, &ParseError{Response: response, Err: errNoGraph}
	}

	graph := model.ExtractedGraph{
		Nodes:         []model.ExtractedNode{},
		Relationships: []model.ExtractedRelationship{},
	}
	nodes.ForEach(func(_, n gjson.Result) bool {
		graph.Nodes = append(graph.Nodes, model.ExtractedNode{
			ID:         n.Get("id").String(),
			Type:       n.Get("type").String(),
			Properties: parseProperties(n.Get("properties")),
		})
		return true
	})
	rels.ForEach(func(_, r gjson.Result) bool {
		graph.Relationships = append(graph.Relationships, model.ExtractedRelationship{
			Source:     parseEndpoint(r, "source"),
			Target:     parseEndpoint(r, "target"),
			Type:       r.Get("type").String(),
			Properties: parseProperties(r.Get("properties")),
		})
		return true
	})
	return graph, nil
}

// parseEndpoint accepts {"source": {"id", "type"}}, {"source": "id", "source_type": ".."}
// and the {"source_node_id", "source_node_type"} form.
func parseEndpoint(r gjson.Result, side string) model.ExtractedNode {
	v := r.Get(side)
	if v.IsObject() {
		return model.ExtractedNode{ID: v.Get("id").String(), Type: v.Get("type").String()}
	}
	if v.Exists() {
		return model.ExtractedNode{ID: v.String(), Type: r.Get(side + "_type").String()}
	}
	return model.ExtractedNode{
		ID:   r.Get(side + "_node_id").String(),
		Type: r.Get(side + "_node_type").String(),
	}
}

func parseTriples(root gjson.Result) model.ExtractedGraph {
	graph := model.ExtractedGraph{
		Nodes:         []model.ExtractedNode{},
		Relationships: []model.ExtractedRelationship{},
	}
	root.ForEach(func(_, t gjson.Result) bool {
		head := model.ExtractedNode{ID: t.Get("head").String(), Type: t.Get("head_type").String()}
		tail := model.ExtractedNode{ID: t.Get("tail").String(), Type: t.Get("tail_type").String()}
		graph.Nodes = append(graph.Nodes, head, tail)
		graph.Relationships = append(graph.Relationships, model.ExtractedRelationship{
			Source: head,
			Target: tail,
			Type:   t.Get("relation").String(),
		})
		return true
	})
	return graph
}

// parseProperties keeps scalar values only. Both {"k": v} and [{"key": k, "value": v}]
// are understood.
func parseProperties(v gjson.Result) map[string]interface{} {
	props := map[string]interface{}{}
	add := func(key string, val gjson.Result) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if scalar, ok := scalarValue(val); ok {
			props[key] = scalar
		}
	}

	switch {
	case v.IsObject():
		v.ForEach(func(k, val gjson.Result) bool {
			add(k.String(), val)
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			add(item.Get("key").String(), item.Get("value"))
			return true
		})
	}

	if len(props) == 0 {
		return nil
	}
	return props
}

func scalarValue(v gjson.Result) (interface{}, bool) {
	switch v.Type {
	case gjson.String:
		return v.String(), true
	case gjson.True, gjson.False:
		return v.Bool(), true
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			return v.Int(), true
		}
		return v.Float(), true
	default:
		return nil, false
	}
}

package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrDanglingRelationship = errors.New("relationship references a node missing from the document")

// sourceNamespace scopes the UUIDv5 ids of source texts.
var sourceNamespace = uuid.MustParse("9b6f1f2e-6d0c-4c38-9d3e-4a5f0f0d2c11")

// Source is the text unit a GraphDocument was extracted from.
type Source struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewSource derives a stable id from the text itself, so re-ingesting the same text
// lands on the same Document node.
func NewSource(text string) Source {
	return Source{
		ID:   uuid.NewSHA1(sourceNamespace, []byte(text)).String(),
		Text: text,
	}
}

type GraphDocument struct {
	Nodes         []GraphNode         `json:"nodes"`
	Relationships []GraphRelationship `json:"relationships"`
	Source        Source              `json:"source"`
}

func NewGraphDocument(source Source) *GraphDocument {
	return &GraphDocument{
		Nodes:         []GraphNode{},
		Relationships: []GraphRelationship{},
		Source:        source,
	}
}

// AddNode appends n unless a node with the same id and type is already present.
// It reports whether the node was added.
func (d *GraphDocument) AddNode(n GraphNode) bool {
	if _, ok := d.Node(n.ID, n.Type); ok {
		return false
	}
	d.Nodes = append(d.Nodes, n)
	return true
}

// MergeNode adds n, or copies the properties of n that the present node lacks.
// It reports whether n was new.
func (d *GraphDocument) MergeNode(n GraphNode) bool {
	for i, existing := range d.Nodes {
		if existing.ID != n.ID || existing.Type != n.Type {
			continue
		}
		for k, v := range n.Properties {
			if _, ok := existing.Properties[k]; !ok {
				existing = existing.SetProperty(k, v)
			}
		}
		d.Nodes[i] = existing
		return false
	}
	d.Nodes = append(d.Nodes, n)
	return true
}

func (d *GraphDocument) AddRelationship(r GraphRelationship) {
	d.Relationships = append(d.Relationships, r)
}

func (d *GraphDocument) Node(id, nodeType string) (GraphNode, bool) {
	for _, n := range d.Nodes {
		if n.ID == id && n.Type == nodeType {
			return n, true
		}
	}
	return GraphNode{}, false
}

func (d *GraphDocument) IsEmpty() bool {
	return len(d.Nodes) == 0 && len(d.Relationships) == 0
}

// Validate checks referential integrity: every relationship endpoint must be a node of d.
func (d *GraphDocument) Validate() error {
	keys := make(map[NodeKey]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" || n.Type == "" {
			return fmt.Errorf("node with empty id or type in document %s", d.Source.ID)
		}
		keys[n.Key()] = struct{}{}
	}
	for _, r := range d.Relationships {
		if r.Type == "" {
			return fmt.Errorf("relationship with empty type in document %s", d.Source.ID)
		}
		for _, end := range []GraphNode{r.Source, r.Target} {
			if _, ok := keys[end.Key()]; !ok {
				return fmt.Errorf("%w: %s(%s) in document %s", ErrDanglingRelationship, end.Type, end.ID, d.Source.ID)
			}
		}
	}
	return nil
}

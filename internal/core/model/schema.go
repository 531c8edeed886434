package model

import (
	"fmt"
	"sort"
	"strings"
)

type Property struct {
	Name string `json:"property"`
	Type string `json:"type"`
}

type RelationshipPattern struct {
	Start string `json:"start"`
	Type  string `json:"type"`
	End   string `json:"end"`
}

// SchemaDescription is a point-in-time snapshot of the store's labels, relationship types
// and property keys. It is rebuilt from the store for every question.
type SchemaDescription struct {
	NodeProperties         map[string][]Property `json:"node_props"`
	RelationshipProperties map[string][]Property `json:"rel_props"`
	Relationships          []RelationshipPattern `json:"relationships"`
}

func NewSchemaDescription() *SchemaDescription {
	return &SchemaDescription{
		NodeProperties:         map[string][]Property{},
		RelationshipProperties: map[string][]Property{},
		Relationships:          []RelationshipPattern{},
	}
}

func (s *SchemaDescription) IsEmpty() bool {
	return len(s.NodeProperties) == 0 && len(s.RelationshipProperties) == 0 && len(s.Relationships) == 0
}

// Filter returns a copy restricted to include (when non-empty) and without exclude.
// Names apply to node labels and relationship types alike.
func (s *SchemaDescription) Filter(include, exclude []string) *SchemaDescription {
	keep := func(name string) bool {
		for _, e := range exclude {
			if e == name {
				return false
			}
		}
		if len(include) == 0 {
			return true
		}
		for _, i := range include {
			if i == name {
				return true
			}
		}
		return false
	}

	out := NewSchemaDescription()
	for label, props := range s.NodeProperties {
		if keep(label) {
			out.NodeProperties[label] = props
		}
	}
	for relType, props := range s.RelationshipProperties {
		if keep(relType) {
			out.RelationshipProperties[relType] = props
		}
	}
	for _, p := range s.Relationships {
		if keep(p.Start) && keep(p.Type) && keep(p.End) {
			out.Relationships = append(out.Relationships, p)
		}
	}
	return out
}

// String renders the schema in the form the Cypher generation prompt expects.
func (s *SchemaDescription) String() string {
	var b strings.Builder

	b.WriteString("Node properties:\n")
	for _, label := range sortedKeys(s.NodeProperties) {
		b.WriteString(formatProperties(label, s.NodeProperties[label]))
	}

	b.WriteString("Relationship properties:\n")
	for _, relType := range sortedKeys(s.RelationshipProperties) {
		b.WriteString(formatProperties(relType, s.RelationshipProperties[relType]))
	}

	b.WriteString("The relationships:\n")
	patterns := append([]RelationshipPattern(nil), s.Relationships...)
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].String() < patterns[j].String()
	})
	for _, p := range patterns {
		b.WriteString(p.String())
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (p RelationshipPattern) String() string {
	return fmt.Sprintf("(:%s)-[:%s]->(:%s)", p.Start, p.Type, p.End)
}

func formatProperties(name string, props []Property) string {
	if len(props) == 0 {
		return name + "\n"
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}
	return fmt.Sprintf("%s {%s}\n", name, strings.Join(parts, ", "))
}

func sortedKeys(m map[string][]Property) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

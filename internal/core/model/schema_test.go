package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func movieSchema() *SchemaDescription {
	s := NewSchemaDescription()
	s.NodeProperties["Person"] = []Property{{Name: "name", Type: "STRING"}}
	s.NodeProperties["Movie"] = []Property{{Name: "title", Type: "STRING"}, {Name: "released", Type: "INTEGER"}}
	s.NodeProperties["Document"] = []Property{{Name: "text", Type: "STRING"}}
	s.RelationshipProperties["ACTED_IN"] = []Property{{Name: "roles", Type: "LIST"}}
	s.Relationships = []RelationshipPattern{
		{Start: "Person", Type: "ACTED_IN", End: "Movie"},
		{Start: "Document", Type: "MENTIONS", End: "Person"},
	}
	return s
}

func TestSchemaString(t *testing.T) {
	expected := `Node properties:
Document {text: STRING}
Movie {title: STRING, released: INTEGER}
Person {name: STRING}
Relationship properties:
ACTED_IN {roles: LIST}
The relationships:
(:Document)-[:MENTIONS]->(:Person)
(:Person)-[:ACTED_IN]->(:Movie)`

	assert.Equal(t, expected, movieSchema().String())
}

func TestSchemaFilter_Exclude(t *testing.T) {
	filtered := movieSchema().Filter(nil, []string{"Document", "MENTIONS"})

	assert.NotContains(t, filtered.NodeProperties, "Document")
	assert.Contains(t, filtered.NodeProperties, "Person")
	assert.Len(t, filtered.Relationships, 1)
	assert.NotContains(t, filtered.String(), "Document")
}

func TestSchemaFilter_Include(t *testing.T) {
	filtered := movieSchema().Filter([]string{"Person", "Movie", "ACTED_IN"}, nil)

	assert.Len(t, filtered.NodeProperties, 2)
	assert.Equal(t, []RelationshipPattern{{Start: "Person", Type: "ACTED_IN", End: "Movie"}}, filtered.Relationships)
}

func TestSchemaEmpty(t *testing.T) {
	s := NewSchemaDescription()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "Node properties:\nRelationship properties:\nThe relationships:", s.String())
}

package extraction

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphqa/internal/core/model"
)

func TestBuildDocument_FormatsTypes(t *testing.T) {
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{
			{ID: "Tom Hanks", Type: "person"},
			{ID: "Toy Story", Type: "animated movie"},
		},
		Relationships: []model.ExtractedRelationship{
			{Source: model.ExtractedNode{ID: "Tom Hanks", Type: "person"}, Target: model.ExtractedNode{ID: "Toy Story", Type: "animated movie"}, Type: "acted in"},
		},
	}

	doc, _ := BuildDocument(graph, model.NewSource("text"), Options{})

	_, ok := doc.Node("Toy Story", "AnimatedMovie")
	assert.True(t, ok)
	_, ok = doc.Node("Tom Hanks", "Person")
	assert.True(t, ok)
	require.Len(t, doc.Relationships, 1)
	assert.Equal(t, "ACTED_IN", doc.Relationships[0].Type)
}

func TestBuildDocument_RelationshipAllowList(t *testing.T) {
	graph := model.ExtractedGraph{
		Relationships: []model.ExtractedRelationship{
			{Source: model.ExtractedNode{ID: "A", Type: "Person"}, Target: model.ExtractedNode{ID: "B", Type: "Person"}, Type: "knows"},
			{Source: model.ExtractedNode{ID: "A", Type: "Person"}, Target: model.ExtractedNode{ID: "B", Type: "Person"}, Type: "HATES"},
		},
	}

	doc, stats := BuildDocument(graph, model.NewSource("text"), Options{AllowedRelationships: mapset.NewSet("KNOWS")})

	require.Len(t, doc.Relationships, 1)
	assert.Equal(t, "KNOWS", doc.Relationships[0].Type)
	assert.Equal(t, 1, stats.RelationshipsDropped)
	assert.NoError(t, doc.Validate())
}

func TestBuildDocument_ImplicitEndpoints(t *testing.T) {
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{{ID: "Elon Musk", Type: "Person"}},
		Relationships: []model.ExtractedRelationship{
			{Source: model.ExtractedNode{ID: "Elon Musk"}, Target: model.ExtractedNode{ID: "SpaceX", Type: "Company"}, Type: "FOUNDED"},
		},
	}

	lenient, _ := BuildDocument(graph, model.NewSource("text"), Options{})
	assert.Len(t, lenient.Nodes, 2)
	require.Len(t, lenient.Relationships, 1)
	assert.Equal(t, "Person", lenient.Relationships[0].Source.Type)
	assert.NoError(t, lenient.Validate())

	strict, stats := BuildDocument(graph, model.NewSource("text"), Options{StrictMode: true})
	assert.Len(t, strict.Nodes, 1)
	assert.Empty(t, strict.Relationships)
	assert.Equal(t, 1, stats.RelationshipsDropped)
}

func TestBuildDocument_PropertyFilter(t *testing.T) {
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{
			{ID: "Tesla", Type: "Company", Properties: map[string]interface{}{"Founded": int64(2003), "ticker": "TSLA"}},
		},
	}
	source := model.NewSource("text")

	none, _ := BuildDocument(graph, source, Options{})
	assert.Nil(t, none.Nodes[0].Properties)

	some, _ := BuildDocument(graph, source, Options{NodeProperties: mapset.NewSet("founded")})
	assert.Equal(t, map[string]interface{}{"founded": int64(2003)}, some.Nodes[0].Properties)

	all, _ := BuildDocument(graph, source, Options{NodeProperties: mapset.NewSet(AnyProperty)})
	assert.Len(t, all.Nodes[0].Properties, 2)
}

func TestBuildDocument_DropsEmptyAndDuplicateEntries(t *testing.T) {
	rel := model.ExtractedRelationship{
		Source: model.ExtractedNode{ID: "A", Type: "Person"},
		Target: model.ExtractedNode{ID: "B", Type: "Person"},
		Type:   "KNOWS",
	}
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{
			{ID: "", Type: "Person"},
			{ID: "A", Type: ""},
			{ID: "A", Type: "Person"},
			{ID: " A ", Type: "Person"},
			{ID: "B", Type: "Person"},
		},
		Relationships: []model.ExtractedRelationship{rel, rel, {Source: rel.Source, Target: rel.Target, Type: "  "}},
	}

	doc, stats := BuildDocument(graph, model.NewSource("text"), Options{})

	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Relationships, 1)
	assert.Equal(t, 2, stats.NodesDropped)
	assert.Equal(t, 1, stats.RelationshipsDropped)
}

func TestBuildDocument_IDPropertyNeverReplacesIdentifier(t *testing.T) {
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{
			{ID: "Tesla", Type: "Company", Properties: map[string]interface{}{"id": "TSLA", "ID": "x", "founded": int64(2003)}},
		},
	}

	for _, allowed := range []mapset.Set[string]{mapset.NewSet(AnyProperty), mapset.NewSet("id", "founded")} {
		doc, _ := BuildDocument(graph, model.NewSource("text"), Options{NodeProperties: allowed})

		node, ok := doc.Node("Tesla", "Company")
		require.True(t, ok)
		assert.Equal(t, map[string]interface{}{"founded": int64(2003)}, node.Properties)
	}
}

func TestBuildDocument_RepeatedMentionMergesProperties(t *testing.T) {
	graph := model.ExtractedGraph{
		Nodes: []model.ExtractedNode{
			{ID: "Tom Hanks", Type: "Person", Properties: map[string]interface{}{"born": int64(1956)}},
			{ID: "Tom Hanks", Type: "Person", Properties: map[string]interface{}{"born": int64(1900), "name": "Thomas"}},
		},
	}

	doc, stats := BuildDocument(graph, model.NewSource("text"), Options{NodeProperties: mapset.NewSet(AnyProperty)})

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, 1, stats.NodesKept)
	assert.Equal(t, map[string]interface{}{"born": int64(1956), "name": "Thomas"}, doc.Nodes[0].Properties)
}

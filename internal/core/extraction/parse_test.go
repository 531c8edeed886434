package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_FencedObject(t *testing.T) {
	response := "Here is the graph:\n```json\n" + muskResponse + "\n```\nLet me know if you need more."

	graph, err := ParseResponse(response)
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Relationships, 1)
	assert.Equal(t, "Person", graph.Relationships[0].Source.Type)
}

func TestParseResponse_Triples(t *testing.T) {
	graph, err := ParseResponse(`[
		{"head": "Tom Hanks", "head_type": "Person", "relation": "ACTED_IN", "tail": "Toy Story", "tail_type": "Movie"}
	]`)
	require.NoError(t, err)

	require.Len(t, graph.Relationships, 1)
	assert.Equal(t, "Tom Hanks", graph.Relationships[0].Source.ID)
	assert.Equal(t, "Movie", graph.Relationships[0].Target.Type)
	assert.Len(t, graph.Nodes, 2)
}

func TestParseResponse_EndpointShapes(t *testing.T) {
	graph, err := ParseResponse(`{
		"nodes": [],
		"relationships": [
			{"source": "Alice", "source_type": "Person", "target": "Bob", "target_type": "Person", "type": "knows"},
			{"source_node_id": "Bob", "source_node_type": "Person", "target_node_id": "Acme", "target_node_type": "Company", "type": "works at"}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, graph.Relationships, 2)

	assert.Equal(t, "Alice", graph.Relationships[0].Source.ID)
	assert.Equal(t, "Person", graph.Relationships[0].Target.Type)
	assert.Equal(t, "Acme", graph.Relationships[1].Target.ID)
	assert.Equal(t, "Company", graph.Relationships[1].Target.Type)
}

func TestParseResponse_Properties(t *testing.T) {
	graph, err := ParseResponse(`{
		"nodes": [
			{"id": "Tesla", "type": "Company", "properties": {"founded": 2003, "valuation": 1.2, "public": true, "ticker": "TSLA", "board": ["a"], "hq": {"city": "Austin"}}},
			{"id": "Elon Musk", "type": "Person", "properties": [{"key": "born", "value": 1971}]}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)

	assert.Equal(t, map[string]interface{}{
		"founded":   int64(2003),
		"valuation": 1.2,
		"public":    true,
		"ticker":    "TSLA",
	}, graph.Nodes[0].Properties)
	assert.Equal(t, map[string]interface{}{"born": int64(1971)}, graph.Nodes[1].Properties)
}

func TestParseResponse_Errors(t *testing.T) {
	cases := map[string]string{
		"prose":       "There are no entities here.",
		"truncated":   `{"nodes": [{"id": "Tesla"`,
		"wrong shape": `{"entities": []}`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse(response)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, response, parseErr.Response)
		})
	}
}

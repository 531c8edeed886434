package driver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ConvertsRecords(t *testing.T) {
	md := &MockDriver{
		MockResult: Records([]string{"actor", "movie"},
			[]interface{}{
				neo4j.Node{Labels: []string{"Person"}, Props: map[string]interface{}{"id": "Tom Hanks"}},
				"Toy Story",
			},
		),
	}
	store := NewStore(md, nil)

	res, err := store.Execute(context.Background(), "MATCH (p:Person)-[:ACTED_IN]->(m:Movie) RETURN p AS actor, m.id AS movie", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"actor", "movie"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, map[string]interface{}{"id": "Tom Hanks"}, res.Rows[0]["actor"])
	assert.Equal(t, "Toy Story", res.Rows[0]["movie"])
	assert.Equal(t, []string{"MATCH (p:Person)-[:ACTED_IN]->(m:Movie) RETURN p AS actor, m.id AS movie"}, md.Queries)
}

func TestExecute_ConvertsTemporal(t *testing.T) {
	released := time.Date(1995, 11, 22, 10, 30, 0, 0, time.UTC)
	md := &MockDriver{
		MockResult: Records([]string{"m.released", "m.updated", "seen", "m"},
			[]interface{}{
				neo4j.Date(released),
				neo4j.LocalDateTime(released),
				released,
				neo4j.Node{Props: map[string]interface{}{"id": "Toy Story", "released": neo4j.Date(released), "runtime": neo4j.DurationOf(0, 0, 4860, 0)}},
			},
		),
	}
	store := NewStore(md, nil)

	res, err := store.Execute(context.Background(), "MATCH (m:Movie) RETURN m.released, m.updated, m", nil)
	require.NoError(t, err)

	row := res.Rows[0]
	assert.Equal(t, "1995-11-22", row["m.released"])
	assert.Equal(t, "1995-11-22T10:30:00", row["m.updated"])
	assert.Equal(t, "1995-11-22T10:30:00Z", row["seen"])
	movie := row["m"].(map[string]interface{})
	assert.Equal(t, "1995-11-22", movie["released"])
	assert.IsType(t, "", movie["runtime"])

	rendered, err := json.Marshal(res.Rows)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), `"m.released":"1995-11-22"`)
	assert.NotContains(t, string(rendered), "{}")
}

func TestExecute_SanitizesLongLists(t *testing.T) {
	long := make([]interface{}, maxListSize+1)
	for i := range long {
		long[i] = int64(i)
	}
	md := &MockDriver{
		MockResult: Records([]string{"n"},
			[]interface{}{neo4j.Node{Props: map[string]interface{}{"id": "a", "embedding": long, "tags": []interface{}{"x"}}}},
		),
	}

	store := NewStore(md, nil)
	res, err := store.Execute(context.Background(), "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "a", "tags": []interface{}{"x"}}, res.Rows[0]["n"])

	store.Sanitize = false
	res, err = store.Execute(context.Background(), "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Len(t, res.Rows[0]["n"].(map[string]interface{})["embedding"], maxListSize+1)
}

func TestExecute_QueryError(t *testing.T) {
	md := &MockDriver{Err: errors.New("Invalid input 'RETRN'")}
	store := NewStore(md, nil)

	_, err := store.Execute(context.Background(), "MATCH (n) RETRN n", nil)
	require.Error(t, err)

	var queryErr *QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "MATCH (n) RETRN n", queryErr.Statement)
	assert.Contains(t, err.Error(), "RETRN")
}

func TestExecute_ConnectionError(t *testing.T) {
	cases := map[string]error{
		"deadline":     context.DeadlineExceeded,
		"unauthorized": &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized", Msg: "bad credentials"},
	}
	for name, cause := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewStore(&MockDriver{Err: cause}, nil)

			_, err := store.Execute(context.Background(), "RETURN 1", nil)

			var connErr *ConnectionError
			require.True(t, errors.As(err, &connErr))
			assert.True(t, errors.Is(err, cause))
		})
	}
}

func TestNodeByID(t *testing.T) {
	md := &MockDriver{
		MockResult: Records([]string{"n"},
			[]interface{}{neo4j.Node{Labels: []string{"Company"}, Props: map[string]interface{}{"id": "Tesla", "founded": int64(2003)}}},
		),
	}
	store := NewStore(md, nil)

	props, err := store.NodeByID(context.Background(), "Company", "Tesla")
	require.NoError(t, err)
	assert.Equal(t, int64(2003), props["founded"])

	require.Len(t, md.Queries, 1)
	assert.Contains(t, md.Queries[0], "Company")
	assert.Contains(t, valuesOf(md.Params[0]), "Tesla")
}

func TestNodeByID_NotFound(t *testing.T) {
	store := NewStore(&MockDriver{}, nil)

	_, err := store.NodeByID(context.Background(), "Company", "Rivian")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNodeByID_RejectsUnsafeLabel(t *testing.T) {
	md := &MockDriver{}
	store := NewStore(md, nil)

	_, err := store.NodeByID(context.Background(), "Company) DETACH DELETE (x", "Tesla")
	assert.Error(t, err)
	assert.Zero(t, md.Calls())
}

func TestBuildIndices(t *testing.T) {
	md := &MockDriver{
		Results: map[string]neo4j.EagerResult{
			NodePropertiesQuery: Records([]string{"label", "key", "sample"},
				[]interface{}{"Person", "id", "Elon Musk"},
			),
		},
	}
	store := NewStore(md, nil)

	require.NoError(t, store.BuildIndices(context.Background()))
	assert.Contains(t, md.Queries, "CREATE INDEX IF NOT EXISTS FOR (n:`Person`) ON (n.id)")
}

func valuesOf(params map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(params))
	for _, v := range params {
		out = append(out, v)
	}
	return out
}

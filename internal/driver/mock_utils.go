package driver

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MockDriver records every call and answers from canned results.
type MockDriver struct {
	mu sync.Mutex

	// Results maps an exact query string to its result; MockResult answers the rest.
	Results    map[string]neo4j.EagerResult
	MockResult neo4j.EagerResult
	Err        error
	WriteErr   error

	Queries []string
	Params  []map[string]interface{}
	Writes  [][]Statement
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if res, ok := m.Results[query]; ok {
		return res, nil
	}
	return m.MockResult, nil
}

func (m *MockDriver) ExecuteWrite(ctx context.Context, statements []Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Writes = append(m.Writes, statements)
	return m.WriteErr
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

// Calls reports how many reads and write transactions reached the driver.
func (m *MockDriver) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries) + len(m.Writes)
}

// Records builds an eager result with one record per row.
func Records(keys []string, rows ...[]interface{}) neo4j.EagerResult {
	res := neo4j.EagerResult{Keys: keys}
	for _, row := range rows {
		res.Records = append(res.Records, &neo4j.Record{Keys: keys, Values: row})
	}
	return res
}

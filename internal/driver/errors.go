package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var ErrNodeNotFound = errors.New("node not found")

// ConnectionError means the store is unreachable or rejected the credentials.
type ConnectionError struct {
	URI string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("graph store connection failed: %v", e.Err)
	}
	return fmt.Sprintf("graph store connection to %s failed: %v", e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError carries the offending statement of a malformed or constraint-violating query.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v\nStatement: %s", e.Err, e.Statement)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// classify maps a driver error onto ConnectionError or QueryError.
func classify(statement string, err error) error {
	if err == nil {
		return nil
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	if isConnectionFailure(err) {
		return &ConnectionError{Err: err}
	}

	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return err
	}
	return &QueryError{Statement: statement, Err: err}
}

func isConnectionFailure(err error) bool {
	if neo4j.IsConnectivityError(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security.")
	}
	return false
}

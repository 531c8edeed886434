package driver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/core/model"
)

// BaseEntityLabel is the extra label the loader can put on every extracted node.
const BaseEntityLabel = "__Entity__"

// identifierPattern is what the statement builder accepts as a label without quoting.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is the graph store adapter used by both pipelines.
type Store struct {
	driver GraphDriver
	logger logrus.FieldLogger

	// Sanitize drops list values longer than 128 elements from results.
	Sanitize bool
}

func NewStore(d GraphDriver, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{driver: d, logger: logger, Sanitize: true}
}

// Execute runs statement verbatim. Read and write statements are both accepted; any
// policy check happens before this call.
func (s *Store) Execute(ctx context.Context, statement string, params map[string]interface{}) (*model.QueryResult, error) {
	res, err := s.driver.ExecuteQuery(ctx, statement, params)
	if err != nil {
		return nil, classify(statement, err)
	}
	return toQueryResult(res, s.Sanitize), nil
}

// NodeByID fetches the properties of the node with the given label and id.
func (s *Store) NodeByID(ctx context.Context, label, id string) (map[string]interface{}, error) {
	if !identifierPattern.MatchString(label) {
		return nil, fmt.Errorf("invalid label %q", label)
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", label).WithProperties(map[string]interface{}{"id": id})).
		Return("n").
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build node lookup: %w", err)
	}

	res, err := s.driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, classify(query, err)
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: %s(%s)", ErrNodeNotFound, label, id)
	}

	value, ok := res.Records[0].Get("n")
	if !ok {
		return nil, fmt.Errorf("%w: %s(%s)", ErrNodeNotFound, label, id)
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected value %T for node lookup", value)
	}
	return node.Props, nil
}

// BuildIndices creates an index on id for every node label currently in the store.
// Failures are logged and skipped.
func (s *Store) BuildIndices(ctx context.Context) error {
	schema, err := s.DescribeSchema(ctx)
	if err != nil {
		return err
	}

	for label := range schema.NodeProperties {
		escaped := escapeName(label)
		if _, err := s.driver.ExecuteQuery(ctx, fmt.Sprintf(createIndexTemplate, escaped), nil); err == nil {
			continue
		}
		if _, err := s.driver.ExecuteQuery(ctx, fmt.Sprintf(createMemgraphIndexTemplate, escaped), nil); err != nil {
			s.logger.WithError(err).WithField("label", label).Warn("Failed to create index")
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

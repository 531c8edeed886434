package driver

import (
	"context"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/graphqa/internal/core/model"
)

// DescribeSchema introspects the store on every call. Labels used only for bookkeeping
// (the base entity label) are left out of the description.
func (s *Store) DescribeSchema(ctx context.Context) (*model.SchemaDescription, error) {
	schema := model.NewSchemaDescription()

	nodeRes, err := s.driver.ExecuteQuery(ctx, NodePropertiesQuery, nil)
	if err != nil {
		return nil, classify(NodePropertiesQuery, err)
	}
	collectProperties(nodeRes, "label", schema.NodeProperties)

	relRes, err := s.driver.ExecuteQuery(ctx, RelationshipPropertiesQuery, nil)
	if err != nil {
		return nil, classify(RelationshipPropertiesQuery, err)
	}
	collectProperties(relRes, "rel_type", schema.RelationshipProperties)

	patternRes, err := s.driver.ExecuteQuery(ctx, RelationshipPatternsQuery, nil)
	if err != nil {
		return nil, classify(RelationshipPatternsQuery, err)
	}
	for _, rec := range patternRes.Records {
		start, _ := stringValue(rec, "start_label")
		relType, _ := stringValue(rec, "rel_type")
		end, _ := stringValue(rec, "end_label")
		if start == "" || relType == "" || end == "" || start == BaseEntityLabel || end == BaseEntityLabel {
			continue
		}
		schema.Relationships = append(schema.Relationships, model.RelationshipPattern{
			Start: start,
			Type:  relType,
			End:   end,
		})
	}

	// Relationship types without properties still belong to the schema.
	for _, p := range schema.Relationships {
		if _, ok := schema.RelationshipProperties[p.Type]; !ok {
			schema.RelationshipProperties[p.Type] = nil
		}
	}

	return schema, nil
}

func collectProperties(res neo4j.EagerResult, nameKey string, into map[string][]model.Property) {
	for _, rec := range res.Records {
		name, ok := stringValue(rec, nameKey)
		if !ok || name == "" || name == BaseEntityLabel {
			continue
		}
		if _, seen := into[name]; !seen {
			into[name] = nil
		}

		key, ok := stringValue(rec, "key")
		if !ok || key == "" {
			continue
		}
		sample, _ := rec.Get("sample")
		into[name] = append(into[name], model.Property{Name: key, Type: inferType(sample)})
	}

	for name, props := range into {
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
		into[name] = props
	}
}

func stringValue(rec *neo4j.Record, key string) (string, bool) {
	if rec == nil {
		return "", false
	}
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// inferType names the Cypher type of a sample value.
func inferType(v interface{}) string {
	switch v.(type) {
	case string:
		return "STRING"
	case int64, int, int32:
		return "INTEGER"
	case float64, float32:
		return "FLOAT"
	case bool:
		return "BOOLEAN"
	case []interface{}:
		return "LIST"
	case map[string]interface{}:
		return "MAP"
	case neo4j.Date:
		return "DATE"
	case neo4j.LocalDateTime:
		return "LOCAL_DATE_TIME"
	case neo4j.LocalTime:
		return "LOCAL_TIME"
	case neo4j.Time:
		return "TIME"
	case time.Time:
		return "DATE_TIME"
	case neo4j.Duration:
		return "DURATION"
	case neo4j.Point2D, neo4j.Point3D:
		return "POINT"
	default:
		return "STRING"
	}
}

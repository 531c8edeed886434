package driver

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/graphqa/internal/core/model"
)

// maxListSize bounds list values kept in results handed to the model.
const maxListSize = 128

func toQueryResult(res neo4j.EagerResult, sanitize bool) *model.QueryResult {
	out := &model.QueryResult{
		Columns: res.Keys,
		Rows:    make([]model.Row, 0, len(res.Records)),
	}
	for _, rec := range res.Records {
		if rec == nil {
			continue
		}
		row := make(model.Row, len(rec.Keys))
		for i, key := range rec.Keys {
			if i >= len(rec.Values) {
				break
			}
			if v, keep := convertValue(rec.Values[i], sanitize); keep {
				row[key] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if len(out.Columns) == 0 && len(res.Records) > 0 && res.Records[0] != nil {
		out.Columns = res.Records[0].Keys
	}
	return out
}

// convertValue turns graph entities into plain maps and temporal values into ISO-8601
// strings. With sanitize set, oversized lists are dropped and keep is false.
func convertValue(v interface{}, sanitize bool) (interface{}, bool) {
	switch val := v.(type) {
	case neo4j.Node:
		return convertMap(val.Props, sanitize), true
	case neo4j.Relationship:
		return convertMap(val.Props, sanitize), true
	case neo4j.Path:
		nodes := make([]interface{}, 0, len(val.Nodes))
		for _, n := range val.Nodes {
			nodes = append(nodes, convertMap(n.Props, sanitize))
		}
		rels := make([]interface{}, 0, len(val.Relationships))
		for _, r := range val.Relationships {
			rels = append(rels, map[string]interface{}{
				"type":       r.Type,
				"properties": convertMap(r.Props, sanitize),
			})
		}
		return map[string]interface{}{"nodes": nodes, "relationships": rels}, true
	case neo4j.Date, neo4j.LocalDateTime, neo4j.LocalTime, neo4j.Time, neo4j.Duration:
		return val.(fmt.Stringer).String(), true
	case time.Time:
		return val.Format(time.RFC3339Nano), true
	case map[string]interface{}:
		return convertMap(val, sanitize), true
	case []interface{}:
		if sanitize && len(val) > maxListSize {
			return nil, false
		}
		out := make([]interface{}, 0, len(val))
		for _, item := range val {
			if c, keep := convertValue(item, sanitize); keep {
				out = append(out, c)
			}
		}
		return out, true
	default:
		return v, true
	}
}

func convertMap(m map[string]interface{}, sanitize bool) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if c, keep := convertValue(v, sanitize); keep {
			out[k] = c
		}
	}
	return out
}

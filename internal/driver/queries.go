package driver

// Introspection uses plain Cypher so it runs unchanged on Neo4j and Memgraph.
const (
	NodePropertiesQuery = `
		MATCH (n)
		UNWIND labels(n) AS label
		UNWIND CASE WHEN size(keys(n)) = 0 THEN [null] ELSE keys(n) END AS key
		WITH label, key, CASE WHEN key IS NULL THEN null ELSE n[key] END AS value
		RETURN label, key, head(collect(value)) AS sample
	`

	RelationshipPropertiesQuery = `
		MATCH ()-[r]->()
		UNWIND keys(r) AS key
		WITH type(r) AS rel_type, key, r[key] AS value
		RETURN rel_type, key, head(collect(value)) AS sample
	`

	RelationshipPatternsQuery = `
		MATCH (a)-[r]->(b)
		UNWIND labels(a) AS start_label
		UNWIND labels(b) AS end_label
		RETURN DISTINCT start_label, type(r) AS rel_type, end_label
	`
)

// Templates for the loader. %s slots receive escaped labels and types only; all values
// travel as parameters.
const (
	mergeNodesTemplate = `
		UNWIND $rows AS row
		MERGE (n:%s {id: row.id})
		SET n += row.properties, n.id = row.id
	`

	mergeRelationshipsTemplate = `
		UNWIND $rows AS row
		MATCH (s:%s {id: row.source})
		MATCH (t:%s {id: row.target})
		MERGE (s)-[r:%s]->(t)
		SET r += row.properties
	`

	mergeSourceQuery = `
		MERGE (d:Document {id: $id})
		SET d.text = $text
	`

	linkSourceTemplate = `
		MATCH (d:Document {id: $id})
		UNWIND $rows AS row
		MATCH (n:%s {id: row.id})
		MERGE (d)-[:MENTIONS]->(n)
	`

	createIndexTemplate         = "CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.id)"
	createMemgraphIndexTemplate = "CREATE INDEX ON :%s(id)"
)

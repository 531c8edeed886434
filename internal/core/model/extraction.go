package model

// ExtractedNode is a node as emitted by the model, before allow-list filtering.
type ExtractedNode struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type ExtractedRelationship struct {
	Source     ExtractedNode          `json:"source"`
	Target     ExtractedNode          `json:"target"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type ExtractedGraph struct {
	Nodes         []ExtractedNode         `json:"nodes"`
	Relationships []ExtractedRelationship `json:"relationships"`
}

// ExtractedTriple is the flat head/relation/tail shape some models answer with.
type ExtractedTriple struct {
	Head     string `json:"head"`
	HeadType string `json:"head_type"`
	Relation string `json:"relation"`
	Tail     string `json:"tail"`
	TailType string `json:"tail_type"`
}

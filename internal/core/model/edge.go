package model

type GraphRelationship struct {
	Source     GraphNode              `json:"source"`
	Target     GraphNode              `json:"target"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

func NewRelationship(source, target GraphNode, relType string) GraphRelationship {
	return GraphRelationship{
		Source: source,
		Target: target,
		Type:   relType,
	}
}

func (r GraphRelationship) SetProperty(key string, value interface{}) GraphRelationship {
	props := make(map[string]interface{}, len(r.Properties)+1)
	for k, v := range r.Properties {
		props[k] = v
	}
	props[key] = value
	r.Properties = props
	return r
}

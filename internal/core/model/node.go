package model

import "strings"

// IDProperty is the store property that carries a node's identifier. Extracted
// properties never use it.
const IDProperty = "id"

// GraphNode is a typed entity extracted from one text unit.
type GraphNode struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

func NewNode(id, nodeType string) GraphNode {
	return GraphNode{
		ID:   strings.TrimSpace(id),
		Type: strings.TrimSpace(nodeType),
	}
}

// SetProperty returns a copy of the node with key set.
// Nodes are shared between a document and its relationships, so they are never mutated in place.
func (n GraphNode) SetProperty(key string, value interface{}) GraphNode {
	props := make(map[string]interface{}, len(n.Properties)+1)
	for k, v := range n.Properties {
		props[k] = v
	}
	props[key] = value
	n.Properties = props
	return n
}

// Key identifies a node inside a document and in the store.
func (n GraphNode) Key() NodeKey {
	return NodeKey{ID: n.ID, Type: n.Type}
}

type NodeKey struct {
	ID   string
	Type string
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_StableID(t *testing.T) {
	a := NewSource("Elon Musk is the CEO of Tesla")
	b := NewSource("Elon Musk is the CEO of Tesla")
	c := NewSource("Tom Hanks acted in Toy Story")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "Elon Musk is the CEO of Tesla", a.Text)
}

func TestAddNode_Deduplicates(t *testing.T) {
	doc := NewGraphDocument(NewSource("text"))

	assert.True(t, doc.AddNode(NewNode("Tesla", "Company")))
	assert.False(t, doc.AddNode(NewNode("Tesla", "Company")))
	// Same id under another type is a different node.
	assert.True(t, doc.AddNode(NewNode("Tesla", "Person")))
	assert.Len(t, doc.Nodes, 2)
}

func TestMergeNode_FillsMissingProperties(t *testing.T) {
	doc := NewGraphDocument(NewSource("text"))
	first := NewNode("Tesla", "Company").SetProperty("founded", int64(2003))

	assert.True(t, doc.MergeNode(first))
	assert.False(t, doc.MergeNode(NewNode("Tesla", "Company").SetProperty("founded", int64(1999)).SetProperty("hq", "Austin")))

	assert.Len(t, doc.Nodes, 1)
	assert.Equal(t, map[string]interface{}{"founded": int64(2003), "hq": "Austin"}, doc.Nodes[0].Properties)
	// The node passed in first is not changed.
	assert.Len(t, first.Properties, 1)
}

func TestSetProperty_DoesNotMutate(t *testing.T) {
	n := NewNode("Tesla", "Company")
	withFounded := n.SetProperty("founded", int64(2003))

	assert.Nil(t, n.Properties)
	assert.Equal(t, int64(2003), withFounded.Properties["founded"])
}

func TestValidate(t *testing.T) {
	musk := NewNode("Elon Musk", "Person")
	tesla := NewNode("Tesla", "Company")

	doc := NewGraphDocument(NewSource("Elon Musk is the CEO of Tesla"))
	doc.AddNode(musk)
	doc.AddNode(tesla)
	doc.AddRelationship(NewRelationship(musk, tesla, "CEO_OF"))
	require.NoError(t, doc.Validate())

	doc.AddRelationship(NewRelationship(musk, NewNode("SpaceX", "Company"), "CEO_OF"))
	err := doc.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingRelationship)
	assert.Contains(t, err.Error(), "SpaceX")
}

func TestValidate_EmptyType(t *testing.T) {
	doc := NewGraphDocument(NewSource("x"))
	doc.AddNode(GraphNode{ID: "x"})
	assert.Error(t, doc.Validate())
}

func TestQueryResult_Truncate(t *testing.T) {
	r := &QueryResult{Columns: []string{"n"}, Rows: []Row{{"n": 1}, {"n": 2}, {"n": 3}}}

	assert.Len(t, r.Truncate(2).Rows, 2)
	assert.Len(t, r.Truncate(0).Rows, 3)
	assert.Len(t, r.Truncate(10).Rows, 3)

	var empty *QueryResult
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Truncate(3).IsEmpty())
}

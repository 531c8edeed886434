package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphqa/internal/core/model"
)

func TestReconcile_AcrossDocuments(t *testing.T) {
	first := model.NewGraphDocument(model.NewSource("Elon Musk is the CEO of Tesla"))
	musk := model.NewNode("Elon Musk", "Person")
	tesla := model.NewNode("Tesla", "Company")
	first.AddNode(musk)
	first.AddNode(tesla)
	first.AddRelationship(model.NewRelationship(musk, tesla, "CEO_OF"))

	second := model.NewGraphDocument(model.NewSource("elon  musk founded SpaceX"))
	muskLower := model.NewNode("elon  musk", "Person")
	spacex := model.NewNode("SpaceX", "Company")
	second.AddNode(muskLower)
	second.AddNode(spacex)
	second.AddRelationship(model.NewRelationship(muskLower, spacex, "FOUNDED"))

	out, renamed := Reconcile([]*model.GraphDocument{first, second})
	require.Len(t, out, 2)
	assert.Equal(t, 1, renamed)

	_, ok := out[1].Node("Elon Musk", "Person")
	assert.True(t, ok)
	assert.Equal(t, "Elon Musk", out[1].Relationships[0].Source.ID)
	assert.NoError(t, out[1].Validate())

	// Inputs are untouched.
	assert.Equal(t, "elon  musk", second.Nodes[0].ID)
}

func TestReconcile_TypeScoped(t *testing.T) {
	doc := model.NewGraphDocument(model.NewSource("text"))
	doc.AddNode(model.NewNode("Jaguar", "Animal"))
	doc.AddNode(model.NewNode("jaguar", "Company"))

	out, renamed := Reconcile([]*model.GraphDocument{doc})
	assert.Zero(t, renamed)
	assert.Len(t, out[0].Nodes, 2)
}

func TestReconcile_FoldsWithinDocument(t *testing.T) {
	doc := model.NewGraphDocument(model.NewSource("text"))
	a := model.NewNode("Tesla", "Company").SetProperty("ticker", "TSLA")
	b := model.NewNode("tesla", "Company").SetProperty("ticker", "X").SetProperty("founded", int64(2003))
	musk := model.NewNode("Elon Musk", "Person")
	doc.AddNode(a)
	doc.AddNode(b)
	doc.AddNode(musk)
	doc.AddRelationship(model.NewRelationship(musk, a, "CEO_OF"))
	doc.AddRelationship(model.NewRelationship(musk, b, "CEO_OF"))

	out, _ := Reconcile([]*model.GraphDocument{doc})

	require.Len(t, out[0].Nodes, 2)
	tesla, ok := out[0].Node("Tesla", "Company")
	require.True(t, ok)
	assert.Equal(t, "TSLA", tesla.Properties["ticker"])
	assert.Equal(t, int64(2003), tesla.Properties["founded"])
	assert.Len(t, out[0].Relationships, 1)
}

func TestReconcile_KeepsDanglingForValidation(t *testing.T) {
	doc := model.NewGraphDocument(model.NewSource("text"))
	musk := model.NewNode("Elon Musk", "Person")
	doc.AddNode(musk)
	doc.AddRelationship(model.NewRelationship(musk, model.NewNode("SpaceX", "Company"), "FOUNDED"))

	out, _ := Reconcile([]*model.GraphDocument{doc})
	assert.ErrorIs(t, out[0].Validate(), model.ErrDanglingRelationship)
}

package extraction

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/agenthands/graphqa/internal/config"
)

// AnyProperty in a property set accepts every property the model emits.
const AnyProperty = "*"

// Options constrain one extraction run. Empty type sets leave types unrestricted; an
// empty property set drops all properties.
type Options struct {
	AllowedNodes           mapset.Set[string]
	AllowedRelationships   mapset.Set[string]
	NodeProperties         mapset.Set[string]
	RelationshipProperties mapset.Set[string]
	// StrictMode drops relationships whose endpoints were not declared as nodes instead
	// of adding the endpoints implicitly.
	StrictMode bool
}

func NewOptions(cfg config.ExtractionConfig) Options {
	return Options{
		AllowedNodes:           mapset.NewSet[string](cfg.AllowedNodes...),
		AllowedRelationships:   mapset.NewSet[string](cfg.AllowedRelationships...),
		NodeProperties:         mapset.NewSet[string](cfg.NodeProperties...),
		RelationshipProperties: mapset.NewSet[string](cfg.RelationshipProperties...),
		StrictMode:             cfg.StrictMode,
	}
}

func isEmpty(s mapset.Set[string]) bool {
	return s == nil || s.Cardinality() == 0
}

func acceptsAny(s mapset.Set[string]) bool {
	return s != nil && s.Contains(AnyProperty)
}

package extraction

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// BuildPrompt fills the extraction template with the constraints block and the text.
func BuildPrompt(template, instructions, text string, opts Options) string {
	return fmt.Sprintf(template, constraints(instructions, opts), text)
}

func constraints(instructions string, opts Options) string {
	var b strings.Builder

	if !isEmpty(opts.AllowedNodes) {
		fmt.Fprintf(&b, "- Allowed node types: %s. Use exactly these labels and never any other.\n", joinSorted(opts.AllowedNodes))
	}
	if !isEmpty(opts.AllowedRelationships) {
		fmt.Fprintf(&b, "- Allowed relationship types: %s. Use exactly these types and never any other.\n", joinSorted(opts.AllowedRelationships))
	}

	b.WriteString(propertyConstraint("node", opts.NodeProperties))
	b.WriteString(propertyConstraint("relationship", opts.RelationshipProperties))

	if instructions = strings.TrimSpace(instructions); instructions != "" {
		b.WriteString("- ")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	return b.String()
}

func propertyConstraint(kind string, props mapset.Set[string]) string {
	switch {
	case acceptsAny(props):
		return fmt.Sprintf("- Capture any %s property stated in the text as a key/value pair in \"properties\".\n", kind)
	case isEmpty(props):
		return fmt.Sprintf("- Leave \"properties\" empty on every %s.\n", kind)
	default:
		return fmt.Sprintf("- Capture only these %s properties when the text states them: %s.\n", kind, joinSorted(props))
	}
}

func joinSorted(s mapset.Set[string]) string {
	items := s.ToSlice()
	sort.Strings(items)
	return strings.Join(items, ", ")
}

package adl

import (
	"fmt"

	"github.com/teranos/archex/archetype"
)

// terminology renders the local term definitions (id, then ac, then at) and
// the term bindings grouped by code system. It is empty when there is neither.
func (r *Renderer) terminology(el *archetype.Element) []string {
	var defs []*archetype.TermDefinition
	for _, kind := range []archetype.TermKind{archetype.TermID, archetype.TermAc, archetype.TermAt} {
		defs = append(defs, el.LocalTerms(kind)...)
	}

	var lines []string
	if len(defs) > 0 {
		lines = append(lines, "term_definitions = <", fmt.Sprintf("[%s] = <", quote(r.adl.Language)))
		for _, t := range defs {
			lines = append(lines,
				fmt.Sprintf("[%s] = <", quote(t.Ref())),
				fmt.Sprintf("text = <%s>", quote(termName(t))),
				fmt.Sprintf("description = <%s>", quote(orDash(t.Description))),
				">",
			)
		}
		lines = append(lines, ">", ">")
	}

	if len(el.Bindings) > 0 {
		lines = append(lines, "term_bindings = <")
		for _, group := range groupBindings(el.Bindings) {
			lines = append(lines, fmt.Sprintf("[%s] = <", quote(group[0].CodeSystem)), "items = <")
			for _, b := range group {
				lines = append(lines, fmt.Sprintf("[%s] = <%s>", quote(b.Term.Ref()), b.Value))
			}
			lines = append(lines, ">", ">")
		}
		lines = append(lines, ">")
	}
	return lines
}

// groupBindings groups bindings by code system, in order of first appearance
func groupBindings(bindings []archetype.TermBinding) [][]archetype.TermBinding {
	index := make(map[string]int)
	var groups [][]archetype.TermBinding
	for _, b := range bindings {
		i, ok := index[b.CodeSystem]
		if !ok {
			i = len(groups)
			index[b.CodeSystem] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], b)
	}
	return groups
}

package adl

import (
	"fmt"
	"strings"

	"github.com/teranos/archex/archetype"
	"github.com/teranos/archex/internal/util"
)

// description renders authorship, usage and licensing. Optional provenance
// values that are empty leave no line behind.
func (r *Renderer) description(el *archetype.Element) []string {
	lead := r.prov.LeadAuthor
	lines := []string{
		"original_author = <",
		fmt.Sprintf(`["name"] = <%s>`, quote(lead.Name)),
	}
	if lead.Organization != "" {
		lines = append(lines, fmt.Sprintf(`["organisation"] = <%s>`, quote(lead.Organization)))
	}
	if lead.Email != "" {
		lines = append(lines, fmt.Sprintf(`["email"] = <%s>`, quote(lead.Email)))
	}
	lines = append(lines,
		fmt.Sprintf(`["date"] = <%s>`, quote(r.date)),
		">",
	)

	purpose := "-"
	if ns, ok := r.src.Namespace(el.Namespace()); ok {
		purpose = orDash(ns.Description)
	}
	lines = append(lines,
		"details = <",
		fmt.Sprintf(`[%s] = <`, quote(r.adl.Language)),
		fmt.Sprintf("language = <%s>", r.languageCode()),
		fmt.Sprintf("purpose = <%s>", quote(purpose)),
		fmt.Sprintf("use = <%s>", quote(purpose)),
		fmt.Sprintf("keywords = <%s>", quoteList(keywords(el))),
		">",
		">",
		fmt.Sprintf("lifecycle_state = <%s>", quote(r.adl.LifecycleState)),
	)

	if others := r.prov.OtherAuthors; len(others) > 0 {
		names := make([]string, len(others))
		for i, a := range others {
			names[i] = a.String()
		}
		lines = append(lines, fmt.Sprintf("other_contributors = <%s>", quoteList(names)))
	}
	if r.prov.Publisher != "" {
		lines = append(lines, fmt.Sprintf("custodian_organisation = <%s>", quote(r.prov.Publisher)))
	}
	lines = append(lines, fmt.Sprintf("licence = <%s>", quote(r.adl.Licence)))
	if r.prov.Copyright != "" {
		lines = append(lines, fmt.Sprintf("copyright = <%s>", quote(r.prov.Copyright)))
	}
	if acks := r.prov.IPAcknowledgements; len(acks) > 0 {
		lines = append(lines, "ip_acknowledgements = <")
		for i, ack := range acks {
			lines = append(lines, fmt.Sprintf(`["%d"] = <%s>`, i+1, quote(ack)))
		}
		lines = append(lines, ">")
	}
	return lines
}

// keywords are the lower-cased namespace and the element name split into words
func keywords(el *archetype.Element) []string {
	return []string{
		strings.ToLower(el.Namespace()),
		strings.ToLower(strings.Join(util.SplitWords(el.Name()), " ")),
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quote(s)
	}
	return strings.Join(quoted, ", ")
}

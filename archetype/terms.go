package archetype

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/archex/model"
)

// TermKind is one of the three independent numbering spaces
type TermKind string

const (
	// TermID numbers nodes: the element itself, its fields and value, and constraint targets
	TermID TermKind = "id"
	// TermAt numbers local terminology codes
	TermAt TermKind = "at"
	// TermAc numbers local value-set references
	TermAc TermKind = "ac"
)

// NodeID is a hierarchical term number. Coordinate 0 is the archetype root
// and is always 1; the last coordinate belongs to the element's own depth.
type NodeID []int

// String joins the coordinates with dots
func (n NodeID) String() string {
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// Last returns the final coordinate
func (n NodeID) Last() int {
	if len(n) == 0 {
		return 0
	}
	return n[len(n)-1]
}

// Equal compares coordinates
func (n NodeID) Equal(other NodeID) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// declarationNode is all ones: the element's own node at the given depth
func declarationNode(depth int) NodeID {
	n := make(NodeID, depth+2)
	for i := range n {
		n[i] = 1
	}
	return n
}

// localNode numbers a term introduced at depth: zero between the root
// coordinate and the owning one
func localNode(depth, number int) NodeID {
	n := make(NodeID, depth+2)
	n[0] = 1
	n[len(n)-1] = number
	return n
}

// TermDefinition is one entry of an element's terminology
type TermDefinition struct {
	Name        string
	Description string
	NodeID      NodeID
	Kind        TermKind
	// Target is the identifier an id term stands for
	Target model.Identifier
	// Code is the concept an at term stands for
	Code *model.Concept
	// ValueSet is the URI an ac term stands for
	ValueSet string
	// Declaration marks the element's self-declaration term
	Declaration bool
	// Inherited marks copies of the parent's id terms
	Inherited bool
}

// Ref returns the term code, e.g. id1.2
func (t *TermDefinition) Ref() string {
	return string(t.Kind) + t.NodeID.String()
}

// Clone deep-copies the term
func (t *TermDefinition) Clone() *TermDefinition {
	c := *t
	c.NodeID = append(NodeID(nil), t.NodeID...)
	if t.Code != nil {
		code := *t.Code
		c.Code = &code
	}
	return &c
}

// TermBinding binds a local term to an external code or value set
type TermBinding struct {
	// CodeSystem groups bindings in the terminology section
	CodeSystem string
	Value      string
	Term       *TermDefinition
}

var codeSystemPattern = regexp.MustCompile(`(\w*)\.\w*`)

// CodeSystemOf derives the grouping key of a binding: the word run before
// the first dot ("http://loinc.org" -> "loinc").
func CodeSystemOf(value string) string {
	if m := codeSystemPattern.FindStringSubmatch(value); m != nil && m[1] != "" {
		return m[1]
	}
	return value
}

// terms holds the three numbering spaces of one element
type terms struct {
	depth int
	id    []*TermDefinition
	at    []*TermDefinition
	ac    []*TermDefinition
}

func (ts *terms) local(kind TermKind) []*TermDefinition {
	var out []*TermDefinition
	for _, t := range ts.list(kind) {
		if !t.Inherited {
			out = append(out, t)
		}
	}
	return out
}

func (ts *terms) list(kind TermKind) []*TermDefinition {
	switch kind {
	case TermAt:
		return ts.at
	case TermAc:
		return ts.ac
	default:
		return ts.id
	}
}

// nextID is two past the highest local id number
func (ts *terms) nextID() int {
	max := 0
	for _, t := range ts.local(TermID) {
		if last := t.NodeID.Last(); last > max {
			max = last
		}
	}
	return max + 2
}

// next returns the next sequential number of an at or ac space, starting at 2
func (ts *terms) next(kind TermKind) int {
	max := 1
	for _, t := range ts.local(kind) {
		if last := t.NodeID.Last(); last > max {
			max = last
		}
	}
	return max + 1
}

func (ts *terms) findID(target model.Identifier) *TermDefinition {
	for _, t := range ts.id {
		if !t.Declaration && t.Target.Equals(target) {
			return t
		}
	}
	return nil
}

func (ts *terms) findAt(code string) *TermDefinition {
	for _, t := range ts.at {
		if t.Code != nil && t.Code.Code == code {
			return t
		}
	}
	return nil
}

func (ts *terms) findAc(valueSet string) *TermDefinition {
	for _, t := range ts.ac {
		if t.ValueSet == valueSet {
			return t
		}
	}
	return nil
}

func (ts *terms) addAt(code *model.Concept) *TermDefinition {
	t := &TermDefinition{
		Name:        code.Code,
		Description: orDash(code.Display),
		NodeID:      localNode(ts.depth, ts.next(TermAt)),
		Kind:        TermAt,
		Code:        code,
	}
	ts.at = append(ts.at, t)
	return t
}

func (ts *terms) addAc(valueSet string) *TermDefinition {
	t := &TermDefinition{
		Name:        valueSet,
		Description: "-",
		NodeID:      localNode(ts.depth, ts.next(TermAc)),
		Kind:        TermAc,
		ValueSet:    valueSet,
	}
	ts.ac = append(ts.ac, t)
	return t
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

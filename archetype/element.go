package archetype

import (
	"github.com/teranos/archex/model"
)

// Element is the archetype built for one data element. It is immutable once
// its Registry has returned it.
type Element struct {
	Identifier  model.Identifier
	Description string
	Source      *model.DataElement
	// Parent is the element built for basedOn[0], nil at the root
	Parent *Element

	terms       terms
	Bindings    []TermBinding
	Fields      []*Field
	Constraints []*ConstraintBase
}

// Name returns the element name
func (e *Element) Name() string {
	return e.Identifier.Name
}

// Namespace returns the element namespace
func (e *Element) Namespace() string {
	return e.Identifier.Namespace
}

// Depth is the number of ancestors
func (e *Element) Depth() int {
	return e.terms.depth
}

// Declaration returns the self-declaration id term
func (e *Element) Declaration() *TermDefinition {
	return e.terms.id[0]
}

// Terms returns every term of a kind, inherited ones included, in assignment order
func (e *Element) Terms(kind TermKind) []*TermDefinition {
	return e.terms.list(kind)
}

// LocalTerms returns the terms of a kind that were not inherited
func (e *Element) LocalTerms(kind TermKind) []*TermDefinition {
	return e.terms.local(kind)
}

// Field is a field or value slot the element declares or constrains
type Field struct {
	Identifier model.Identifier
	// Name is the role name, "value" for the value slot
	Name    string
	IsValue bool
	Spec    *model.Value
	// Term is set for fields newly introduced by the element
	Term *TermDefinition
}

// SubKind discriminates SubConstraint
type SubKind int

const (
	SubType SubKind = iota + 1
	SubCardinality
	SubCode
	SubValueSet
)

func (k SubKind) String() string {
	switch k {
	case SubType:
		return "type"
	case SubCardinality:
		return "cardinality"
	case SubCode:
		return "code"
	case SubValueSet:
		return "valueset"
	default:
		return "unknown"
	}
}

// SubConstraint is one typed constraint on a field. Payload by kind:
//
//	SubType         Term is the target id term
//	SubCardinality  Term is the constrained id term, Card the bounds
//	SubCode         Term is the at term, Code the concept
//	SubValueSet     Term is the ac term
type SubConstraint struct {
	Kind  SubKind
	Field *Field
	Term  *TermDefinition
	Card  *model.Cardinality
	Code  *model.Concept
	// Path targets a nested field of Field
	Path []model.Identifier
	// OnValue targets Field's own value slot
	OnValue bool
}

// HasPath reports whether the sub-constraint targets a nested field
func (s *SubConstraint) HasPath() bool {
	return len(s.Path) > 0
}

// ConstraintBase collects the sub-constraints of one field, in discovery order
type ConstraintBase struct {
	Field *Field
	// Existence is the field's own occurrence bound, when constrained locally
	Existence *model.Cardinality
	Subs      []*SubConstraint
}

func (b *ConstraintBase) add(sub *SubConstraint) {
	b.Subs = append(b.Subs, sub)
}

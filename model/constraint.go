package model

import (
	"strings"

	"github.com/teranos/archex/errors"
)

// ConstraintKind discriminates the Constraint sum type
type ConstraintKind int

const (
	KindUnknown ConstraintKind = iota
	KindType
	KindCardinality
	KindCode
	KindValueSet
	KindIncludesType
	KindIncludesCode
)

var kindNames = map[ConstraintKind]string{
	KindType:         "type",
	KindCardinality:  "cardinality",
	KindCode:         "code",
	KindValueSet:     "valueset",
	KindIncludesType: "includesType",
	KindIncludesCode: "includesCode",
}

// ConstraintKinds lists every known kind in declaration order
var ConstraintKinds = []ConstraintKind{
	KindType, KindCardinality, KindCode, KindValueSet, KindIncludesType, KindIncludesCode,
}

func (k ConstraintKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseConstraintKind accepts the names printed by String, case-insensitively
func ParseConstraintKind(s string) (ConstraintKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return KindUnknown, errors.Newf("unknown constraint kind %q", s)
}

// Concept is a coded value from a code system
type Concept struct {
	System  string `json:"system" yaml:"system" toml:"system"`
	Code    string `json:"code" yaml:"code" toml:"code"`
	Display string `json:"display,omitempty" yaml:"display,omitempty" toml:"display,omitempty"`
}

// Constraint narrows a field or value. Which payload fields are meaningful
// depends on Kind:
//
//	KindType          IsA, optional Code
//	KindCardinality   Card
//	KindCode          Code
//	KindValueSet      ValueSet, optional Strength
//	KindIncludesType  IsA, optional Card
//	KindIncludesCode  Code
//
// Path, OnValue and LastModifiedBy apply to every kind.
type Constraint struct {
	Kind     ConstraintKind
	IsA      Identifier
	Card     *Cardinality
	Code     *Concept
	ValueSet string
	Strength string

	// Path targets a nested field below the constrained one
	Path []Identifier
	// OnValue targets the constrained field's own value slot
	OnValue bool
	// LastModifiedBy is the element that introduced the constraint
	LastModifiedBy Identifier
}

// HasPath reports whether the constraint targets a nested field
func (c Constraint) HasPath() bool {
	return len(c.Path) > 0
}

// OwnedBy reports whether the constraint was introduced by id
func (c Constraint) OwnedBy(id Identifier) bool {
	return c.LastModifiedBy.Equals(id)
}

// Validate checks that the payload matches the kind
func (c Constraint) Validate() error {
	switch c.Kind {
	case KindType, KindIncludesType:
		if c.IsA.IsZero() {
			return errors.NewMalformedConstraintError("%s constraint has no target type", c.Kind)
		}
	case KindCardinality:
		if c.Card == nil {
			return errors.NewMalformedConstraintError("cardinality constraint has no cardinality")
		}
	case KindCode, KindIncludesCode:
		if c.Code == nil || c.Code.Code == "" {
			return errors.NewMalformedConstraintError("%s constraint has no code", c.Kind)
		}
	case KindValueSet:
		if c.ValueSet == "" {
			return errors.NewMalformedConstraintError("valueset constraint has no value set")
		}
	default:
		return errors.NewMalformedConstraintError("constraint kind %d is not recognised", int(c.Kind))
	}
	return nil
}

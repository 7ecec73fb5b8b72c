package model

// ValueKind distinguishes the shapes a field or value slot can take
type ValueKind int

const (
	// Identifiable values name a data element or primitive directly
	Identifiable ValueKind = iota
	// Ref values point at another entry rather than embedding it
	Ref
	// Choice values allow one of several Options
	Choice
)

func (k ValueKind) String() string {
	switch k {
	case Ref:
		return "ref"
	case Choice:
		return "choice"
	default:
		return "identifiable"
	}
}

// Inheritance records whether a field was introduced by an ancestor
type Inheritance string

const (
	// NotInherited marks a field newly introduced by its element
	NotInherited Inheritance = ""
	Inherited    Inheritance = "inherited"
	Overridden   Inheritance = "overridden"
)

// Value is a field or value slot of a data element
type Value struct {
	Kind       ValueKind
	Identifier Identifier
	// Name is the role name; empty means Identifier.Name
	Name        string
	Inheritance Inheritance
	Card        *Cardinality
	Constraints []Constraint
	// Options holds the alternatives of a Choice value
	Options []*Value
}

// RoleName returns the name the field is known by within its element
func (v *Value) RoleName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Identifier.Name
}

// IsNew reports whether the value is introduced by the element that declares it
func (v *Value) IsNew() bool {
	return v.Inheritance == NotInherited
}

// HasIdentifier reports whether the value names a single type
func (v *Value) HasIdentifier() bool {
	return v.Kind != Choice && !v.Identifier.IsZero()
}

// IsStructural reports whether the value only links other elements (Ref or Choice)
func (v *Value) IsStructural() bool {
	return v.Kind == Ref || v.Kind == Choice
}

// OwnedConstraints returns the constraints introduced by owner, in declaration order
func (v *Value) OwnedConstraints(owner Identifier) []Constraint {
	var owned []Constraint
	for _, c := range v.Constraints {
		if c.OwnedBy(owner) {
			owned = append(owned, c)
		}
	}
	return owned
}

// HasConstraintOfKind reports whether any constraint has one of the kinds
func (v *Value) HasConstraintOfKind(kinds ...ConstraintKind) bool {
	for _, c := range v.Constraints {
		for _, k := range kinds {
			if c.Kind == k {
				return true
			}
		}
	}
	return false
}

// EffectiveCard is the last path-less cardinality constraint, else the
// declared cardinality, else 0..1.
func (v *Value) EffectiveCard() Cardinality {
	for i := len(v.Constraints) - 1; i >= 0; i-- {
		c := v.Constraints[i]
		if c.Kind == KindCardinality && !c.HasPath() && c.Card != nil {
			return *c.Card
		}
	}
	if v.Card != nil {
		return *v.Card
	}
	return DefaultCardinality
}

// DataElement is one element of the clinical model
type DataElement struct {
	Identifier  Identifier
	Description string
	// Entry marks elements exported at the root level
	Entry bool
	// BasedOn lists the parents; only the first takes part in ancestry
	BasedOn []Identifier
	// Hierarchy holds ancestor FQNs, root first
	Hierarchy []string
	Fields    []*Value
	Value     *Value
}

// Parent returns the first basedOn identifier
func (de *DataElement) Parent() (Identifier, bool) {
	if len(de.BasedOn) == 0 {
		return Identifier{}, false
	}
	return de.BasedOn[0], true
}

// FieldsAndValue returns the fields followed by the value slot, if any
func (de *DataElement) FieldsAndValue() []*Value {
	all := make([]*Value, 0, len(de.Fields)+1)
	all = append(all, de.Fields...)
	if de.Value != nil {
		all = append(all, de.Value)
	}
	return all
}

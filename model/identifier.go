// Package model is the read-only clinical data model consumed by the exporters:
// namespaces, data elements, their fields and value slots, and the
// provenance-tagged constraints placed on them.
//
// Nothing in this package is mutated by the exporters. A Source is built once
// (usually by Load) and may be shared by concurrent runs.
package model

import "strings"

// PrimitiveNamespace is the namespace holding built-in value types (string, code, ...)
const PrimitiveNamespace = "primitive"

// Identifier names a data element within a namespace
type Identifier struct {
	Namespace string `json:"namespace" yaml:"namespace" toml:"namespace"`
	Name      string `json:"name" yaml:"name" toml:"name"`
}

// NewIdentifier creates an Identifier
func NewIdentifier(namespace, name string) Identifier {
	return Identifier{Namespace: namespace, Name: name}
}

// ParseIdentifier splits a fully qualified name on its last dot.
// A name without a dot is treated as a primitive.
func ParseIdentifier(fqn string) Identifier {
	i := strings.LastIndex(fqn, ".")
	if i < 0 {
		return Identifier{Namespace: PrimitiveNamespace, Name: fqn}
	}
	return Identifier{Namespace: fqn[:i], Name: fqn[i+1:]}
}

// FQN returns namespace.name
func (id Identifier) FQN() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "." + id.Name
}

// IsPrimitive reports whether the identifier names a primitive type
func (id Identifier) IsPrimitive() bool {
	return id.Namespace == PrimitiveNamespace
}

// IsZero reports whether the identifier is unset
func (id Identifier) IsZero() bool {
	return id.Name == ""
}

// Equals compares two identifiers
func (id Identifier) Equals(other Identifier) bool {
	return id.Namespace == other.Namespace && id.Name == other.Name
}

// String returns the fully qualified name
func (id Identifier) String() string {
	return id.FQN()
}

// Namespace is a named group of data elements
type Namespace struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

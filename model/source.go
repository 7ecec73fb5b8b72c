package model

import (
	"github.com/teranos/archex/errors"
)

// Source is the read-only view of a model that the exporters consume
type Source interface {
	// Namespaces returns every namespace in declaration order
	Namespaces() []Namespace
	Namespace(name string) (Namespace, bool)
	// Entries returns the elements exported at the root level
	Entries() []*DataElement
	// All returns every defined element in declaration order
	All() []*DataElement
	FindByIdentifier(id Identifier) (*DataElement, bool)
	ByNamespace(ns string) []*DataElement
}

// Specifications is the in-memory Source. Build it with Add, then treat it as read-only.
type Specifications struct {
	namespaces []Namespace
	nsIndex    map[string]int
	elements   []*DataElement
	index      map[string]*DataElement
}

var _ Source = (*Specifications)(nil)

// NewSpecifications creates an empty model
func NewSpecifications() *Specifications {
	return &Specifications{
		nsIndex: make(map[string]int),
		index:   make(map[string]*DataElement),
	}
}

// AddNamespace registers a namespace. Re-adding a name updates its description.
func (s *Specifications) AddNamespace(ns Namespace) {
	if i, ok := s.nsIndex[ns.Name]; ok {
		if ns.Description != "" {
			s.namespaces[i].Description = ns.Description
		}
		return
	}
	s.nsIndex[ns.Name] = len(s.namespaces)
	s.namespaces = append(s.namespaces, ns)
}

// Add registers a data element, creating its namespace if needed
func (s *Specifications) Add(de *DataElement) error {
	if de == nil || de.Identifier.IsZero() {
		return errors.New("data element has no identifier")
	}
	fqn := de.Identifier.FQN()
	if _, exists := s.index[fqn]; exists {
		return errors.Newf("data element %s defined twice", fqn)
	}
	s.AddNamespace(Namespace{Name: de.Identifier.Namespace})
	s.index[fqn] = de
	s.elements = append(s.elements, de)
	return nil
}

// DeriveHierarchies fills Hierarchy for elements that have none by following
// the first basedOn link. Missing parents and cycles end the walk; reporting
// them is left to the archetype resolver.
func (s *Specifications) DeriveHierarchies() {
	for _, de := range s.elements {
		if len(de.Hierarchy) > 0 {
			continue
		}
		var chain []string
		seen := map[string]bool{de.Identifier.FQN(): true}
		cur := de
		for {
			parentID, ok := cur.Parent()
			if !ok || seen[parentID.FQN()] {
				break
			}
			seen[parentID.FQN()] = true
			chain = append(chain, parentID.FQN())
			parent, found := s.index[parentID.FQN()]
			if !found {
				break
			}
			cur = parent
		}
		// collected child-first
		for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
			chain[i], chain[j] = chain[j], chain[i]
		}
		de.Hierarchy = chain
	}
}

func (s *Specifications) Namespaces() []Namespace {
	return s.namespaces
}

func (s *Specifications) Namespace(name string) (Namespace, bool) {
	i, ok := s.nsIndex[name]
	if !ok {
		return Namespace{}, false
	}
	return s.namespaces[i], true
}

func (s *Specifications) Entries() []*DataElement {
	var entries []*DataElement
	for _, de := range s.elements {
		if de.Entry {
			entries = append(entries, de)
		}
	}
	return entries
}

func (s *Specifications) All() []*DataElement {
	return s.elements
}

func (s *Specifications) FindByIdentifier(id Identifier) (*DataElement, bool) {
	de, ok := s.index[id.FQN()]
	return de, ok
}

func (s *Specifications) ByNamespace(ns string) []*DataElement {
	var out []*DataElement
	for _, de := range s.elements {
		if de.Identifier.Namespace == ns {
			out = append(out, de)
		}
	}
	return out
}

// Package archetype builds archetype elements from a clinical model: it
// resolves single-inheritance chains, assigns hierarchical term numbers and
// builds the per-field constraint tree the renderers consume.
package archetype

import (
	"strings"
	"time"

	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// Registry builds each element of one run exactly once, parents before
// children. It is not safe for concurrent use; concurrent runs use separate
// registries over the same Source.
type Registry struct {
	src      model.Source
	handlers map[model.ConstraintKind]Handler
	log      *zap.SugaredLogger
	// trace enables per-term and per-constraint logs
	trace bool

	states   map[string]visitState
	elements map[string]*Element
	order    []*Element
	chain    []string
}

// Option configures a Registry
type Option func(*Registry)

// WithHandler registers the handler for a constraint kind, replacing any default
func WithHandler(kind model.ConstraintKind, h Handler) Option {
	return func(r *Registry) {
		r.handlers[kind] = h
	}
}

// WithoutHandler disables a constraint kind
func WithoutHandler(kind model.ConstraintKind) Option {
	return func(r *Registry) {
		delete(r.handlers, kind)
	}
}

// WithLogger overrides the component logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithVerbosity overrides the -v count read from logger.Verbosity
func WithVerbosity(verbosity int) Option {
	return func(r *Registry) {
		r.trace = logger.ShouldLogTrace(verbosity)
	}
}

// NewRegistry creates a registry. Only the type handler is registered by
// default; see WithHandler and Handlers.
func NewRegistry(src model.Source, opts ...Option) *Registry {
	r := &Registry{
		src:      src,
		handlers: map[model.ConstraintKind]Handler{model.KindType: HandlerFunc(TypeHandler)},
		log:      logger.ComponentLogger("archetype"),
		trace:    logger.ShouldLogTrace(logger.Verbosity),
		states:   make(map[string]visitState),
		elements: make(map[string]*Element),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build resolves every entry of src plus any hierarchy ancestor that is not an
// entry itself, and returns the elements in construction order.
func Build(src model.Source, opts ...Option) ([]*Element, error) {
	r := NewRegistry(src, opts...)
	start := time.Now()

	entries := src.Entries()
	roots := append([]*model.DataElement(nil), entries...)
	isEntry := make(map[string]bool, len(entries))
	for _, de := range entries {
		isEntry[de.Identifier.FQN()] = true
	}
	for _, de := range entries {
		for _, fqn := range de.Hierarchy {
			if isEntry[fqn] {
				continue
			}
			ancestor, ok := src.FindByIdentifier(model.ParseIdentifier(fqn))
			if !ok {
				return nil, errors.NewLookupError("hierarchy entry %s of %s", fqn, de.Identifier.FQN())
			}
			isEntry[fqn] = true
			roots = append(roots, ancestor)
		}
	}

	for _, de := range roots {
		if _, err := r.Resolve(de); err != nil {
			return nil, err
		}
	}

	r.log.Debugw("built archetype elements",
		logger.FieldCount, len(r.order),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return r.Elements(), nil
}

// Elements returns every element built so far, parents before children
func (r *Registry) Elements() []*Element {
	return r.order
}

// Lookup returns an already built element
func (r *Registry) Lookup(id model.Identifier) (*Element, bool) {
	el, ok := r.elements[id.FQN()]
	return el, ok
}

// Resolve returns the element for de, building its basedOn ancestor first.
// A registry that returned an error must not be reused.
func (r *Registry) Resolve(de *model.DataElement) (*Element, error) {
	fqn := de.Identifier.FQN()
	switch r.states[fqn] {
	case stateDone:
		return r.elements[fqn], nil
	case stateVisiting:
		return nil, errors.NewCyclicHierarchyError(r.cycle(fqn))
	}

	r.states[fqn] = stateVisiting
	r.chain = append(r.chain, fqn)
	defer func() {
		r.chain = r.chain[:len(r.chain)-1]
	}()

	var parent *Element
	if parentID, ok := de.Parent(); ok {
		parentDE, found := r.src.FindByIdentifier(parentID)
		if !found {
			return nil, errors.NewLookupError("basedOn %s of %s", parentID.FQN(), fqn)
		}
		var err error
		if parent, err = r.Resolve(parentDE); err != nil {
			return nil, err
		}
	}

	el, err := r.construct(de, parent)
	if err != nil {
		return nil, errors.Wrapf(err, "element %s", fqn)
	}

	r.states[fqn] = stateDone
	r.elements[fqn] = el
	r.order = append(r.order, el)
	return el, nil
}

// cycle returns the resolution chain from the first visit of fqn back to fqn
func (r *Registry) cycle(fqn string) []string {
	for i, id := range r.chain {
		if id == fqn {
			return append(append([]string(nil), r.chain[i:]...), fqn)
		}
	}
	return []string{fqn, fqn}
}

func (r *Registry) construct(de *model.DataElement, parent *Element) (*Element, error) {
	log := logger.ChildLogger(r.log, logger.FieldElement, de.Identifier.FQN())

	for _, f := range de.FieldsAndValue() {
		for _, c := range f.OwnedConstraints(de.Identifier) {
			if err := c.Validate(); err != nil {
				return nil, errors.Wrapf(err, "field %s", f.RoleName())
			}
		}
	}

	el := &Element{
		Identifier:  de.Identifier,
		Description: de.Description,
		Source:      de,
		Parent:      parent,
	}
	el.terms.depth = depthOf(de, parent)

	if err := r.assignIDTerms(el, de); err != nil {
		return nil, err
	}
	r.assignLocalTerms(el, de, log)

	b := &Builder{registry: r, el: el, log: log}
	if err := b.build(); err != nil {
		return nil, err
	}

	log.Debugw("constructed element",
		logger.FieldParent, parentName(parent),
		logger.FieldCount, len(el.Constraints),
		logger.FieldNodeID, el.Declaration().NodeID.String())
	return el, nil
}

func depthOf(de *model.DataElement, parent *Element) int {
	depth := len(de.Hierarchy)
	if parent != nil && depth <= parent.Depth() {
		depth = parent.Depth() + 1
	}
	return depth
}

func parentName(parent *Element) string {
	if parent == nil {
		return ""
	}
	return parent.Identifier.FQN()
}

// assignIDTerms numbers the self-declaration, the new value, then new fields,
// and appends the parent's id terms as inherited copies.
func (r *Registry) assignIDTerms(el *Element, de *model.DataElement) error {
	ts := &el.terms
	ts.id = append(ts.id, &TermDefinition{
		Name:        de.Identifier.Name,
		Description: orDash(de.Description),
		NodeID:      declarationNode(ts.depth),
		Kind:        TermID,
		Target:      de.Identifier,
		Declaration: true,
	})

	number := 2
	introduce := func(v *model.Value, isValue bool) error {
		term, err := r.newIDTerm(v.Identifier, localNode(ts.depth, number))
		if err != nil {
			return err
		}
		number++
		ts.id = append(ts.id, term)

		name := v.RoleName()
		if isValue {
			name = "value"
		}
		el.Fields = append(el.Fields, &Field{
			Identifier: v.Identifier,
			Name:       name,
			IsValue:    isValue,
			Spec:       v,
			Term:       term,
		})
		return nil
	}

	if v := de.Value; v != nil && v.IsNew() && v.HasIdentifier() {
		if err := introduce(v, true); err != nil {
			return errors.Wrap(err, "value")
		}
	}
	for _, f := range de.Fields {
		if !f.IsNew() || !f.HasIdentifier() {
			continue
		}
		if err := introduce(f, false); err != nil {
			return errors.Wrapf(err, "field %s", f.RoleName())
		}
	}

	if el.Parent != nil {
		for _, t := range el.Parent.terms.id {
			inherited := t.Clone()
			inherited.Inherited = true
			ts.id = append(ts.id, inherited)
		}
	}
	return nil
}

// newIDTerm names a term after its target. Primitive targets are upper-cased
// and carry no description; other targets must exist in the model.
func (r *Registry) newIDTerm(target model.Identifier, node NodeID) (*TermDefinition, error) {
	t := &TermDefinition{
		Name:        target.Name,
		Description: "-",
		NodeID:      node,
		Kind:        TermID,
		Target:      target,
	}
	if target.IsPrimitive() {
		t.Name = strings.ToUpper(target.Name)
		return t, nil
	}
	targetDE, ok := r.src.FindByIdentifier(target)
	if !ok {
		return nil, errors.NewLookupError("type %s", target.FQN())
	}
	t.Description = orDash(targetDE.Description)
	return t, nil
}

// assignLocalTerms numbers the codes embedded in owned type constraints (at)
// and the owned value sets (ac), each space starting at 2.
func (r *Registry) assignLocalTerms(el *Element, de *model.DataElement, log *zap.SugaredLogger) {
	ts := &el.terms
	for _, f := range de.FieldsAndValue() {
		for _, c := range f.OwnedConstraints(de.Identifier) {
			var t *TermDefinition
			switch c.Kind {
			case model.KindType:
				if c.Code != nil && ts.findAt(c.Code.Code) == nil {
					t = ts.addAt(c.Code)
				}
			case model.KindValueSet:
				if ts.findAc(c.ValueSet) == nil {
					t = ts.addAc(c.ValueSet)
				}
			}
			if t != nil && r.trace {
				log.Debugw("assigned local term",
					logger.FieldTermKind, string(t.Kind),
					logger.FieldNodeID, t.Ref(),
					logger.FieldField, f.RoleName())
			}
		}
	}
}

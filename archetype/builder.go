package archetype

import (
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
)

// Builder builds the constraint tree of one element. Handlers receive it to
// look up and mint terms while the element is under construction.
type Builder struct {
	registry *Registry
	el       *Element
	log      *zap.SugaredLogger
}

// Element returns the element under construction
func (b *Builder) Element() *Element {
	return b.el
}

// Source returns the model being exported
func (b *Builder) Source() model.Source {
	return b.registry.src
}

// FindOrCreateID returns the id term standing for target. Existing terms,
// inherited ones included, are reused; the self-declaration never is. A new
// term is numbered two past the highest local id number.
func (b *Builder) FindOrCreateID(target model.Identifier) (*TermDefinition, error) {
	ts := &b.el.terms
	if t := ts.findID(target); t != nil {
		return t, nil
	}
	t, err := b.registry.newIDTerm(target, localNode(ts.depth, ts.nextID()))
	if err != nil {
		return nil, err
	}
	ts.id = append(ts.id, t)
	if b.registry.trace {
		b.log.Debugw("minted id term", logger.FieldNodeID, t.NodeID.String(), "target", target.FQN())
	}
	return t, nil
}

// FindOrCreateAt returns the at term for a code
func (b *Builder) FindOrCreateAt(code *model.Concept) *TermDefinition {
	if t := b.el.terms.findAt(code.Code); t != nil {
		return t
	}
	return b.el.terms.addAt(code)
}

// FindOrCreateAc returns the ac term for a value set
func (b *Builder) FindOrCreateAc(valueSet string) *TermDefinition {
	if t := b.el.terms.findAc(valueSet); t != nil {
		return t
	}
	return b.el.terms.addAc(valueSet)
}

// Bind records a term binding, grouped by the code system of value
func (b *Builder) Bind(term *TermDefinition, value string) {
	for _, existing := range b.el.Bindings {
		if existing.Term == term && existing.Value == value {
			return
		}
	}
	b.el.Bindings = append(b.el.Bindings, TermBinding{
		CodeSystem: CodeSystemOf(value),
		Value:      value,
		Term:       term,
	})
}

// ValueOf returns the value slot of the element a field points at, nil when
// the field is primitive or its element declares no value. A field type
// missing from the model is a LookupError.
func (b *Builder) ValueOf(f *Field) (*model.Value, error) {
	if f.Identifier.IsPrimitive() {
		return nil, nil
	}
	de, ok := b.registry.src.FindByIdentifier(f.Identifier)
	if !ok {
		return nil, errors.NewLookupError("type %s of field %s", f.Identifier.FQN(), f.Name)
	}
	return de.Value, nil
}

func (b *Builder) build() error {
	el := b.el

	// every newly introduced field or value declares its type with its own term
	for _, f := range el.Fields {
		base := &ConstraintBase{Field: f}
		base.add(&SubConstraint{Kind: SubType, Field: f, Term: f.Term})
		el.Constraints = append(el.Constraints, base)
	}

	de := el.Source
	for _, spec := range de.FieldsAndValue() {
		if !spec.HasIdentifier() || spec.IsStructural() {
			continue
		}
		owned := spec.OwnedConstraints(de.Identifier)
		if len(owned) == 0 {
			continue
		}

		base := b.baseFor(b.fieldFor(spec, spec == de.Value))
		for _, c := range owned {
			h, ok := b.registry.handlers[c.Kind]
			if !ok {
				b.log.Debugw("no handler for constraint",
					logger.FieldField, base.Field.Name,
					logger.FieldKind, c.Kind.String())
				continue
			}
			if b.registry.trace {
				b.log.Debugw("dispatching constraint",
					logger.FieldField, base.Field.Name,
					logger.FieldKind, c.Kind.String())
			}
			if err := h.Handle(b, base, c); err != nil {
				return errors.Wrapf(err, "%s constraint on %s", c.Kind, base.Field.Name)
			}
		}
	}
	return nil
}

func (b *Builder) fieldFor(spec *model.Value, isValue bool) *Field {
	for _, f := range b.el.Fields {
		if f.Spec == spec {
			return f
		}
	}
	name := spec.RoleName()
	if isValue {
		name = "value"
	}
	f := &Field{Identifier: spec.Identifier, Name: name, IsValue: isValue, Spec: spec}
	b.el.Fields = append(b.el.Fields, f)
	return f
}

func (b *Builder) baseFor(f *Field) *ConstraintBase {
	for _, base := range b.el.Constraints {
		if base.Field == f {
			return base
		}
	}
	base := &ConstraintBase{Field: f}
	b.el.Constraints = append(b.el.Constraints, base)
	return base
}

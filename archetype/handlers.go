package archetype

import (
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/model"
)

// Handler turns one owned model constraint into sub-constraints of base
type Handler interface {
	Handle(b *Builder, base *ConstraintBase, c model.Constraint) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(b *Builder, base *ConstraintBase, c model.Constraint) error

// Handle calls f
func (f HandlerFunc) Handle(b *Builder, base *ConstraintBase, c model.Constraint) error {
	return f(b, base, c)
}

// builtin holds the handlers selectable by kind name
var builtin = map[model.ConstraintKind]Handler{
	model.KindType:        HandlerFunc(TypeHandler),
	model.KindCardinality: HandlerFunc(CardinalityHandler),
	model.KindCode:        HandlerFunc(CodeHandler),
	model.KindValueSet:    HandlerFunc(ValueSetHandler),
}

// HandlerOptions enables the built-in handlers named in kinds ("type",
// "cardinality", "code", "valueset"). The include kinds have no handler.
func HandlerOptions(kinds []string) ([]Option, error) {
	var opts []Option
	for _, name := range kinds {
		kind, err := model.ParseConstraintKind(name)
		if err != nil {
			return nil, err
		}
		h, ok := builtin[kind]
		if !ok {
			return nil, errors.Newf("no handler for %s constraints", kind)
		}
		opts = append(opts, WithHandler(kind, h))
	}
	return opts, nil
}

// TypeHandler records the resolved target term of a type constraint. The
// sub-constraint targets the field's value slot when the constraint says so
// or when its path starts at the value of the field's element.
func TypeHandler(b *Builder, base *ConstraintBase, c model.Constraint) error {
	term, err := b.FindOrCreateID(c.IsA)
	if err != nil {
		return err
	}
	onValue := c.OnValue
	if c.HasPath() {
		v, err := b.ValueOf(base.Field)
		if err != nil {
			return err
		}
		if v != nil && v.HasIdentifier() && v.Identifier.Equals(c.Path[0]) {
			onValue = true
		}
	}
	base.add(&SubConstraint{
		Kind:    SubType,
		Field:   base.Field,
		Term:    term,
		Path:    c.Path,
		OnValue: onValue,
	})
	return nil
}

// CardinalityHandler bounds the field itself (existence), its value slot, or
// the nested field at the end of its path.
func CardinalityHandler(b *Builder, base *ConstraintBase, c model.Constraint) error {
	card := *c.Card
	switch {
	case c.HasPath():
		term, err := b.FindOrCreateID(c.Path[len(c.Path)-1])
		if err != nil {
			return err
		}
		base.add(&SubConstraint{Kind: SubCardinality, Field: base.Field, Term: term, Card: &card, Path: c.Path})
	case c.OnValue:
		v, err := b.ValueOf(base.Field)
		if err != nil {
			return err
		}
		if v == nil || !v.HasIdentifier() {
			return errors.NewMalformedConstraintError("value cardinality on %s, which has no value", base.Field.Identifier.FQN())
		}
		term, err := b.FindOrCreateID(v.Identifier)
		if err != nil {
			return err
		}
		base.add(&SubConstraint{Kind: SubCardinality, Field: base.Field, Term: term, Card: &card, OnValue: true})
	default:
		base.Existence = &card
	}
	return nil
}

// CodeHandler fixes a coded value to a local at term bound to the concept
func CodeHandler(b *Builder, base *ConstraintBase, c model.Constraint) error {
	code := *c.Code
	term := b.FindOrCreateAt(&code)
	b.Bind(term, code.System+"/"+code.Code)
	base.add(&SubConstraint{
		Kind:    SubCode,
		Field:   base.Field,
		Term:    term,
		Code:    &code,
		Path:    c.Path,
		OnValue: !c.HasPath(),
	})
	return nil
}

// ValueSetHandler restricts a coded value to a local ac term bound to the value set
func ValueSetHandler(b *Builder, base *ConstraintBase, c model.Constraint) error {
	term := b.FindOrCreateAc(c.ValueSet)
	b.Bind(term, c.ValueSet)
	base.add(&SubConstraint{
		Kind:    SubValueSet,
		Field:   base.Field,
		Term:    term,
		Path:    c.Path,
		OnValue: !c.HasPath(),
	})
	return nil
}

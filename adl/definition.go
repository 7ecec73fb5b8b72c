package adl

import (
	"fmt"
	"strings"

	"github.com/teranos/archex/archetype"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/internal/util"
	"github.com/teranos/archex/model"
)

// clause is one "left matches { ... }" statement with its bodies in order
type clause struct {
	left   string
	bodies []string
}

// lines renders the clause inline when it has a single body, as a block otherwise
func (c *clause) lines() []string {
	if len(c.bodies) == 1 {
		return []string{fmt.Sprintf("%s matches { %s }", c.left, c.bodies[0])}
	}
	out := []string{c.left + " matches {"}
	out = append(out, c.bodies...)
	return append(out, "}")
}

// clauses keeps clauses in first-seen order, keyed by their left side
type clauses struct {
	order []*clause
	byKey map[string]*clause
}

func (cs *clauses) add(left, body string) {
	if cs.byKey == nil {
		cs.byKey = make(map[string]*clause)
	}
	c, ok := cs.byKey[left]
	if !ok {
		c = &clause{left: left}
		cs.byKey[left] = c
		cs.order = append(cs.order, c)
	}
	c.bodies = append(c.bodies, body)
}

func (cs *clauses) lines() []string {
	var out []string
	for _, c := range cs.order {
		out = append(out, c.lines()...)
	}
	return out
}

// definition renders the element declaration and, when any field produced
// content, the field clauses nested inside it. Per field: path clauses
// (/field/segment), then value-slot clauses (/field/value), then the field's
// own clause.
func (r *Renderer) definition(el *archetype.Element) ([]string, error) {
	decl := el.Declaration()
	declaration := termName(decl) + "[" + decl.Ref() + "]"

	var body []string
	for _, base := range el.Constraints {
		lines, err := r.baseLines(base)
		if err != nil {
			return nil, err
		}
		body = append(body, lines...)
	}

	if len(body) == 0 {
		return []string{declaration}, nil
	}
	out := []string{declaration + " matches {"}
	out = append(out, body...)
	return append(out, "}"), nil
}

func (r *Renderer) baseLines(base *archetype.ConstraintBase) ([]string, error) {
	name := util.LowerFirst(base.Field.Name)

	var paths, values, own clauses
	var slot *model.Value
	slotLoaded := false

	for _, sub := range base.Subs {
		switch {
		case sub.OnValue || (sub.Kind == archetype.SubValueSet && !sub.HasPath()):
			if !slotLoaded {
				var err error
				if slot, err = r.valueOf(base.Field); err != nil {
					return nil, err
				}
				slotLoaded = true
			}
			if slot == nil {
				continue
			}
			segment, err := valueSegment(slot, sub)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", base.Field.Name)
			}
			values.add(fmt.Sprintf("/%s/%s", name, segment), subString(sub))
		case sub.HasPath():
			segments := make([]string, len(sub.Path))
			for i, p := range sub.Path {
				segments[i] = util.LowerFirst(p.Name)
			}
			paths.add(fmt.Sprintf("/%s/%s", name, strings.Join(segments, "/")), subString(sub))
		default:
			own.add(name, subString(sub))
		}
	}

	lines := append(paths.lines(), values.lines()...)
	if len(own.order) == 0 {
		return lines, nil
	}

	c := own.order[0]
	if base.Existence != nil {
		c.left = fmt.Sprintf("%s existence matches {%s}", name, base.Existence)
	}
	return append(lines, c.lines()...), nil
}

// valueOf returns the value slot of the field's own element, nil when it has none
func (r *Renderer) valueOf(f *archetype.Field) (*model.Value, error) {
	if f.Identifier.IsPrimitive() {
		return nil, nil
	}
	de, ok := r.src.FindByIdentifier(f.Identifier)
	if !ok {
		return nil, errors.NewLookupError("type %s of field %s", f.Identifier.FQN(), f.Name)
	}
	return de.Value, nil
}

// valueSegment names the value slot, qualified by the chosen option for choice
// slots. A constraint on a choice slot that picks none of its options has no
// path to render.
func valueSegment(slot *model.Value, sub *archetype.SubConstraint) (string, error) {
	if slot.Kind != model.Choice {
		return "value", nil
	}
	if sub.Term != nil && sub.Term.Kind == archetype.TermID {
		for _, opt := range slot.Options {
			if opt.Identifier.Equals(sub.Term.Target) {
				return "valueChoice" + util.UpperFirst(opt.Identifier.Name), nil
			}
		}
	}
	return "", errors.NewMalformedConstraintError("%s constraint on a choice value names none of its options", sub.Kind)
}

// subString renders one sub-constraint body
func subString(sub *archetype.SubConstraint) string {
	ref := "[" + sub.Term.Ref() + "]"
	switch sub.Kind {
	case archetype.SubCardinality:
		return fmt.Sprintf("%s%s matches {%s}", termName(sub.Term), ref, sub.Card)
	case archetype.SubCode, archetype.SubValueSet:
		return ref
	default:
		return termName(sub.Term) + ref
	}
}

func termName(t *archetype.TermDefinition) string {
	return strings.ReplaceAll(t.Name, "-", "")
}

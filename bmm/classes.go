package bmm

import (
	"fmt"

	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/internal/util"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
)

// PropertyKind is the BMM meta-type of every property archex emits
const PropertyKind = "P_BMM_SINGLE_PROPERTY"

// Class is the schema class of one data element
type Class struct {
	Name          string
	Documentation string
	Ancestors     []string
	Properties    []Property
}

// Property is one single-valued class property
type Property struct {
	Name          string
	Type          string
	Documentation string
	Mandatory     bool
	// Card is set when the effective cardinality is not the implicit 0..1
	Card *model.Cardinality
}

// classes builds one class per element of the model, in declaration order
func (r *Renderer) classes() ([]Class, error) {
	seen := make(map[string]string)
	var out []Class
	for _, de := range r.src.All() {
		name := de.Identifier.Name
		if other, dup := seen[name]; dup {
			return nil, errors.Newf("class %s is defined by both %s and %s", name, other, de.Identifier.FQN())
		}
		seen[name] = de.Identifier.FQN()

		c, err := r.class(de)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", de.Identifier.FQN())
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Renderer) class(de *model.DataElement) (Class, error) {
	c := Class{
		Name:          de.Identifier.Name,
		Documentation: orDash(de.Description),
	}
	for _, a := range de.BasedOn {
		c.Ancestors = append(c.Ancestors, a.Name)
	}

	props := &properties{}
	for _, f := range de.Fields {
		if !f.IsNew() {
			continue
		}
		if f.Kind == model.Choice {
			r.log.Warnw("choice fields have no schema property",
				logger.FieldElement, de.Identifier.FQN(),
				logger.FieldField, f.RoleName())
			continue
		}
		if !f.HasIdentifier() || f.HasConstraintOfKind(model.KindIncludesType, model.KindIncludesCode) {
			continue
		}
		p, err := r.property(util.LowerFirst(f.RoleName()), f, f.Identifier)
		if err != nil {
			return c, errors.Wrapf(err, "field %s", f.RoleName())
		}
		props.put(p)
	}

	if v := de.Value; v != nil && v.IsNew() {
		switch {
		case v.Kind == model.Choice:
			for _, opt := range v.Options {
				p, err := r.property("valueChoice"+util.UpperFirst(opt.Identifier.Name), opt, opt.Identifier)
				if err != nil {
					return c, errors.Wrap(err, "value")
				}
				props.put(p)
			}
		case v.HasIdentifier():
			p, err := r.property("value", v, v.Identifier)
			if err != nil {
				return c, errors.Wrap(err, "value")
			}
			props.put(p)
		}
	}

	c.Properties = props.list
	return c, nil
}

// property derives a property from a field, value slot or choice option typed target
func (r *Renderer) property(name string, v *model.Value, target model.Identifier) (Property, error) {
	p := Property{Name: name, Type: target.Name}
	if target.IsPrimitive() {
		p.Documentation = fmt.Sprintf("PrimitiveValue (original type: %s)", target.Name)
	} else {
		de, ok := r.src.FindByIdentifier(target)
		if !ok {
			return p, errors.NewLookupError("type %s", target.FQN())
		}
		p.Documentation = orDash(de.Description)
	}

	card := v.EffectiveCard()
	p.Mandatory = card.IsMandatory()
	if !card.IsDefault() {
		p.Card = &card
	}
	return p, nil
}

// properties keeps one property per name; a later property replaces an earlier one in place
type properties struct {
	list  []Property
	index map[string]int
}

func (ps *properties) put(p Property) {
	if ps.index == nil {
		ps.index = make(map[string]int)
	}
	if i, ok := ps.index[p.Name]; ok {
		ps.list[i] = p
		return
	}
	ps.index[p.Name] = len(ps.list)
	ps.list = append(ps.list, p)
}

// cardinality renders min..max, or >=min when unbounded
func cardinality(c *model.Cardinality) string {
	if c.IsUnbounded() {
		return fmt.Sprintf(">=%d", c.Min)
	}
	return fmt.Sprintf("%d..%d", c.Min, *c.Max)
}

func classLines(classes []Class) []string {
	lines := banner("classes")
	lines = append(lines, "class_definitions = <")
	for _, c := range classes {
		lines = append(lines,
			fmt.Sprintf("[%s] = <", quote(c.Name)),
			fmt.Sprintf("documentation = <%s>", quote(c.Documentation)),
			fmt.Sprintf("name = <%s>", quote(c.Name)),
		)
		if len(c.Ancestors) > 0 {
			lines = append(lines, fmt.Sprintf("ancestors = <%s, ...>", quoteList(c.Ancestors)))
		}
		if len(c.Properties) > 0 {
			lines = append(lines, "properties = <")
			for _, p := range c.Properties {
				lines = append(lines, propertyLines(p)...)
			}
			lines = append(lines, ">")
		}
		lines = append(lines, ">")
	}
	return append(lines, ">")
}

func propertyLines(p Property) []string {
	lines := []string{
		fmt.Sprintf("[%s] = (%s) <", quote(p.Name), PropertyKind),
		fmt.Sprintf("documentation = <%s>", quote(p.Documentation)),
		fmt.Sprintf("name = <%s>", quote(p.Name)),
		fmt.Sprintf("type = <%s>", quote(p.Type)),
	}
	if p.Mandatory {
		lines = append(lines, "is_mandatory = <True>")
	}
	if p.Card != nil {
		lines = append(lines, fmt.Sprintf("cardinality = <|%s|>", cardinality(p.Card)))
	}
	return append(lines, ">")
}

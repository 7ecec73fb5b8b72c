package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/teranos/archex/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a model document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf("unsupported model file extension %q", filepath.Ext(path))
	}
}

// Document is the on-disk shape of a model
//
//	namespaces:
//	  - name: demo
//	    description: Demo elements
//	elements:
//	  - namespace: demo
//	    name: Foo
//	    entry: true
//	    fields:
//	      - name: bar
//	        type: demo.Baz
//	        card: "1..1"
type Document struct {
	Namespaces []Namespace       `json:"namespaces" yaml:"namespaces" toml:"namespaces"`
	Elements   []ElementDocument `json:"elements" yaml:"elements" toml:"elements"`
}

// ElementDocument describes one data element
type ElementDocument struct {
	Namespace   string   `json:"namespace" yaml:"namespace" toml:"namespace"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Entry       bool     `json:"entry,omitempty" yaml:"entry,omitempty" toml:"entry,omitempty"`
	BasedOn     []string `json:"basedOn,omitempty" yaml:"basedOn,omitempty" toml:"basedOn,omitempty"`
	// Hierarchy is derived from basedOn when omitted
	Hierarchy []string         `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty" toml:"hierarchy,omitempty"`
	Value     *ValueDocument   `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Fields    []*ValueDocument `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
}

// ValueDocument describes a field or value slot.
// Type is a fully qualified name; a bare name is a primitive.
type ValueDocument struct {
	Name        string               `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type        string               `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Kind        string               `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Inheritance string               `json:"inheritance,omitempty" yaml:"inheritance,omitempty" toml:"inheritance,omitempty"`
	Card        string               `json:"card,omitempty" yaml:"card,omitempty" toml:"card,omitempty"`
	Options     []string             `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	Constraints []ConstraintDocument `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty"`
}

// ConstraintDocument describes one constraint. LastModifiedBy defaults to the
// element declaring the field.
type ConstraintDocument struct {
	Kind           string   `json:"kind" yaml:"kind" toml:"kind"`
	IsA            string   `json:"isA,omitempty" yaml:"isA,omitempty" toml:"isA,omitempty"`
	Card           string   `json:"card,omitempty" yaml:"card,omitempty" toml:"card,omitempty"`
	Code           *Concept `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	ValueSet       string   `json:"valueSet,omitempty" yaml:"valueSet,omitempty" toml:"valueSet,omitempty"`
	Strength       string   `json:"strength,omitempty" yaml:"strength,omitempty" toml:"strength,omitempty"`
	Path           []string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	OnValue        bool     `json:"onValue,omitempty" yaml:"onValue,omitempty" toml:"onValue,omitempty"`
	LastModifiedBy string   `json:"lastModifiedBy,omitempty" yaml:"lastModifiedBy,omitempty" toml:"lastModifiedBy,omitempty"`
}

// Load reads a model document, choosing the decoder from the file extension
func Load(path string) (*Specifications, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model %s", path)
	}
	specs, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load model %s", path)
	}
	return specs, nil
}

// Decode parses a model document in the given format
func Decode(data []byte, format Format) (*Specifications, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf("unsupported model format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s model", format)
	}
	return doc.Build()
}

// Build converts the document into a Specifications
func (d *Document) Build() (*Specifications, error) {
	specs := NewSpecifications()
	for _, ns := range d.Namespaces {
		specs.AddNamespace(ns)
	}
	for i := range d.Elements {
		ed := &d.Elements[i]
		de, err := ed.build()
		if err != nil {
			return nil, errors.Wrapf(err, "element %s.%s", ed.Namespace, ed.Name)
		}
		if err := specs.Add(de); err != nil {
			return nil, err
		}
	}
	specs.DeriveHierarchies()
	return specs, nil
}

func (ed *ElementDocument) build() (*DataElement, error) {
	if ed.Name == "" {
		return nil, errors.New("element has no name")
	}
	de := &DataElement{
		Identifier:  NewIdentifier(ed.Namespace, ed.Name),
		Description: ed.Description,
		Entry:       ed.Entry,
		Hierarchy:   ed.Hierarchy,
	}
	for _, b := range ed.BasedOn {
		de.BasedOn = append(de.BasedOn, ParseIdentifier(b))
	}
	for _, fd := range ed.Fields {
		f, err := fd.build(de.Identifier)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", fd.displayName())
		}
		de.Fields = append(de.Fields, f)
	}
	if ed.Value != nil {
		v, err := ed.Value.build(de.Identifier)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
		de.Value = v
	}
	return de, nil
}

func (vd *ValueDocument) displayName() string {
	if vd.Name != "" {
		return vd.Name
	}
	return vd.Type
}

func (vd *ValueDocument) build(owner Identifier) (*Value, error) {
	v := &Value{Name: vd.Name}

	switch strings.ToLower(vd.Kind) {
	case "", "identifiable":
		v.Kind = Identifiable
	case "ref":
		v.Kind = Ref
	case "choice":
		v.Kind = Choice
	default:
		return nil, errors.Newf("unknown value kind %q", vd.Kind)
	}

	switch Inheritance(strings.ToLower(vd.Inheritance)) {
	case NotInherited:
	case Inherited:
		v.Inheritance = Inherited
	case Overridden:
		v.Inheritance = Overridden
	default:
		return nil, errors.Newf("unknown inheritance %q", vd.Inheritance)
	}

	if v.Kind == Choice {
		if len(vd.Options) == 0 {
			return nil, errors.New("choice value has no options")
		}
		for _, opt := range vd.Options {
			v.Options = append(v.Options, &Value{Identifier: ParseIdentifier(opt)})
		}
	} else {
		if vd.Type == "" {
			return nil, errors.New("value has no type")
		}
		v.Identifier = ParseIdentifier(vd.Type)
	}

	if vd.Card != "" {
		card, err := ParseCardinality(vd.Card)
		if err != nil {
			return nil, err
		}
		v.Card = &card
	}

	for i, cd := range vd.Constraints {
		c, err := cd.build(owner)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i)
		}
		v.Constraints = append(v.Constraints, c)
	}
	return v, nil
}

func (cd *ConstraintDocument) build(owner Identifier) (Constraint, error) {
	kind, err := ParseConstraintKind(cd.Kind)
	if err != nil {
		return Constraint{}, err
	}
	c := Constraint{
		Kind:           kind,
		Code:           cd.Code,
		ValueSet:       cd.ValueSet,
		Strength:       cd.Strength,
		OnValue:        cd.OnValue,
		LastModifiedBy: owner,
	}
	if cd.IsA != "" {
		c.IsA = ParseIdentifier(cd.IsA)
	}
	if cd.Card != "" {
		card, err := ParseCardinality(cd.Card)
		if err != nil {
			return Constraint{}, err
		}
		c.Card = &card
	}
	for _, p := range cd.Path {
		c.Path = append(c.Path, ParseIdentifier(p))
	}
	if cd.LastModifiedBy != "" {
		c.LastModifiedBy = ParseIdentifier(cd.LastModifiedBy)
	}
	// shape is checked when the element is built, so a bad constraint on an
	// element that is never exported does not fail the load
	return c, nil
}

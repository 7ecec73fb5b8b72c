// Package export runs the archetype and schema exporters over a model and
// lays the documents out on disk.
//
// A run returns every document or none: the first error aborts it.
package export

import (
	"time"

	"github.com/teranos/archex/adl"
	"github.com/teranos/archex/archetype"
	"github.com/teranos/archex/bmm"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
)

// Document is one rendered output file
type Document struct {
	// Name is the element name for archetypes, the schema id for the schema
	Name string
	File string
	Text string
}

// Result holds the documents of one run
type Result struct {
	// Archetypes are in construction order, parents before children
	Archetypes []Document
	Schema     Document
}

// ADL maps element names to archetype text
func (r *Result) ADL() map[string]string {
	out := make(map[string]string, len(r.Archetypes))
	for _, d := range r.Archetypes {
		out[d.Name] = d.Text
	}
	return out
}

// Option configures a run
type Option func(*options)

type options struct {
	date      *time.Time
	archetype []archetype.Option
}

// WithDate fixes the date written into archetypes and the schema revision
func WithDate(t time.Time) Option {
	return func(o *options) {
		o.date = &t
	}
}

// WithArchetypeOptions passes options to the archetype registry, after the
// handlers selected by adl.constraint_handlers
func WithArchetypeOptions(opts ...archetype.Option) Option {
	return func(o *options) {
		o.archetype = append(o.archetype, opts...)
	}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ADL renders one archetype per element, keyed by element name
func ADL(src model.Source, cfg *config.Config, opts ...Option) (map[string]string, error) {
	docs, err := archetypes(src, cfg, collect(opts))
	if err != nil {
		return nil, err
	}
	return (&Result{Archetypes: docs}).ADL(), nil
}

// BMM renders the schema of the whole model
func BMM(src model.Source, cfg *config.Config, opts ...Option) (string, error) {
	doc, err := schema(src, cfg, collect(opts))
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// Run renders every archetype and the schema
func Run(src model.Source, cfg *config.Config, opts ...Option) (*Result, error) {
	start := time.Now()
	o := collect(opts)

	docs, err := archetypes(src, cfg, o)
	if err != nil {
		return nil, err
	}
	s, err := schema(src, cfg, o)
	if err != nil {
		return nil, err
	}

	logger.Infow("export complete",
		logger.FieldCount, len(docs),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return &Result{Archetypes: docs, Schema: s}, nil
}

func archetypes(src model.Source, cfg *config.Config, o *options) ([]Document, error) {
	if len(cfg.ADL.ConstraintHandlers) == 0 {
		return nil, errors.NewInvalidConfigError("adl.constraint_handlers cannot be empty; list at least %q", "type")
	}
	handlers, err := archetype.HandlerOptions(cfg.ADL.ConstraintHandlers)
	if err != nil {
		return nil, errors.NewInvalidConfigError("adl.constraint_handlers: %v", err)
	}
	// the registry starts with the type handler; the configured list replaces it
	regOpts := []archetype.Option{archetype.WithoutHandler(model.KindType)}
	regOpts = append(regOpts, handlers...)
	regOpts = append(regOpts, o.archetype...)

	elements, err := archetype.Build(src, regOpts...)
	if err != nil {
		return nil, err
	}

	var adlOpts []adl.Option
	if o.date != nil {
		adlOpts = append(adlOpts, adl.WithDate(*o.date))
	}
	r, err := adl.NewRenderer(src, cfg, adlOpts...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(elements))
	docs := make([]Document, 0, len(elements))
	for _, el := range elements {
		if other, dup := seen[el.Name()]; dup {
			return nil, errors.Newf("archetype %s is produced by both %s and %s", el.Name(), other, el.Identifier.FQN())
		}
		seen[el.Name()] = el.Identifier.FQN()

		text, err := r.Render(el)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: el.Name(), File: r.FileName(el), Text: text})
		dump(docs[len(docs)-1])
	}
	return docs, nil
}

func schema(src model.Source, cfg *config.Config, o *options) (Document, error) {
	var bmmOpts []bmm.Option
	if o.date != nil {
		bmmOpts = append(bmmOpts, bmm.WithDate(*o.date))
	}
	r, err := bmm.NewRenderer(src, cfg, bmmOpts...)
	if err != nil {
		return Document{}, err
	}
	text, err := r.Render()
	if err != nil {
		return Document{}, err
	}
	doc := Document{Name: r.SchemaID(), File: r.FileName(), Text: text}
	dump(doc)
	return doc, nil
}

// dump logs a whole rendered document at -vvvv
func dump(d Document) {
	if !logger.ShouldLogAll(logger.Verbosity) {
		return
	}
	logger.Debugw("rendered document",
		logger.FieldFile, d.File,
		logger.FieldSize, len(d.Text),
		"text", d.Text)
}

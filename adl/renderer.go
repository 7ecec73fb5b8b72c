// Package adl renders archetype elements as ADL 2 documents.
//
// Each document is assembled from flat, unindented lines; the ODIN sections
// are then indented by an angle-bracket indent.Engine and the definition
// section by a brace engine.
package adl

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/teranos/archex/archetype"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/indent"
	"github.com/teranos/archex/internal/util"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
)

// Extension is the file extension of a source archetype
const Extension = ".adls"

// Unit is the indentation unit of rendered documents
const Unit = "  "

// Renderer renders archetype elements. Every value that varies between runs,
// the date included, is fixed when the renderer is created, so rendering an
// element twice gives the same text.
type Renderer struct {
	src  model.Source
	prov config.ProvenanceConfig
	adl  config.ADLConfig

	version   string
	rmRelease string
	date      string

	odin *indent.Engine
	cadl *indent.Engine
	log  *zap.SugaredLogger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithDate fixes the original_author date, overriding adl.date
func WithDate(t time.Time) Option {
	return func(r *Renderer) {
		r.date = t.Format(config.DateLayout)
	}
}

// WithLogger overrides the component logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// NewRenderer creates a renderer for the elements of src. The archetype
// version and reference model release must be semantic versions.
func NewRenderer(src model.Source, cfg *config.Config, opts ...Option) (*Renderer, error) {
	version, err := semver.StrictNewVersion(cfg.ADL.ArchetypeVersion)
	if err != nil {
		return nil, errors.NewInvalidConfigError("archetype version %q: %v", cfg.ADL.ArchetypeVersion, err)
	}
	rmRelease, err := semver.StrictNewVersion(cfg.ADL.RMRelease)
	if err != nil {
		return nil, errors.NewInvalidConfigError("rm release %q: %v", cfg.ADL.RMRelease, err)
	}

	r := &Renderer{
		src:       src,
		prov:      cfg.Provenance,
		adl:       cfg.ADL,
		version:   version.String(),
		rmRelease: rmRelease.String(),
		date:      cfg.ADL.Date,
		odin:      indent.New(indent.WithTokens(indent.AngleTokens), indent.WithUnit(Unit), indent.WithBaseDepth(1)),
		cadl:      indent.New(indent.WithTokens(indent.BraceTokens), indent.WithUnit(Unit), indent.WithBaseDepth(1)),
		log:       logger.ComponentLogger("adl"),
	}
	if r.date == "" {
		r.date = time.Now().Format(config.DateLayout)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ArchetypeID returns the archetype id of the element named name, e.g.
// SHR-CORE-ExtendedFoo.extended_foo.v0.0.1
func (r *Renderer) ArchetypeID(name string) string {
	return fmt.Sprintf("%s-%s-%s.%s.v%s", r.adl.RMPublisher, r.adl.RMPackage, name, util.ToSnakeCase(name), r.version)
}

// FileName returns the repository file name of the element's archetype
func (r *Renderer) FileName(el *archetype.Element) string {
	return fmt.Sprintf("%s-%s-%s.v%s%s", r.adl.RMPublisher, r.adl.RMPackage, el.Name(), r.version, Extension)
}

// UID returns the uid derived from an archetype id
func UID(archetypeID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(archetypeID))
}

// Render returns the ADL document for el
func (r *Renderer) Render(el *archetype.Element) (string, error) {
	sections := []string{r.header(el)}
	if el.Parent != nil {
		sections = append(sections, r.section("specialize", []string{r.ArchetypeID(el.Parent.Name())}, r.odin))
	}
	sections = append(sections,
		r.section("language", r.language(), r.odin),
		r.section("description", r.description(el), r.odin),
	)

	definition, err := r.definition(el)
	if err != nil {
		return "", errors.Wrapf(err, "definition of %s", el.Identifier.FQN())
	}
	sections = append(sections, r.section("definition", definition, r.cadl))

	if terms := r.terminology(el); len(terms) > 0 {
		sections = append(sections, r.section("terminology", terms, r.odin))
	}

	r.log.Debugw("rendered archetype",
		logger.FieldElement, el.Identifier.FQN(),
		logger.FieldCount, len(el.Constraints))
	return strings.Join(sections, "\n\n") + "\n", nil
}

func (r *Renderer) header(el *archetype.Element) string {
	id := r.ArchetypeID(el.Name())
	attrs := fmt.Sprintf("adl_version=%s; rm_release=%s", r.adl.ADLVersion, r.rmRelease)
	if r.adl.EmitUID {
		attrs += "; uid=" + UID(id).String()
	}
	return r.section(fmt.Sprintf("archetype (%s)", attrs), []string{id}, r.odin)
}

// section renders a keyword line followed by its body, indented by e
func (r *Renderer) section(keyword string, body []string, e *indent.Engine) string {
	return keyword + "\n" + e.Format(strings.Join(body, "\n"))
}

func (r *Renderer) language() []string {
	return []string{fmt.Sprintf("original_language = <%s>", r.languageCode())}
}

func (r *Renderer) languageCode() string {
	return "[ISO_639-1::" + r.adl.Language + "]"
}

// quote renders s as an ODIN string. Double quotes inside s become single quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

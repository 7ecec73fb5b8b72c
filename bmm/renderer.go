// Package bmm renders a clinical model as one Basic Metamodel schema: one
// package per namespace and one class per data element.
package bmm

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/indent"
	"github.com/teranos/archex/internal/util"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
)

// Extension is the file extension of a schema
const Extension = ".bmm"

// Renderer renders the schema of one model
type Renderer struct {
	src      model.Source
	cfg      config.BMMConfig
	release  string
	revision string
	engine   *indent.Engine
	log      *zap.SugaredLogger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithDate sets the schema revision when bmm.schema_revision is empty
func WithDate(t time.Time) Option {
	return func(r *Renderer) {
		if r.cfg.SchemaRevision == "" {
			r.revision = t.Format(config.DateLayout)
		}
	}
}

// WithLogger overrides the component logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// NewRenderer creates a schema renderer for src
func NewRenderer(src model.Source, cfg *config.Config, opts ...Option) (*Renderer, error) {
	release, err := semver.StrictNewVersion(cfg.BMM.RMRelease)
	if err != nil {
		return nil, errors.NewInvalidConfigError("bmm rm release %q: %v", cfg.BMM.RMRelease, err)
	}

	r := &Renderer{
		src:      src,
		cfg:      cfg.BMM,
		release:  release.String(),
		revision: cfg.BMM.SchemaRevision,
		engine:   indent.New(indent.WithTokens(indent.AngleTokens), indent.WithUnit("\t")),
		log:      logger.ComponentLogger("bmm"),
	}
	if r.revision == "" {
		r.revision = time.Now().Format(config.DateLayout)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// SchemaID is the schema name qualified by its release, e.g. RM_CLINICAL.v0.0.1
func (r *Renderer) SchemaID() string {
	return fmt.Sprintf("%s.v%s", r.cfg.SchemaName, r.release)
}

// FileName returns the schema file name, e.g. SHR_RM_CLINICAL.v.0.0.1.bmm
func (r *Renderer) FileName() string {
	return fmt.Sprintf("%s_%s.v.%s%s", r.cfg.RMPublisher, r.cfg.SchemaName, r.release, Extension)
}

// Render returns the schema document
func (r *Renderer) Render() (string, error) {
	start := time.Now()

	packages := r.packages()
	classes, err := r.classes()
	if err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, r.header()...)
	lines = append(lines, "")
	lines = append(lines, r.archetyping(packages)...)
	lines = append(lines, "")
	lines = append(lines, r.packageLines(packages)...)
	lines = append(lines, "")
	lines = append(lines, classLines(classes)...)

	r.log.Debugw("rendered schema",
		logger.FieldCount, len(classes),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return r.engine.Format(strings.Join(lines, "\n")) + "\n", nil
}

func banner(title string) []string {
	const rule = "-- ----------------------------------"
	return []string{rule, "-- " + title, rule}
}

func (r *Renderer) header() []string {
	lines := []string{
		"-- Basic Metamodel Syntax Version",
		fmt.Sprintf("bmm_version = <%s>", quote(r.cfg.BMMVersion)),
		"",
	}
	lines = append(lines, banner("schema identification")...)
	lines = append(lines,
		"-- (schema_id computed as <rm_publisher>_<schema_name>_<rm_release>)",
		fmt.Sprintf("rm_publisher = <%s>", quote(r.cfg.RMPublisher)),
		fmt.Sprintf("schema_name = <%s>", quote(r.cfg.SchemaName)),
		fmt.Sprintf("rm_release = <%s>", quote(r.release)),
		fmt.Sprintf("model_name = <%s>", quote(r.cfg.ModelName)),
		"",
	)
	lines = append(lines, banner("schema documentation")...)
	return append(lines,
		fmt.Sprintf("schema_revision = <%s>", quote(r.revision)),
		fmt.Sprintf("schema_lifecycle_state = <%s>", quote(r.cfg.LifecycleState)),
		fmt.Sprintf("schema_description = <%s>", quote(r.SchemaID()+" - Schema generated by archex")),
	)
}

// pkg is the schema package of one namespace
type pkg struct {
	name    string
	classes []string
}

// packages lists the namespaces that contribute at least one class
func (r *Renderer) packages() []pkg {
	var out []pkg
	for _, ns := range r.src.Namespaces() {
		elements := r.src.ByNamespace(ns.Name)
		if len(elements) == 0 {
			continue
		}
		p := pkg{name: PackageName(ns.Name)}
		for _, de := range elements {
			p.classes = append(p.classes, de.Identifier.Name)
		}
		out = append(out, p)
	}
	return out
}

// PackageName capitalises each dot-separated namespace segment and joins them
// ("shr.core" -> "ShrCore")
func PackageName(namespace string) string {
	return util.ToPascalCase(namespace, ".")
}

func (r *Renderer) archetyping(packages []pkg) []string {
	closure := make([]string, len(packages))
	for i, p := range packages {
		closure[i] = r.cfg.ClosurePrefix + "." + p.name
	}

	lines := banner("archetyping")
	if len(closure) > 0 {
		lines = append(lines, fmt.Sprintf("archetype_rm_closure_packages = <%s>", quoteList(closure)))
	}
	if len(r.cfg.Includes) > 0 {
		lines = append(lines, "includes = <")
		for i, id := range r.cfg.Includes {
			lines = append(lines,
				fmt.Sprintf(`["%d"] = <`, i+1),
				fmt.Sprintf("id = <%s>", quote(id)),
				">",
			)
		}
		lines = append(lines, ">")
	}
	return lines
}

func (r *Renderer) packageLines(packages []pkg) []string {
	lines := banner("packages")
	lines = append(lines,
		"packages = <",
		fmt.Sprintf("[%s] = <", quote(r.cfg.PackageRoot)),
		fmt.Sprintf("name = <%s>", quote(r.cfg.PackageRoot)),
		"packages = <",
	)
	for _, p := range packages {
		lines = append(lines,
			fmt.Sprintf("[%s] = <", quote(p.name)),
			fmt.Sprintf("name = <%s>", quote(p.name)),
			fmt.Sprintf("classes = <%s>", quoteList(p.classes)),
			">",
		)
	}
	return append(lines, ">", ">", ">")
}

// quote renders s as an ODIN string. Double quotes inside s become single quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quote(s)
	}
	return strings.Join(quoted, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

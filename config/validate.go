package config

import (
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/model"
)

// DateLayout is the format of adl.date
const DateLayout = "2006-01-02"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provenance.LeadAuthor.Name) == "" {
		return errors.NewInvalidConfigError("provenance.lead_author.name is required")
	}
	for i, a := range c.Provenance.OtherAuthors {
		if strings.TrimSpace(a.Name) == "" {
			return errors.NewInvalidConfigError("provenance.other_authors[%d].name is required", i)
		}
	}

	versions := []struct{ key, value string }{
		{"adl.archetype_version", c.ADL.ArchetypeVersion},
		{"adl.rm_release", c.ADL.RMRelease},
		{"bmm.rm_release", c.BMM.RMRelease},
	}
	for _, v := range versions {
		if _, err := semver.StrictNewVersion(v.value); err != nil {
			return errors.NewInvalidConfigError("%s must be a semantic version (major.minor.patch), got %q", v.key, v.value)
		}
	}

	if c.ADL.RMPublisher == "" || c.ADL.RMPackage == "" {
		return errors.NewInvalidConfigError("adl.rm_publisher and adl.rm_package cannot be empty")
	}
	if c.BMM.SchemaName == "" {
		return errors.NewInvalidConfigError("bmm.schema_name cannot be empty")
	}

	if c.ADL.Date != "" {
		if _, err := time.Parse(DateLayout, c.ADL.Date); err != nil {
			return errors.NewInvalidConfigError("adl.date must be YYYY-MM-DD, got %q", c.ADL.Date)
		}
	}

	if len(c.ADL.ConstraintHandlers) == 0 {
		return errors.NewInvalidConfigError("adl.constraint_handlers cannot be empty; list at least %q", "type")
	}
	for _, name := range c.ADL.ConstraintHandlers {
		kind, err := model.ParseConstraintKind(name)
		if err != nil {
			return errors.NewInvalidConfigError("adl.constraint_handlers: unknown kind %q", name)
		}
		if kind == model.KindIncludesType || kind == model.KindIncludesCode {
			return errors.NewInvalidConfigError("adl.constraint_handlers: %s constraints are not rendered", kind)
		}
	}

	return nil
}

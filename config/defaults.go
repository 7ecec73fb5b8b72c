package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultADLVersion       = "2.3"
	DefaultRMRelease        = "0.0.1"
	DefaultArchetypeVersion = "0.0.1"
	DefaultRMPublisher      = "SHR"
	DefaultRMPackage        = "CORE"
	DefaultLanguage         = "en"
	DefaultLifecycleState   = "initial"
	DefaultLicence          = "Creative Commons CC-BY <https://creativecommons.org/licenses/by/3.0/>"

	DefaultBMMVersion        = "2.1"
	DefaultSchemaName        = "RM_CLINICAL"
	DefaultModelName         = "CORE"
	DefaultSchemaLifecycle   = "dstu"
	DefaultPackageRoot       = "SHR_Clinical"
	DefaultClosurePrefix     = "SHR_CLINICAL"
	DefaultPrimitivesInclude = "shr_rm_primitives_0.0.1"

	DefaultOutputDir = "out"
)

// SetDefaults configures default values for all settings
func SetDefaults(v *viper.Viper) {
	// ADL
	v.SetDefault("adl.adl_version", DefaultADLVersion)
	v.SetDefault("adl.rm_release", DefaultRMRelease)
	v.SetDefault("adl.archetype_version", DefaultArchetypeVersion)
	v.SetDefault("adl.rm_publisher", DefaultRMPublisher)
	v.SetDefault("adl.rm_package", DefaultRMPackage)
	v.SetDefault("adl.language", DefaultLanguage)
	v.SetDefault("adl.lifecycle_state", DefaultLifecycleState)
	v.SetDefault("adl.licence", DefaultLicence)
	v.SetDefault("adl.date", "")
	v.SetDefault("adl.emit_uid", false)
	v.SetDefault("adl.constraint_handlers", []string{"type"})

	// BMM
	v.SetDefault("bmm.bmm_version", DefaultBMMVersion)
	v.SetDefault("bmm.rm_publisher", DefaultRMPublisher)
	v.SetDefault("bmm.schema_name", DefaultSchemaName)
	v.SetDefault("bmm.rm_release", DefaultRMRelease)
	v.SetDefault("bmm.model_name", DefaultModelName)
	v.SetDefault("bmm.schema_revision", "")
	v.SetDefault("bmm.lifecycle_state", DefaultSchemaLifecycle)
	v.SetDefault("bmm.package_root", DefaultPackageRoot)
	v.SetDefault("bmm.closure_prefix", DefaultClosurePrefix)
	v.SetDefault("bmm.includes", []string{DefaultPrimitivesInclude})

	// Output
	v.SetDefault("output.dir", DefaultOutputDir)
}

// BindProvenanceEnvVars explicitly binds the provenance keys, which have no
// defaults and so are invisible to AutomaticEnv during Unmarshal
func BindProvenanceEnvVars(v *viper.Viper) {
	v.BindEnv("provenance.lead_author.name", "ARCHEX_LEAD_AUTHOR_NAME")
	v.BindEnv("provenance.lead_author.organization", "ARCHEX_LEAD_AUTHOR_ORGANIZATION")
	v.BindEnv("provenance.lead_author.email", "ARCHEX_LEAD_AUTHOR_EMAIL")
	v.BindEnv("provenance.publisher", "ARCHEX_PUBLISHER")
	v.BindEnv("provenance.copyright", "ARCHEX_COPYRIGHT")
}

// Default returns the configuration built from defaults alone. Its lead
// author is empty, so it does not validate until one is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

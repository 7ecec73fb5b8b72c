// Package config holds the archex run configuration: archetype provenance,
// the ADL and BMM header parameters, and the output layout.
//
// Values are resolved by viper in this order (later wins): built-in defaults,
// /etc/archex/archex.toml, ~/.archex/archex.toml, the nearest archex.toml
// found walking up from the working directory, then ARCHEX_* environment
// variables.
package config

import "fmt"

// Config is the complete archex configuration
type Config struct {
	Provenance ProvenanceConfig `mapstructure:"provenance" toml:"provenance" json:"provenance" yaml:"provenance"`
	ADL        ADLConfig        `mapstructure:"adl" toml:"adl" json:"adl" yaml:"adl"`
	BMM        BMMConfig        `mapstructure:"bmm" toml:"bmm" json:"bmm" yaml:"bmm"`
	Output     OutputConfig     `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
}

// Author identifies a contributor
type Author struct {
	Name         string `mapstructure:"name" toml:"name" json:"name" yaml:"name"`
	Organization string `mapstructure:"organization" toml:"organization,omitempty" json:"organization,omitempty" yaml:"organization,omitempty"`
	Email        string `mapstructure:"email" toml:"email,omitempty" json:"email,omitempty" yaml:"email,omitempty"`
}

// String renders "name <email>", or just the name
func (a Author) String() string {
	if a.Email == "" {
		return a.Name
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// ProvenanceConfig is passed through to every archetype's description section.
// Optional values that are empty omit their line entirely.
type ProvenanceConfig struct {
	LeadAuthor         Author   `mapstructure:"lead_author" toml:"lead_author" json:"lead_author" yaml:"lead_author"`
	OtherAuthors       []Author `mapstructure:"other_authors" toml:"other_authors,omitempty" json:"other_authors,omitempty" yaml:"other_authors,omitempty"`
	Copyright          string   `mapstructure:"copyright" toml:"copyright,omitempty" json:"copyright,omitempty" yaml:"copyright,omitempty"`
	IPAcknowledgements []string `mapstructure:"ip_acknowledgements" toml:"ip_acknowledgements,omitempty" json:"ip_acknowledgements,omitempty" yaml:"ip_acknowledgements,omitempty"`
	Publisher          string   `mapstructure:"publisher" toml:"publisher,omitempty" json:"publisher,omitempty" yaml:"publisher,omitempty"`
}

// ADLConfig parameterises archetype headers and metadata
type ADLConfig struct {
	ADLVersion       string `mapstructure:"adl_version" toml:"adl_version" json:"adl_version" yaml:"adl_version"`
	RMRelease        string `mapstructure:"rm_release" toml:"rm_release" json:"rm_release" yaml:"rm_release"`
	ArchetypeVersion string `mapstructure:"archetype_version" toml:"archetype_version" json:"archetype_version" yaml:"archetype_version"`
	RMPublisher      string `mapstructure:"rm_publisher" toml:"rm_publisher" json:"rm_publisher" yaml:"rm_publisher"`
	RMPackage        string `mapstructure:"rm_package" toml:"rm_package" json:"rm_package" yaml:"rm_package"`
	Language         string `mapstructure:"language" toml:"language" json:"language" yaml:"language"`
	LifecycleState   string `mapstructure:"lifecycle_state" toml:"lifecycle_state" json:"lifecycle_state" yaml:"lifecycle_state"`
	Licence          string `mapstructure:"licence" toml:"licence" json:"licence" yaml:"licence"`
	// Date is the original_author date (YYYY-MM-DD); empty means the day the renderer is created
	Date string `mapstructure:"date" toml:"date,omitempty" json:"date,omitempty" yaml:"date,omitempty"`
	// EmitUID adds a deterministic uid to each archetype header
	EmitUID bool `mapstructure:"emit_uid" toml:"emit_uid" json:"emit_uid" yaml:"emit_uid"`
	// ConstraintHandlers names the constraint kinds rendered into definitions
	ConstraintHandlers []string `mapstructure:"constraint_handlers" toml:"constraint_handlers" json:"constraint_handlers" yaml:"constraint_handlers"`
}

// BMMConfig parameterises the schema header
type BMMConfig struct {
	BMMVersion  string `mapstructure:"bmm_version" toml:"bmm_version" json:"bmm_version" yaml:"bmm_version"`
	RMPublisher string `mapstructure:"rm_publisher" toml:"rm_publisher" json:"rm_publisher" yaml:"rm_publisher"`
	SchemaName  string `mapstructure:"schema_name" toml:"schema_name" json:"schema_name" yaml:"schema_name"`
	RMRelease   string `mapstructure:"rm_release" toml:"rm_release" json:"rm_release" yaml:"rm_release"`
	ModelName   string `mapstructure:"model_name" toml:"model_name" json:"model_name" yaml:"model_name"`
	// SchemaRevision defaults to the render date
	SchemaRevision string `mapstructure:"schema_revision" toml:"schema_revision,omitempty" json:"schema_revision,omitempty" yaml:"schema_revision,omitempty"`
	LifecycleState string `mapstructure:"lifecycle_state" toml:"lifecycle_state" json:"lifecycle_state" yaml:"lifecycle_state"`
	// PackageRoot names the package enclosing one package per namespace
	PackageRoot string `mapstructure:"package_root" toml:"package_root" json:"package_root" yaml:"package_root"`
	// ClosurePrefix qualifies the namespace packages in archetype_rm_closure_packages
	ClosurePrefix string   `mapstructure:"closure_prefix" toml:"closure_prefix" json:"closure_prefix" yaml:"closure_prefix"`
	Includes      []string `mapstructure:"includes" toml:"includes" json:"includes" yaml:"includes"`
}

// SchemaID is the schema identifier used in descriptions and file names, e.g. RM_CLINICAL.v0.0.1
func (b BMMConfig) SchemaID() string {
	return fmt.Sprintf("%s.v%s", b.SchemaName, b.RMRelease)
}

// OutputConfig controls where export writes the document tree
type OutputConfig struct {
	Dir string `mapstructure:"dir" toml:"dir" json:"dir" yaml:"dir"`
}

package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/teranos/archex/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/archex/archex.toml
	SourceUser        ConfigSource = "user"        // ~/.archex/archex.toml
	SourceProject     ConfigSource = "project"     // nearest archex.toml
	SourceEnvironment ConfigSource = "environment" // ARCHEX_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	// Path is the file path or environment variable name
	Path string
}

// ConfigSources maps flattened keys to the source that last set them during loading
var ConfigSources = make(map[string]SourceInfo)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection lists every effective setting with its source
type Introspection struct {
	Files    []string      `json:"files"`
	Settings []SettingInfo `json:"settings"`
}

// envNames holds the keys bound to a variable name that AutomaticEnv would not derive
var envNames = map[string]string{
	"provenance.lead_author.name":         "ARCHEX_LEAD_AUTHOR_NAME",
	"provenance.lead_author.organization": "ARCHEX_LEAD_AUTHOR_ORGANIZATION",
	"provenance.lead_author.email":        "ARCHEX_LEAD_AUTHOR_EMAIL",
	"provenance.publisher":                "ARCHEX_PUBLISHER",
	"provenance.copyright":                "ARCHEX_COPYRIGHT",
}

// EnvName returns the environment variable that overrides key
func EnvName(key string) string {
	if name, ok := envNames[key]; ok {
		return name
	}
	return "ARCHEX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetIntrospection returns every effective setting, sorted by key, with the
// source tracked while loading
func GetIntrospection() (*Introspection, error) {
	v := GetViper()
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	intro := &Introspection{Files: existingFiles(ConfigPaths())}
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		info, ok := ConfigSources[key]
		if !ok {
			info = SourceInfo{Source: SourceDefault, Path: "built-in default"}
		}
		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return intro, nil
}

func existingFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func trackDefaults(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		ConfigSources[key] = SourceInfo{Source: SourceDefault, Path: "built-in default"}
	}
}

func trackFile(settings map[string]interface{}, source ConfigSource, path string) {
	for _, key := range flattenKeys(settings, "") {
		ConfigSources[key] = SourceInfo{Source: source, Path: path}
	}
}

func trackEnvironment(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		name := EnvName(key)
		if _, ok := os.LookupEnv(name); ok {
			ConfigSources[key] = SourceInfo{Source: SourceEnvironment, Path: name}
		}
	}
}

// flattenKeys returns the dotted leaf keys of a nested settings map
func flattenKeys(settings map[string]interface{}, prefix string) []string {
	var keys []string
	for k, value := range settings {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := value.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, full)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}

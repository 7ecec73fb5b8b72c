package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoModel = `
namespaces:
  - name: demo
    description: Demo elements
elements:
  - namespace: demo
    name: Baz
    description: A baz
  - namespace: demo
    name: Foo
    entry: true
    fields:
      - name: bar
        type: demo.Baz
        card: "1..1"
`

const demoConfig = `
[provenance.lead_author]
name = "Ada Author"
email = "ada@example.org"

[adl]
date = "2024-03-01"

[bmm]
schema_revision = "r1"
`

// setup writes the demo model and configuration and returns their paths
func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.yaml")
	configPath := filepath.Join(dir, "archex.toml")
	require.NoError(t, os.WriteFile(modelPath, []byte(demoModel), 0644))
	require.NoError(t, os.WriteFile(configPath, []byte(demoConfig), 0644))
	return modelPath, configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "archex", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("config", "c", "", "")
	root.AddCommand(ExportCmd, ADLCmd, BMMCmd, ConfigCmd, VersionCmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestADLCommand(t *testing.T) {
	modelPath, configPath := setup(t)

	out, err := execute(t, "adl", modelPath, "Foo", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "archetype (adl_version=2.3; rm_release=0.0.1)\n  SHR-CORE-Foo.foo.v0.0.1\n")
	assert.Contains(t, out, `["name"] = <"Ada Author">`)
	assert.Contains(t, out, `["date"] = <"2024-03-01">`)
	assert.NotContains(t, out, "SHR-CORE-Baz")

	_, err = execute(t, "adl", modelPath, "Baz", "--config", configPath)
	assert.ErrorContains(t, err, `no archetype named "Baz"`)
}

func TestBMMCommand(t *testing.T) {
	modelPath, configPath := setup(t)

	out, err := execute(t, "bmm", modelPath, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, `schema_revision = <"r1">`)
	assert.Contains(t, out, `classes = <"Baz", "Foo">`)
}

func TestExportCommand(t *testing.T) {
	modelPath, configPath := setup(t)
	outDir := t.TempDir()

	_, err := execute(t, "export", modelPath, "--config", configPath, "--out", outDir, "--quiet")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "adl-bmm", "adl-repo", "SHR-CORE-Foo.v0.0.1.adls"))
	assert.FileExists(t, filepath.Join(outDir, "adl-bmm", "rm_schemas", "SHR_RM_CLINICAL.v.0.0.1.bmm"))
	assert.NoFileExists(t, filepath.Join(outDir, "adl-bmm", "adl-repo", "SHR-CORE-Baz.v0.0.1.adls"))
}

func TestInvalidConfigStopsExport(t *testing.T) {
	modelPath, _ := setup(t)
	bare := filepath.Join(t.TempDir(), "archex.toml")
	require.NoError(t, os.WriteFile(bare, []byte("[adl]\narchetype_version = \"1\"\n"), 0644))

	_, err := execute(t, "adl", modelPath, "--config", bare)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestConfigCommands(t *testing.T) {
	_, configPath := setup(t)

	out, err := execute(t, "config", "show", "--config", configPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada Author"`)

	out, err = execute(t, "config", "show", "--config", configPath, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "# archex configuration\n")
	assert.Contains(t, out, "name: Ada Author")

	_, err = execute(t, "config", "show", "--config", configPath, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format: xml")

	_, err = execute(t, "config", "validate", "--config", configPath)
	assert.NoError(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "archex.toml")

	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "adl_version = ")

	_, err = execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.FileExists(t, path+".back1")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"commit_hash": "dev"`)
}

func TestExportCommandJSONSummary(t *testing.T) {
	modelPath, configPath := setup(t)
	outDir := t.TempDir()

	out, err := execute(t, "export", modelPath, "--config", configPath, "--out", outDir, "--quiet=false", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"schema": "rm_schemas/SHR_RM_CLINICAL.v.0.0.1.bmm"`)
	assert.Contains(t, out, `"adl-repo/SHR-CORE-Foo.v0.0.1.adls"`)
}

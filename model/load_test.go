package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoYAML = `
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
  - namespace: demo
    name: ExtendedFoo
    entry: true
    basedOn: [demo.Foo]
    value:
      kind: choice
      options: [string, demo.Baz]
    fields:
      - name: bar
        type: demo.Baz
        inheritance: inherited
        card: "1..1"
      - name: baz2
        type: demo.Baz
        constraints:
          - kind: type
            isA: demo.Baz
            path: [demo.Baz]
          - kind: cardinality
            card: "0..*"
            lastModifiedBy: demo.Foo
`

const demoTOML = `
[[namespaces]]
name = "demo"
description = "Demo elements"

[[elements]]
namespace = "demo"
name = "Baz"

[[elements]]
namespace = "demo"
name = "Foo"
entry = true

  [[elements.fields]]
  name = "bar"
  type = "demo.Baz"
  card = "1..1"

    [[elements.fields.constraints]]
    kind = "code"
    code = { system = "http://loinc.org", code = "1234-5", display = "Thing" }
`

const demoJSON = `{
  "namespaces": [{"name": "demo", "description": "Demo elements"}],
  "elements": [
    {"namespace": "demo", "name": "Baz"},
    {"namespace": "demo", "name": "Foo", "entry": true,
     "value": {"type": "string", "card": "1..1"}}
  ]
}`

func TestDecodeYAML(t *testing.T) {
	specs, err := Decode([]byte(demoYAML), FormatYAML)
	require.NoError(t, err)

	assert.Len(t, specs.All(), 3)
	assert.Len(t, specs.Entries(), 2)

	ns, ok := specs.Namespace("demo")
	require.True(t, ok)
	assert.Equal(t, "Demo elements", ns.Description)

	ext, ok := specs.FindByIdentifier(NewIdentifier("demo", "ExtendedFoo"))
	require.True(t, ok)
	assert.Equal(t, []string{"demo.Foo"}, ext.Hierarchy)
	require.Len(t, ext.Fields, 2)

	bar := ext.Fields[0]
	assert.False(t, bar.IsNew())
	assert.Equal(t, "bar", bar.RoleName())
	assert.True(t, bar.EffectiveCard().IsMandatory())

	baz2 := ext.Fields[1]
	assert.True(t, baz2.IsNew())
	require.Len(t, baz2.Constraints, 2)
	assert.Equal(t, KindType, baz2.Constraints[0].Kind)
	assert.Equal(t, ext.Identifier, baz2.Constraints[0].LastModifiedBy, "defaults to declaring element")
	assert.Equal(t, []Identifier{NewIdentifier("demo", "Baz")}, baz2.Constraints[0].Path)
	assert.Equal(t, NewIdentifier("demo", "Foo"), baz2.Constraints[1].LastModifiedBy)
	assert.Equal(t, "0..*", baz2.EffectiveCard().String())

	require.NotNil(t, ext.Value)
	assert.Equal(t, Choice, ext.Value.Kind)
	assert.False(t, ext.Value.HasIdentifier())
	require.Len(t, ext.Value.Options, 2)
	assert.True(t, ext.Value.Options[0].Identifier.IsPrimitive())
}

func TestDecodeTOML(t *testing.T) {
	specs, err := Decode([]byte(demoTOML), FormatTOML)
	require.NoError(t, err)

	foo, ok := specs.FindByIdentifier(NewIdentifier("demo", "Foo"))
	require.True(t, ok)
	require.Len(t, foo.Fields, 1)
	require.Len(t, foo.Fields[0].Constraints, 1)

	c := foo.Fields[0].Constraints[0]
	assert.Equal(t, KindCode, c.Kind)
	require.NotNil(t, c.Code)
	assert.Equal(t, "1234-5", c.Code.Code)
	assert.NoError(t, c.Validate())
}

func TestDecodeJSON(t *testing.T) {
	specs, err := Decode([]byte(demoJSON), FormatJSON)
	require.NoError(t, err)

	foo, ok := specs.FindByIdentifier(NewIdentifier("demo", "Foo"))
	require.True(t, ok)
	require.NotNil(t, foo.Value)
	assert.Equal(t, NewIdentifier(PrimitiveNamespace, "string"), foo.Value.Identifier)
	assert.Equal(t, "1..1", foo.Value.EffectiveCard().String())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown value kind", doc: "elements:\n  - {namespace: demo, name: A, value: {type: string, kind: list}}\n"},
		{name: "choice without options", doc: "elements:\n  - {namespace: demo, name: A, value: {kind: choice}}\n"},
		{name: "value without type", doc: "elements:\n  - {namespace: demo, name: A, value: {card: '0..1'}}\n"},
		{name: "bad cardinality", doc: "elements:\n  - {namespace: demo, name: A, value: {type: string, card: 'lots'}}\n"},
		{name: "unknown constraint kind", doc: "elements:\n  - {namespace: demo, name: A, value: {type: string, constraints: [{kind: boolean}]}}\n"},
		{name: "duplicate element", doc: "elements:\n  - {namespace: demo, name: A}\n  - {namespace: demo, name: A}\n"},
		{name: "element without name", doc: "elements:\n  - {namespace: demo}\n"},
		{name: "not yaml", doc: "elements: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "model.yml")
	require.NoError(t, os.WriteFile(path, []byte(demoYAML), 0644))
	specs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, specs.All(), 3)

	_, err = Load(filepath.Join(dir, "model.xml"))
	assert.Error(t, err, "unsupported extension")

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

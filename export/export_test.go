package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/archex/archetype"
	"github.com/teranos/archex/config"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func id(name string) model.Identifier {
	return model.NewIdentifier("demo", name)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Provenance.LeadAuthor = config.Author{Name: "Ada Author", Email: "ada@example.org"}
	return cfg
}

func newDemo(t *testing.T) *model.Specifications {
	t.Helper()
	specs := model.NewSpecifications()
	specs.AddNamespace(model.Namespace{Name: "demo", Description: "Demo elements"})
	one := model.NewCardinality(1, 1)
	for _, de := range []*model.DataElement{
		{Identifier: id("Baz"), Description: "A baz", Entry: true},
		{Identifier: id("Foo"), Fields: []*model.Value{{Identifier: id("Baz"), Name: "bar", Card: &one}}},
		{
			Identifier: id("ExtendedFoo"),
			Entry:      true,
			BasedOn:    []model.Identifier{id("Foo")},
			Fields:     []*model.Value{{Identifier: id("Baz"), Name: "baz2"}},
		},
	} {
		require.NoError(t, specs.Add(de))
	}
	specs.DeriveHierarchies()
	return specs
}

func TestRun(t *testing.T) {
	specs := newDemo(t)
	res, err := Run(specs, testConfig(), WithDate(date))
	require.NoError(t, err)

	// Foo is not an entry but is exported as an ancestor of one
	var names, files []string
	for _, d := range res.Archetypes {
		names = append(names, d.Name)
		files = append(files, d.File)
	}
	assert.Equal(t, []string{"Baz", "Foo", "ExtendedFoo"}, names)
	assert.Equal(t, []string{
		"SHR-CORE-Baz.v0.0.1.adls",
		"SHR-CORE-Foo.v0.0.1.adls",
		"SHR-CORE-ExtendedFoo.v0.0.1.adls",
	}, files)

	docs := res.ADL()
	assert.Contains(t, docs["Foo"], "bar matches { Baz[id1.2] }")
	assert.Contains(t, docs["ExtendedFoo"], "specialize\n  SHR-CORE-Foo.foo.v0.0.1")

	assert.Equal(t, "SHR_RM_CLINICAL.v.0.0.1.bmm", res.Schema.File)
	assert.Equal(t, "RM_CLINICAL.v0.0.1", res.Schema.Name)
	assert.Contains(t, res.Schema.Text, `schema_revision = <"2024-03-01">`)
	assert.Contains(t, res.Schema.Text, `is_mandatory = <True>`)
}

func TestADLAndBMMMatchRun(t *testing.T) {
	specs := newDemo(t)
	cfg := testConfig()

	res, err := Run(specs, cfg, WithDate(date))
	require.NoError(t, err)

	docs, err := ADL(specs, cfg, WithDate(date))
	require.NoError(t, err)
	assert.Equal(t, res.ADL(), docs)

	schema, err := BMM(specs, cfg, WithDate(date))
	require.NoError(t, err)
	assert.Equal(t, res.Schema.Text, schema)
}

func TestRunIsAllOrNothing(t *testing.T) {
	specs := newDemo(t)
	require.NoError(t, specs.Add(&model.DataElement{
		Identifier: id("Broken"),
		Entry:      true,
		BasedOn:    []model.Identifier{id("Missing")},
	}))
	specs.DeriveHierarchies()

	res, err := Run(specs, testConfig(), WithDate(date))
	require.Error(t, err)
	assert.True(t, errors.IsLookupError(err))
	assert.Nil(t, res)

	docs, err := ADL(specs, testConfig())
	assert.Error(t, err)
	assert.Nil(t, docs)
}

func TestConfiguredHandlers(t *testing.T) {
	specs := newDemo(t)
	foo, _ := specs.FindByIdentifier(id("Foo"))
	foo.Fields[0].Constraints = []model.Constraint{{Kind: model.KindCardinality, Card: foo.Fields[0].Card, LastModifiedBy: id("Foo")}}

	cfg := testConfig()
	docs, err := ADL(specs, cfg, WithDate(date))
	require.NoError(t, err)
	assert.Contains(t, docs["Foo"], "    bar matches { Baz[id1.2] }")

	cfg.ADL.ConstraintHandlers = []string{"type", "cardinality"}
	docs, err = ADL(specs, cfg, WithDate(date))
	require.NoError(t, err)
	assert.Contains(t, docs["Foo"], "    bar existence matches {1..1} matches { Baz[id1.2] }")

	cfg.ADL.ConstraintHandlers = []string{"includesType"}
	_, err = ADL(specs, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfigError(err))

	// an empty list would drop every type constraint
	cfg.ADL.ConstraintHandlers = nil
	_, err = Run(specs, cfg, WithDate(date))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfigError(err))
	assert.ErrorContains(t, err, "adl.constraint_handlers cannot be empty")
}

func TestArchetypeOptions(t *testing.T) {
	specs := newDemo(t)
	called := false
	noop := archetype.HandlerFunc(func(*archetype.Builder, *archetype.ConstraintBase, model.Constraint) error {
		called = true
		return nil
	})
	foo, _ := specs.FindByIdentifier(id("Foo"))
	foo.Fields[0].Constraints = []model.Constraint{{Kind: model.KindIncludesCode, Code: &model.Concept{System: "http://snomed.info/sct", Code: "1"}, LastModifiedBy: id("Foo")}}

	_, err := ADL(specs, testConfig(), WithArchetypeOptions(archetype.WithHandler(model.KindIncludesCode, noop)))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDuplicateArchetypeNames(t *testing.T) {
	specs := model.NewSpecifications()
	require.NoError(t, specs.Add(&model.DataElement{Identifier: model.NewIdentifier("a", "Same"), Entry: true}))
	require.NoError(t, specs.Add(&model.DataElement{Identifier: model.NewIdentifier("b", "Same"), Entry: true}))

	_, err := ADL(specs, testConfig())
	assert.ErrorContains(t, err, "archetype Same is produced by both a.Same and b.Same")
}

func TestWriteTree(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(newDemo(t), testConfig(), WithDate(date))
	require.NoError(t, err)
	require.NoError(t, WriteTree(dir, res))

	schema, err := os.ReadFile(filepath.Join(dir, "adl-bmm", "rm_schemas", "SHR_RM_CLINICAL.v.0.0.1.bmm"))
	require.NoError(t, err)
	assert.Equal(t, res.Schema.Text, string(schema))

	foo, err := os.ReadFile(filepath.Join(dir, "adl-bmm", "adl-repo", "SHR-CORE-Foo.v0.0.1.adls"))
	require.NoError(t, err)
	assert.Equal(t, res.ADL()["Foo"], string(foo))

	// a second write replaces the tree
	stale := filepath.Join(dir, "adl-bmm", "adl-repo", "SHR-CORE-Gone.v0.0.1.adls")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))
	require.NoError(t, WriteTree(dir, res))
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staging directory left behind")
	assert.Equal(t, "adl-bmm", entries[0].Name())
}

func TestWriteTreeKeepsPreviousTreeWhenSwapFails(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(newDemo(t), testConfig(), WithDate(date))
	require.NoError(t, err)
	require.NoError(t, WriteTree(dir, res))

	marker := filepath.Join(dir, TreeDir, RepoDir, "SHR-CORE-Kept.v0.0.1.adls")
	require.NoError(t, os.WriteFile(marker, []byte("kept"), 0644))

	// the second rename moves the staged tree into place
	calls := 0
	rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: os.ErrPermission}
		}
		return os.Rename(oldpath, newpath)
	}
	t.Cleanup(func() { rename = os.Rename })

	err = WriteTree(dir, res)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to move tree into")
	assert.Equal(t, 3, calls, "previous tree moved back")

	kept, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(kept))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TreeDir, entries[0].Name())
}

func TestDocumentsAreDumpedAtFullVerbosity(t *testing.T) {
	prevLogger, prevVerbosity := logger.Logger, logger.Verbosity
	t.Cleanup(func() { logger.Logger, logger.Verbosity = prevLogger, prevVerbosity })

	core, logs := observer.New(zapcore.DebugLevel)
	logger.Logger = zap.New(core).Sugar()

	logger.Verbosity = logger.VerbosityTrace
	_, err := Run(newDemo(t), testConfig(), WithDate(date))
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("rendered document").Len())

	logger.Verbosity = logger.VerbosityAll
	res, err := Run(newDemo(t), testConfig(), WithDate(date))
	require.NoError(t, err)
	dumped := logs.FilterMessage("rendered document").All()
	require.Len(t, dumped, len(res.Archetypes)+1)
	assert.Equal(t, res.Schema.File, dumped[len(dumped)-1].ContextMap()[logger.FieldFile])
	assert.Equal(t, res.Schema.Text, dumped[len(dumped)-1].ContextMap()["text"])
}

package archetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
	"github.com/teranos/archex/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandlerOptions(t *testing.T) {
	opts, err := HandlerOptions([]string{"type", "cardinality", "code", "ValueSet"})
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	_, err = HandlerOptions([]string{"includesType"})
	assert.Error(t, err, "include kinds have no handler")

	_, err = HandlerOptions([]string{"boolean"})
	assert.Error(t, err)
}

// newCoded returns an Obs element whose status field points at Status, an
// element with a coded value
func newCoded(t *testing.T, constraints ...model.Constraint) *model.Specifications {
	t.Helper()
	specs := model.NewSpecifications()
	require.NoError(t, specs.Add(&model.DataElement{
		Identifier: id("Status"),
		Value:      &model.Value{Identifier: model.ParseIdentifier("code")},
	}))
	require.NoError(t, specs.Add(&model.DataElement{Identifier: id("Note")}))
	require.NoError(t, specs.Add(&model.DataElement{
		Identifier: id("Obs"),
		Fields:     []*model.Value{{Identifier: id("Status"), Name: "status", Constraints: constraints}},
	}))
	return specs
}

func allHandlers(t *testing.T) []Option {
	t.Helper()
	opts, err := HandlerOptions([]string{"type", "cardinality", "code", "valueset"})
	require.NoError(t, err)
	return opts
}

func TestCardinalityHandler(t *testing.T) {
	owner := id("Obs")
	specs := newCoded(t,
		model.Constraint{Kind: model.KindCardinality, Card: card(1, 1), LastModifiedBy: owner},
		model.Constraint{Kind: model.KindCardinality, Card: card(1, 3), OnValue: true, LastModifiedBy: owner},
		model.Constraint{Kind: model.KindCardinality, Card: card(0, 0), Path: []model.Identifier{id("Note")}, LastModifiedBy: owner},
	)
	el := resolve(t, NewRegistry(specs, allHandlers(t)...), specs, "Obs")

	base := el.Constraints[0]
	require.NotNil(t, base.Existence)
	assert.Equal(t, "1..1", base.Existence.String())

	require.Len(t, base.Subs, 3)
	value := base.Subs[1]
	assert.Equal(t, SubCardinality, value.Kind)
	assert.True(t, value.OnValue)
	assert.Equal(t, "CODE", value.Term.Name)
	assert.Equal(t, "1..3", value.Card.String())

	nested := base.Subs[2]
	assert.Equal(t, "Note", nested.Term.Name)
	assert.Equal(t, []model.Identifier{id("Note")}, nested.Path)
}

func TestCardinalityOnValuelessField(t *testing.T) {
	owner := id("Obs")
	specs := model.NewSpecifications()
	require.NoError(t, specs.Add(&model.DataElement{Identifier: id("Note")}))
	obs := &model.DataElement{Identifier: owner, Fields: []*model.Value{{
		Identifier:  id("Note"),
		Constraints: []model.Constraint{{Kind: model.KindCardinality, Card: card(1, 1), OnValue: true, LastModifiedBy: owner}},
	}}}
	require.NoError(t, specs.Add(obs))

	_, err := NewRegistry(specs, allHandlers(t)...).Resolve(obs)
	require.Error(t, err)
	assert.True(t, errors.IsMalformedConstraintError(err))
}

func TestCodeAndValueSetHandlers(t *testing.T) {
	owner := id("Obs")
	concept := &model.Concept{System: "http://loinc.org", Code: "1234-5", Display: "Status code"}
	specs := newCoded(t,
		model.Constraint{Kind: model.KindValueSet, ValueSet: "http://hl7.org/fhir/ValueSet/status", LastModifiedBy: owner},
		model.Constraint{Kind: model.KindCode, Code: concept, LastModifiedBy: owner},
		model.Constraint{Kind: model.KindCode, Code: concept, LastModifiedBy: owner},
	)
	el := resolve(t, NewRegistry(specs, allHandlers(t)...), specs, "Obs")

	subs := el.Constraints[0].Subs
	require.Len(t, subs, 4)
	assert.Equal(t, SubValueSet, subs[1].Kind)
	assert.Equal(t, "ac1.2", subs[1].Term.Ref())
	assert.True(t, subs[1].OnValue)
	assert.Equal(t, SubCode, subs[2].Kind)
	assert.Equal(t, "at1.2", subs[2].Term.Ref())
	assert.Same(t, subs[2].Term, subs[3].Term)

	require.Len(t, el.Bindings, 2, "duplicate bindings collapse")
	assert.Equal(t, "hl7", el.Bindings[0].CodeSystem)
	assert.Equal(t, "http://hl7.org/fhir/ValueSet/status", el.Bindings[0].Value)
	assert.Equal(t, "loinc", el.Bindings[1].CodeSystem)
	assert.Equal(t, "http://loinc.org/1234-5", el.Bindings[1].Value)
	assert.Same(t, subs[2].Term, el.Bindings[1].Term)
}

func TestDisabledHandlersAreSkipped(t *testing.T) {
	owner := id("Obs")
	specs := newCoded(t,
		model.Constraint{Kind: model.KindCardinality, Card: card(1, 1), LastModifiedBy: owner},
		model.Constraint{Kind: model.KindIncludesType, IsA: id("Note"), LastModifiedBy: owner},
		model.Constraint{Kind: model.KindType, IsA: id("Note"), LastModifiedBy: owner},
	)

	el := resolve(t, NewRegistry(specs), specs, "Obs")
	base := el.Constraints[0]
	assert.Nil(t, base.Existence)
	require.Len(t, base.Subs, 2)
	assert.Equal(t, "Note", base.Subs[1].Term.Name)

	el = resolve(t, NewRegistry(specs, WithoutHandler(model.KindType)), specs, "Obs")
	assert.Len(t, el.Constraints[0].Subs, 1, "only the seeded declaration")
}

func TestCustomHandler(t *testing.T) {
	owner := id("Obs")
	specs := newCoded(t, model.Constraint{Kind: model.KindIncludesType, IsA: id("Note"), LastModifiedBy: owner})

	var seen []model.ConstraintKind
	h := HandlerFunc(func(b *Builder, base *ConstraintBase, c model.Constraint) error {
		seen = append(seen, c.Kind)
		assert.Equal(t, "Obs", b.Element().Name())
		return nil
	})
	resolve(t, NewRegistry(specs, WithHandler(model.KindIncludesType, h)), specs, "Obs")
	assert.Equal(t, []model.ConstraintKind{model.KindIncludesType}, seen)
}

func TestTraceLogsFollowVerbosity(t *testing.T) {
	owner := id("Obs")
	constraints := []model.Constraint{
		{Kind: model.KindValueSet, ValueSet: "http://hl7.org/fhir/ValueSet/status", LastModifiedBy: owner},
		{Kind: model.KindType, IsA: id("Note"), Path: []model.Identifier{id("Note")}, LastModifiedBy: owner},
	}

	build := func(verbosity int) *observer.ObservedLogs {
		core, logs := observer.New(zapcore.DebugLevel)
		specs := newCoded(t, constraints...)
		opts := append(allHandlers(t), WithLogger(zap.New(core).Sugar()), WithVerbosity(verbosity))
		resolve(t, NewRegistry(specs, opts...), specs, "Obs")
		return logs
	}

	traced := build(logger.VerbosityTrace)
	assigned := traced.FilterMessage("assigned local term").All()
	require.Len(t, assigned, 1)
	assert.Equal(t, "ac1.2", assigned[0].ContextMap()[logger.FieldNodeID])
	assert.Equal(t, "demo.Obs", assigned[0].ContextMap()[logger.FieldElement])
	assert.Equal(t, 2, traced.FilterMessage("dispatching constraint").Len())
	assert.Equal(t, 1, traced.FilterMessage("minted id term").Len())

	quiet := build(logger.VerbosityDebug)
	assert.Zero(t, quiet.FilterMessage("assigned local term").Len())
	assert.Zero(t, quiet.FilterMessage("dispatching constraint").Len())
	assert.Zero(t, quiet.FilterMessage("minted id term").Len())
	assert.Equal(t, 1, quiet.FilterMessage("constructed element").Len())
}

func TestValueOfMissingTypeIsLookupError(t *testing.T) {
	owner := id("Child")
	specs := newCoded(t)
	require.NoError(t, specs.Add(&model.DataElement{
		Identifier: owner,
		BasedOn:    []model.Identifier{id("Obs")},
		Fields: []*model.Value{{
			Identifier:  id("Gone"),
			Name:        "status",
			Inheritance: model.Overridden,
			Constraints: []model.Constraint{
				{Kind: model.KindCardinality, Card: card(1, 1), OnValue: true, LastModifiedBy: owner},
			},
		}},
	}))
	specs.DeriveHierarchies()

	de, _ := specs.FindByIdentifier(owner)
	_, err := NewRegistry(specs, allHandlers(t)...).Resolve(de)
	require.Error(t, err)
	assert.True(t, errors.IsLookupError(err))
	assert.ErrorContains(t, err, "type demo.Gone of field status")
}

package jtd_test

import (
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/internal/jtdref"
	"github.com/stretchr/testify/assert"
)

func mustCompile(t *testing.T, schema map[string]interface{}) *jtd.CompiledSchema {
	t.Helper()
	compiled, err := jtd.Compile(schema)
	assert.NoError(t, err)
	return compiled
}

// scenario1 through scenario6 are the literal scenarios from the design
// document's Testable Properties section, checked against the reference
// validator.

func TestScenario1TypeMismatch(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	errs, err := jtdref.Validate(compiled, float64(42), jtdref.Settings{})
	assert.NoError(t, err)
	assert.Equal(t, []jtdref.ValidationError{
		{InstancePath: []string{}, SchemaPath: []string{"type"}},
	}, errs)
}

func TestScenario2ElementsTypeMismatch(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"elements": map[string]interface{}{"type": "string"},
	})
	instance := []interface{}{"a", float64(5), "b"}
	errs, err := jtdref.Validate(compiled, instance, jtdref.Settings{})
	assert.NoError(t, err)
	assert.Equal(t, []jtdref.ValidationError{
		{InstancePath: []string{"1"}, SchemaPath: []string{"elements", "type"}},
	}, errs)
}

func TestScenario3PropertiesMixedErrors(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
		"optionalProperties": map[string]interface{}{
			"age": map[string]interface{}{"type": "uint8"},
		},
	})
	instance := map[string]interface{}{
		"name": float64(1),
		"age":  float64(-1),
		"x":    true,
	}
	errs, err := jtdref.Validate(compiled, instance, jtdref.Settings{})
	assert.NoError(t, err)
	assert.ElementsMatch(t, []jtdref.ValidationError{
		{InstancePath: []string{"name"}, SchemaPath: []string{"properties", "name", "type"}},
		{InstancePath: []string{"age"}, SchemaPath: []string{"optionalProperties", "age", "type"}},
		{InstancePath: []string{"x"}, SchemaPath: []string{"properties"}},
	}, errs)
}

func TestScenario4DiscriminatorUnknownTag(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"discriminator": "kind",
		"mapping": map[string]interface{}{
			"cat": map[string]interface{}{
				"properties": map[string]interface{}{
					"meow": map[string]interface{}{"type": "boolean"},
				},
			},
		},
	})
	instance := map[string]interface{}{"kind": "dog"}
	errs, err := jtdref.Validate(compiled, instance, jtdref.Settings{})
	assert.NoError(t, err)
	assert.Equal(t, []jtdref.ValidationError{
		{InstancePath: []string{"kind"}, SchemaPath: []string{"mapping"}},
	}, errs)
}

func TestScenario5RefAnchorsSchemaPathAtDefinition(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"definitions": map[string]interface{}{
			"addr": map[string]interface{}{"type": "string"},
		},
		"ref": "addr",
	})
	errs, err := jtdref.Validate(compiled, float64(7), jtdref.Settings{})
	assert.NoError(t, err)
	assert.Equal(t, []jtdref.ValidationError{
		{InstancePath: []string{}, SchemaPath: []string{"definitions", "addr", "type"}},
	}, errs)
}

func TestScenario6LeapSecondTimestampIsValid(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "timestamp"})
	errs, err := jtdref.Validate(compiled, "1990-12-31T23:59:60Z", jtdref.Settings{})
	assert.NoError(t, err)
	// The reference validator checks a ":60" second as ":59" before
	// time.Parse, like the emitted targets' timestamp checks.
	assert.Empty(t, errs)
}

func TestMultipleFormsRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"type": "string",
		"enum": []interface{}{"a"},
	})
	assert.Error(t, err)
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.MultipleForms, ce.Kind)
}

func TestEachFormRoundTrips(t *testing.T) {
	cases := []struct {
		name   string
		schema map[string]interface{}
		form   jtd.Form
	}{
		{"empty", map[string]interface{}{}, jtd.FormEmpty},
		{"ref", map[string]interface{}{
			"definitions": map[string]interface{}{"a": map[string]interface{}{}},
			"ref":         "a",
		}, jtd.FormRef},
		{"type", map[string]interface{}{"type": "string"}, jtd.FormType},
		{"enum", map[string]interface{}{"enum": []interface{}{"a"}}, jtd.FormEnum},
		{"elements", map[string]interface{}{"elements": map[string]interface{}{}}, jtd.FormElements},
		{"values", map[string]interface{}{"values": map[string]interface{}{}}, jtd.FormValues},
		{"properties", map[string]interface{}{"properties": map[string]interface{}{}}, jtd.FormProperties},
		{"discriminator", map[string]interface{}{
			"discriminator": "kind",
			"mapping":       map[string]interface{}{},
		}, jtd.FormDiscriminator},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := jtd.Compile(tt.schema)
			assert.NoError(t, err)
			assert.Equal(t, tt.form, compiled.Root.Form())
		})
	}
}

func TestRefNotFound(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{"ref": "missing"})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.RefNotFound, ce.Kind)
	assert.Equal(t, "missing", ce.Detail)
}

func TestDefinitionsInNonRootRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"elements": map[string]interface{}{
			"definitions": map[string]interface{}{},
		},
	})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.DefinitionsInNonRoot, ce.Kind)
}

func TestOverlappingPropertiesRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"properties":         map[string]interface{}{"a": map[string]interface{}{}},
		"optionalProperties": map[string]interface{}{"a": map[string]interface{}{}},
	})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.OverlappingProperties, ce.Kind)
}

func TestEnumDuplicatesRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"enum": []interface{}{"a", "b", "a"},
	})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.EnumDuplicates, ce.Kind)
}

func TestTagInVariantRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"discriminator": "kind",
		"mapping": map[string]interface{}{
			"cat": map[string]interface{}{
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{"type": "string"},
				},
			},
		},
	})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.TagInVariant, ce.Kind)
}

func TestMappingNotPropertiesRejected(t *testing.T) {
	_, err := jtd.Compile(map[string]interface{}{
		"discriminator": "kind",
		"mapping": map[string]interface{}{
			"cat": map[string]interface{}{"type": "string"},
		},
	})
	ce, ok := err.(*jtd.CompileError)
	assert.True(t, ok)
	assert.Equal(t, jtd.MappingNotProperties, ce.Kind)
}

func TestDefinitionsResolveOutOfOrder(t *testing.T) {
	// "a" refs "b", which is declared later in the source object -- but Go
	// maps have no source order anyway, so this instead exercises the
	// two-pass placeholder registration directly: every definition must be
	// visible to every other definition regardless of map iteration order.
	compiled := mustCompile(t, map[string]interface{}{
		"definitions": map[string]interface{}{
			"a": map[string]interface{}{"ref": "b"},
			"b": map[string]interface{}{"type": "string"},
		},
		"ref": "a",
	})
	aNode, ok := compiled.Definitions.Get("a")
	assert.True(t, ok)
	assert.Equal(t, jtd.FormRef, aNode.Form())
	assert.Equal(t, "b", aNode.RefName())
}

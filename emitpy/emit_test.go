package emitpy_test

import (
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitpy"
	"github.com/stretchr/testify/assert"
)

func mustCompile(t *testing.T, schema map[string]interface{}) *jtd.CompiledSchema {
	t.Helper()
	compiled, err := jtd.Compile(schema)
	assert.NoError(t, err)
	return compiled
}

func TestEmitTypeProducesIsinstanceCheck(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	src := emitpy.Emit(compiled)
	assert.Contains(t, src, "def validate(instance):")
	assert.Contains(t, src, "not isinstance(instance, str)")
}

func TestEmitEmptyBodyFallsBackToPass(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{})
	src := emitpy.Emit(compiled)
	assert.Contains(t, src, "def validate(instance):")
	assert.Contains(t, src, "pass")
}

func TestEmitTimestampPreambleOmittedWhenUnused(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	src := emitpy.Emit(compiled)
	assert.NotContains(t, src, "_TIMESTAMP_RE")
}

func TestEmitTimestampPreambleIncludedWhenUsed(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "timestamp"})
	src := emitpy.Emit(compiled)
	assert.Contains(t, src, "_TIMESTAMP_RE")
	assert.Contains(t, src, "_is_valid_timestamp")
}

func TestEmitPropertiesAnchorsAdditionalPropertiesPath(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	})
	src := emitpy.Emit(compiled)
	assert.Contains(t, src, `"schemaPath": "" + "/properties"`)
}

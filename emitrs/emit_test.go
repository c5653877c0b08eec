package emitrs_test

import (
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitrs"
	"github.com/stretchr/testify/assert"
)

func mustCompile(t *testing.T, schema map[string]interface{}) *jtd.CompiledSchema {
	t.Helper()
	compiled, err := jtd.Compile(schema)
	assert.NoError(t, err)
	return compiled
}

func TestEmitDeclaresJtdErrorStruct(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	src := emitrs.Emit(compiled)
	assert.Contains(t, src, "pub struct JtdError")
	assert.Contains(t, src, "pub fn validate(instance: &Value) -> Vec<JtdError>")
}

func TestEmitRfc3339HelperOmittedWhenUnused(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	src := emitrs.Emit(compiled)
	assert.NotContains(t, src, "is_rfc3339")
}

func TestEmitRfc3339HelperIncludedWhenUsed(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "timestamp"})
	src := emitrs.Emit(compiled)
	assert.Contains(t, src, "fn is_rfc3339(s: &str) -> bool")
}

func TestEmitPropertiesAnchorsAdditionalPropertiesPath(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	})
	src := emitrs.Emit(compiled)
	assert.Contains(t, src, `&format!("{}/properties", "")`)
}

func TestEmitDefinitionFunctionSignature(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"definitions": map[string]interface{}{
			"addr": map[string]interface{}{"type": "string"},
		},
		"ref": "addr",
	})
	src := emitrs.Emit(compiled)
	assert.Contains(t, src, "fn validate_addr(v: &Value, e: &mut Vec<JtdError>, p: &str, sp: &str)")
}

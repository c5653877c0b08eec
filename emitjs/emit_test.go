package emitjs_test

import (
	"strings"
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitjs"
	"github.com/stretchr/testify/assert"
)

func mustCompile(t *testing.T, schema map[string]interface{}) *jtd.CompiledSchema {
	t.Helper()
	compiled, err := jtd.Compile(schema)
	assert.NoError(t, err)
	return compiled
}

func TestEmitTypeProducesTypeCheck(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"type": "string"})
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, "export function validate(instance)")
	assert.Contains(t, src, `typeof instance !== "string"`)
	assert.Contains(t, src, `schemaPath: "" + "/type"`)
}

func TestEmitDefinitionsBeforeValidate(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"definitions": map[string]interface{}{
			"addr": map[string]interface{}{"type": "string"},
		},
		"ref": "addr",
	})
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, "function validate_addr(v, e, p, sp)")
	assert.Contains(t, src, `validate_addr(instance, e, "", "/definitions/addr");`)
	assert.Less(t, strings.Index(src, "function validate_addr("), strings.Index(src, "export function validate("))
}

func TestEmitPropertiesAnchorsAdditionalPropertiesPath(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	})
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, `schemaPath: "" + "/properties"`)
}

func TestEmitOptionalOnlyPropertiesAnchorsOptional(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{
		"optionalProperties": map[string]interface{}{
			"age": map[string]interface{}{"type": "uint8"},
		},
	})
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, `schemaPath: "" + "/optionalProperties"`)
}

func TestEmitDiscriminatorVariants(t *testing.T) {
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
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, `else if (instance["kind"] === "cat")`)
	assert.Contains(t, src, `"/mapping/cat"`)
}

func TestEmitNullableSkipsEmptyInner(t *testing.T) {
	compiled := mustCompile(t, map[string]interface{}{"nullable": true})
	src := emitjs.Emit(compiled)
	assert.Contains(t, src, "export function validate(instance)")
	assert.NotContains(t, src, "!== null")
}

package emitpy_test

import (
	"testing"

	"github.com/jsontypedef/jtd-codegen/emitpy"
	"github.com/stretchr/testify/assert"
)

func TestRootContext(t *testing.T) {
	ctx := emitpy.RootContext()
	assert.Equal(t, "instance", ctx.Val)
	assert.Equal(t, `""`, ctx.IP)
}

func TestElementPathUsesStrConversion(t *testing.T) {
	ctx := emitpy.RootContext().Element("i")
	assert.Equal(t, `"" + "/" + str(i)`, ctx.IP)
}

func TestValuesEntryPathNoStrConversion(t *testing.T) {
	ctx := emitpy.RootContext().ValuesEntry("k")
	assert.Equal(t, `"" + "/" + k`, ctx.IP)
}

func TestPushErrorDynamicIPInsertsSlash(t *testing.T) {
	ctx := emitpy.RootContext()
	stmt := ctx.PushErrorDynamicIP("k", "/properties")
	assert.Equal(t, `e.append({"instancePath": "" + "/" + k, "schemaPath": "" + "/properties"})`, stmt)
}

func TestRequiredPropEscapesKey(t *testing.T) {
	ctx := emitpy.RootContext().RequiredProp(`na"me`)
	assert.Contains(t, ctx.Val, `na\"me`)
	assert.Contains(t, ctx.IP, `na\"me`)
	assert.Contains(t, ctx.SP, `na\"me`)
}

func TestOptionalPropEscapesKey(t *testing.T) {
	ctx := emitpy.RootContext().OptionalProp(`na"me`)
	assert.Contains(t, ctx.Val, `na\"me`)
	assert.Contains(t, ctx.SP, `na\"me`)
}

func TestDiscrimVariantEscapesKey(t *testing.T) {
	ctx := emitpy.RootContext().DiscrimVariant(`na"me`)
	assert.Contains(t, ctx.SP, `na\"me`)
}

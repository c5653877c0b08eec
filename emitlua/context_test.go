package emitlua_test

import (
	"testing"

	"github.com/jsontypedef/jtd-codegen/emitlua"
	"github.com/stretchr/testify/assert"
)

func TestRootContext(t *testing.T) {
	ctx := emitlua.RootContext()
	assert.Equal(t, "instance", ctx.Val)
	assert.Equal(t, `""`, ctx.IP)
}

func TestElementPathSubtractsOneForOneBasedIndex(t *testing.T) {
	ctx := emitlua.RootContext().Element("i")
	assert.Equal(t, `"" .. "/" .. (i - 1)`, ctx.IP)
}

func TestPushErrorDynamicIPInsertsSlash(t *testing.T) {
	ctx := emitlua.RootContext()
	stmt := ctx.PushErrorDynamicIP("k", "/properties")
	assert.Equal(t, `table.insert(e, {instancePath = "" .. "/" .. k, schemaPath = "" .. "/properties"})`, stmt)
}

func TestRequiredPropEscapesKey(t *testing.T) {
	ctx := emitlua.RootContext().RequiredProp(`na"me`)
	assert.Contains(t, ctx.Val, `na\"me`)
}

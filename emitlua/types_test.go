package emitlua_test

import (
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitlua"
	"github.com/stretchr/testify/assert"
)

func TestTypeConditionBoolean(t *testing.T) {
	assert.Equal(t, `type(v) ~= "boolean"`, emitlua.TypeCondition(jtd.TypeBoolean, "v"))
}

func TestTypeConditionIntUsesMathFloor(t *testing.T) {
	cond := emitlua.TypeCondition(jtd.TypeUint8, "v")
	assert.Contains(t, cond, "math.floor(v)")
	assert.Contains(t, cond, "v > 255")
}

func TestTypeConditionPanicsOnUnknownKeyword(t *testing.T) {
	assert.Panics(t, func() {
		emitlua.TypeCondition(jtd.TypeKeyword("bogus"), "v")
	})
}

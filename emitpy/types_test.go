package emitpy_test

import (
	"testing"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitpy"
	"github.com/stretchr/testify/assert"
)

func TestTypeConditionBooleanExcludesBoolFromNumeric(t *testing.T) {
	cond := emitpy.TypeCondition(jtd.TypeUint8, "v")
	assert.Contains(t, cond, "isinstance(v, bool)")
}

func TestTypeConditionString(t *testing.T) {
	assert.Equal(t, "not isinstance(v, str)", emitpy.TypeCondition(jtd.TypeString, "v"))
}

func TestTypeConditionPanicsOnUnknownKeyword(t *testing.T) {
	assert.Panics(t, func() {
		emitpy.TypeCondition(jtd.TypeKeyword("bogus"), "v")
	})
}

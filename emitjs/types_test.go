package emitjs_test

import (
	"testing"

	"github.com/jsontypedef/jtd-codegen/emitjs"
	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/stretchr/testify/assert"
)

func TestTypeConditionBoolean(t *testing.T) {
	assert.Equal(t, `typeof v !== "boolean"`, emitjs.TypeCondition(jtd.TypeBoolean, "v"))
}

func TestTypeConditionUint8IncludesRange(t *testing.T) {
	cond := emitjs.TypeCondition(jtd.TypeUint8, "v")
	assert.Contains(t, cond, "v < 0")
	assert.Contains(t, cond, "v > 255")
	assert.Contains(t, cond, "Number.isInteger(v)")
}

func TestTypeConditionTimestampAcceptsLeapSecondPattern(t *testing.T) {
	cond := emitjs.TypeCondition(jtd.TypeTimestamp, "v")
	assert.Contains(t, cond, `(\d{2}|60)`)
	assert.Contains(t, cond, `:59`)
}

func TestTypeConditionPanicsOnUnknownKeyword(t *testing.T) {
	assert.Panics(t, func() {
		emitjs.TypeCondition(jtd.TypeKeyword("bogus"), "v")
	})
}

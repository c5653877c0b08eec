package emitjs_test

import (
	"testing"

	"github.com/jsontypedef/jtd-codegen/emitjs"
	"github.com/stretchr/testify/assert"
)

func TestCodeWriterOpenClose(t *testing.T) {
	w := emitjs.NewCodeWriter()
	w.Open("function f(v)")
	w.Line("return v;")
	w.Close()
	assert.Equal(t, "function f(v) {\n  return v;\n}\n", w.Finish())
}

func TestCodeWriterCloseOpen(t *testing.T) {
	w := emitjs.NewCodeWriter()
	w.Open("if (a)")
	w.Line("x();")
	w.CloseOpen("else")
	w.Line("y();")
	w.Close()
	assert.Equal(t, "if (a) {\n  x();\n} else {\n  y();\n}\n", w.Finish())
}

func TestCodeWriterUnderPopSaturates(t *testing.T) {
	w := emitjs.NewCodeWriter()
	w.Close()
	w.Line("x();")
	assert.Equal(t, "}\nx();\n", w.Finish())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\"b\\c\nd`, emitjs.Escape("a\"b\\c\nd"))
}

package emitpy

import (
	"fmt"
	"strings"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// DefFnName sanitizes a definition name into a valid Python identifier,
// replacing every non-alphanumeric, non-underscore rune with "_" and
// prefixing "validate_".
func DefFnName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + len("validate_"))
	b.WriteString("validate_")
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// usesTimestamp reports whether any Type node in the schema uses the
// timestamp keyword, so Emit can omit the regex/datetime preamble when
// it isn't needed.
func usesTimestamp(schema *jtd.CompiledSchema) bool {
	var walk func(n *jtd.Node) bool
	walk = func(n *jtd.Node) bool {
		switch n.Form() {
		case jtd.FormType:
			return n.TypeKeyword() == jtd.TypeTimestamp
		case jtd.FormNullable:
			return walk(n.NullableInner())
		case jtd.FormElements, jtd.FormValues:
			return walk(n.Inner())
		case jtd.FormProperties:
			for pair := n.Required().Oldest(); pair != nil; pair = pair.Next() {
				if walk(pair.Value) {
					return true
				}
			}
			for pair := n.Optional().Oldest(); pair != nil; pair = pair.Next() {
				if walk(pair.Value) {
					return true
				}
			}
			return false
		case jtd.FormDiscriminator:
			for pair := n.Mapping().Oldest(); pair != nil; pair = pair.Next() {
				if walk(pair.Value) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	if walk(schema.Root) {
		return true
	}
	for pair := schema.Definitions.Oldest(); pair != nil; pair = pair.Next() {
		if walk(pair.Value) {
			return true
		}
	}
	return false
}

// Emit produces a complete Python 3 module from a compiled schema: an
// optional timestamp preamble, one function per definition (lexicographic
// order), then the validate() entry point.
func Emit(schema *jtd.CompiledSchema) string {
	w := NewCodeWriter()

	if usesTimestamp(schema) {
		w.Line("import re")
		w.Line("from datetime import datetime, timezone")
		w.Line("")
		w.Line(`_TIMESTAMP_RE = re.compile(r"^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:(\d{2}|60)(\.\d+)?([Zz]|[+-]\d{2}:\d{2})$")`)
		w.Line("")
		w.Open("def _is_valid_timestamp(s)")
		w.Line(`normalized = s[:-2] + "59" if s[-2:] == "60" else (s.replace(":60", ":59", 1) if ":60" in s else s)`)
		w.Open("try")
		w.Line(`datetime.fromisoformat(normalized.replace("Z", "+00:00").replace("z", "+00:00"))`)
		w.Line("return True")
		w.CloseOpen("except ValueError")
		w.Line("return False")
		w.Dedent()
		w.Dedent()
		w.Line("")
	}
	w.Line("import math")
	w.Line("")

	for pair := schema.Definitions.Oldest(); pair != nil; pair = pair.Next() {
		fnName := DefFnName(pair.Key)
		w.Open(fmt.Sprintf("def %s(v, e, p, sp)", fnName))
		emitNodeOrPass(w, DefinitionContext(), pair.Value, "")
		w.Dedent()
		w.Line("")
	}

	w.Open("def validate(instance)")
	w.Line("e = []")
	emitNodeOrPass(w, RootContext(), schema.Root, "")
	w.Line("return e")
	w.Dedent()

	return w.Finish()
}

// emitNodeOrPass emits node, falling back to a bare "pass" if node
// produces no statements at all (an empty Python function/if body is a
// SyntaxError, unlike JS's brace-delimited blocks).
func emitNodeOrPass(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	mark := w.buf.Len()
	emitNode(w, ctx, node, discrimTag)
	if w.buf.Len() == mark {
		w.Line("pass")
	}
}

func emitNode(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	switch node.Form() {
	case jtd.FormEmpty:
		// Accepts any value -- no code emitted.

	case jtd.FormType:
		cond := TypeCondition(node.TypeKeyword(), ctx.Val)
		w.Open(fmt.Sprintf("if %s", cond))
		w.Line(ctx.PushError("/type"))
		w.Dedent()

	case jtd.FormEnum:
		items := make([]string, 0, len(node.EnumValues()))
		for _, v := range node.EnumValues() {
			items = append(items, fmt.Sprintf(`"%s"`, Escape(v)))
		}
		arr := strings.Join(items, ", ")
		w.Open(fmt.Sprintf("if not isinstance(%s, str) or %s not in (%s,)", ctx.Val, ctx.Val, arr))
		w.Line(ctx.PushError("/enum"))
		w.Dedent()

	case jtd.FormRef:
		fnName := DefFnName(node.RefName())
		escaped := Escape(node.RefName())
		w.Line(fmt.Sprintf(`%s(%s, %s, %s, "/definitions/%s")`,
			fnName, ctx.Val, ctx.Err, ctx.IP, escaped))

	case jtd.FormNullable:
		inner := node.NullableInner()
		if inner.IsEmpty() {
			return
		}
		w.Open(fmt.Sprintf("if %s is not None", ctx.Val))
		emitNodeOrPass(w, ctx, inner, "")
		w.Dedent()

	case jtd.FormElements:
		w.Open(fmt.Sprintf("if not isinstance(%s, list)", ctx.Val))
		w.Line(ctx.PushError("/elements"))
		w.CloseOpen("else")
		idx := ctx.IdxVar()
		w.Open(fmt.Sprintf("for %s in range(len(%s))", idx, ctx.Val))
		emitNodeOrPass(w, ctx.Element(idx), node.Inner(), "")
		w.Dedent()
		w.Dedent()

	case jtd.FormValues:
		w.Open(fmt.Sprintf("if not isinstance(%s, dict)", ctx.Val))
		w.Line(ctx.PushError("/values"))
		w.CloseOpen("else")
		key := ctx.KeyVar()
		w.Open(fmt.Sprintf("for %s in %s", key, ctx.Val))
		emitNodeOrPass(w, ctx.ValuesEntry(key), node.Inner(), "")
		w.Dedent()
		w.Dedent()

	case jtd.FormProperties:
		emitProperties(w, ctx, node, discrimTag)

	case jtd.FormDiscriminator:
		emitDiscriminator(w, ctx, node)
	}
}

func emitProperties(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	required := node.Required()
	optional := node.Optional()

	guardSP := "/optionalProperties"
	if required.Len() > 0 {
		guardSP = "/properties"
	}
	w.Open(fmt.Sprintf("if not isinstance(%s, dict)", ctx.Val))
	w.Line(ctx.PushError(guardSP))
	w.CloseOpen("else")

	for pair := required.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if "%s" not in %s`, escaped, ctx.Val))
		w.Line(ctx.PushError(fmt.Sprintf("/properties/%s", escaped)))
		w.CloseOpen("else")
		emitNodeOrPass(w, ctx.RequiredProp(key), child, "")
		w.Dedent()
	}

	for pair := optional.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if "%s" in %s`, escaped, ctx.Val))
		emitNodeOrPass(w, ctx.OptionalProp(key), child, "")
		w.Dedent()
	}

	if !node.AdditionalProperties() {
		kVar := ctx.KeyVar()
		w.Open(fmt.Sprintf("for %s in %s", kVar, ctx.Val))

		var known []string
		if discrimTag != "" {
			known = append(known, discrimTag)
		}
		for pair := required.Oldest(); pair != nil; pair = pair.Next() {
			known = append(known, pair.Key)
		}
		for pair := optional.Oldest(); pair != nil; pair = pair.Next() {
			known = append(known, pair.Key)
		}

		if len(known) == 0 {
			w.Line(ctx.PushErrorDynamicIP(kVar, guardSP))
		} else {
			conds := make([]string, 0, len(known))
			for _, k := range known {
				conds = append(conds, fmt.Sprintf(`%s != "%s"`, kVar, Escape(k)))
			}
			w.Open(fmt.Sprintf("if %s", strings.Join(conds, " and ")))
			w.Line(ctx.PushErrorDynamicIP(kVar, guardSP))
			w.Dedent()
		}

		w.Dedent()
	}

	w.Dedent()
}

func emitDiscriminator(w *CodeWriter, ctx EmitContext, node *jtd.Node) {
	tag := node.DiscriminatorTag()
	escapedTag := Escape(tag)

	w.Open(fmt.Sprintf("if not isinstance(%s, dict)", ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`elif "%s" not in %s`, escapedTag, ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`elif not isinstance(%s["%s"], str)`, ctx.Val, escapedTag))
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/discriminator"))

	mapping := node.Mapping()
	for pair := mapping.Oldest(); pair != nil; pair = pair.Next() {
		variantKey, variantNode := pair.Key, pair.Value
		escapedVariant := Escape(variantKey)
		w.CloseOpen(fmt.Sprintf(`elif %s["%s"] == "%s"`, ctx.Val, escapedTag, escapedVariant))
		emitNodeOrPass(w, ctx.DiscrimVariant(variantKey), variantNode, tag)
	}

	w.CloseOpen("else")
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/mapping"))
	w.Dedent()
}

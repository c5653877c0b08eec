package emitlua

import (
	"fmt"
	"strings"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// DefFnName sanitizes a definition name into a valid Lua identifier.
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

// Emit produces a complete Lua module from a compiled schema: an optional
// RFC 3339 helper, one function per definition, and the exported validate
// entry point returning a module table.
func Emit(schema *jtd.CompiledSchema) string {
	w := NewCodeWriter()

	w.Line(`local M = {}`)
	w.Line("")

	if usesTimestamp(schema) {
		w.Open("local function is_rfc3339(s)")
		w.Line(`local normalized = s:gsub(":60", ":59", 1)`)
		w.Line(`local pattern = "^%d%d%d%d%-%d%d%-%d%dT%d%d:%d%d:%d%d[%.%d]*[Zz+%-]"`)
		w.Line(`return normalized:match(pattern) ~= nil`)
		w.Close("end")
		w.Line("")
	}

	for pair := schema.Definitions.Oldest(); pair != nil; pair = pair.Next() {
		fnName := DefFnName(pair.Key)
		w.Open(fmt.Sprintf("local function %s(v, e, p, sp)", fnName))
		emitNode(w, DefinitionContext(), pair.Value, "")
		w.Close("end")
		w.Line("")
	}

	w.Open("function M.validate(instance)")
	w.Line("local e = {}")
	emitNode(w, RootContext(), schema.Root, "")
	w.Line("return e")
	w.Close("end")
	w.Line("")
	w.Line("return M")

	return w.Finish()
}

func emitNode(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	switch node.Form() {
	case jtd.FormEmpty:
		// Accepts any value -- no code emitted.

	case jtd.FormType:
		cond := TypeCondition(node.TypeKeyword(), ctx.Val)
		w.Line(fmt.Sprintf("if %s then %s end", cond, ctx.PushError("/type")))

	case jtd.FormEnum:
		conds := make([]string, 0, len(node.EnumValues()))
		for _, v := range node.EnumValues() {
			conds = append(conds, fmt.Sprintf(`%s == "%s"`, ctx.Val, Escape(v)))
		}
		matches := strings.Join(conds, " or ")
		w.Line(fmt.Sprintf(`if type(%s) ~= "string" or not (%s) then %s end`,
			ctx.Val, matches, ctx.PushError("/enum")))

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
		w.Open(fmt.Sprintf("if %s ~= nil then", ctx.Val))
		emitNode(w, ctx, inner, "")
		w.Close("end")

	case jtd.FormElements:
		w.Open(fmt.Sprintf(`if type(%s) ~= "table" then`, ctx.Val))
		w.Line(ctx.PushError("/elements"))
		w.CloseOpen("else")
		idx := ctx.IdxVar()
		w.Open(fmt.Sprintf("for %s = 1, #%s do", idx, ctx.Val))
		emitNode(w, ctx.Element(idx), node.Inner(), "")
		w.Close("end")
		w.Close("end")

	case jtd.FormValues:
		w.Open(fmt.Sprintf(`if type(%s) ~= "table" then`, ctx.Val))
		w.Line(ctx.PushError("/values"))
		w.CloseOpen("else")
		key := ctx.KeyVar()
		w.Open(fmt.Sprintf("for %s, _ in pairs(%s) do", key, ctx.Val))
		emitNode(w, ctx.ValuesEntry(key), node.Inner(), "")
		w.Close("end")
		w.Close("end")

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
	w.Open(fmt.Sprintf(`if type(%s) ~= "table" then`, ctx.Val))
	w.Line(ctx.PushError(guardSP))
	w.CloseOpen("else")

	for pair := required.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if %s["%s"] == nil then`, ctx.Val, escaped))
		w.Line(ctx.PushError("/properties/" + key))
		w.CloseOpen("else")
		emitNode(w, ctx.RequiredProp(key), child, "")
		w.Close("end")
	}

	for pair := optional.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if %s["%s"] ~= nil then`, ctx.Val, escaped))
		emitNode(w, ctx.OptionalProp(key), child, "")
		w.Close("end")
	}

	if !node.AdditionalProperties() {
		kVar := ctx.KeyVar()
		w.Open(fmt.Sprintf("for %s, _ in pairs(%s) do", kVar, ctx.Val))

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
				conds = append(conds, fmt.Sprintf(`%s ~= "%s"`, kVar, Escape(k)))
			}
			w.Line(fmt.Sprintf("if %s then %s end", strings.Join(conds, " and "),
				ctx.PushErrorDynamicIP(kVar, guardSP)))
		}

		w.Close("end")
	}

	w.Close("end")
}

func emitDiscriminator(w *CodeWriter, ctx EmitContext, node *jtd.Node) {
	tag := node.DiscriminatorTag()
	escapedTag := Escape(tag)

	w.Open(fmt.Sprintf(`if type(%s) ~= "table" then`, ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`elseif %s["%s"] == nil then`, ctx.Val, escapedTag))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`elseif type(%s["%s"]) ~= "string" then`, ctx.Val, escapedTag))
	w.Line(ctx.PushErrorAt("/"+tag, "/discriminator"))

	mapping := node.Mapping()
	for pair := mapping.Oldest(); pair != nil; pair = pair.Next() {
		variantKey, variantNode := pair.Key, pair.Value
		escapedVariant := Escape(variantKey)
		w.CloseOpen(fmt.Sprintf(`elseif %s["%s"] == "%s" then`, ctx.Val, escapedTag, escapedVariant))
		emitNode(w, ctx.DiscrimVariant(variantKey), variantNode, tag)
	}

	w.CloseOpen("else")
	w.Line(ctx.PushErrorAt("/"+tag, "/mapping"))
	w.Close("end")
}

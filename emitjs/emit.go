package emitjs

import (
	"fmt"
	"strings"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// DefFnName sanitizes a definition name into a valid JS function name by
// replacing every non-alphanumeric, non-underscore rune with "_" and
// prefixing "validate_". Collisions between distinct definition names that
// sanitize to the same identifier are possible and not detected -- JTD
// definition names are free-form strings (spec Open Question a).
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

// Emit produces a complete ES2020 module from a compiled schema: one
// function per definition (lexicographic order, guaranteed by the ordered
// map) followed by the exported validate() entry point.
func Emit(schema *jtd.CompiledSchema) string {
	w := NewCodeWriter()

	for pair := schema.Definitions.Oldest(); pair != nil; pair = pair.Next() {
		fnName := DefFnName(pair.Key)
		w.Open(fmt.Sprintf("function %s(v, e, p, sp)", fnName))
		emitNode(w, DefinitionContext(), pair.Value, "")
		w.Close()
		w.Line("")
	}

	w.Open("export function validate(instance)")
	w.Line("const e = [];")
	emitNode(w, RootContext(), schema.Root, "")
	w.Line("return e;")
	w.Close()

	return w.Finish()
}

// emitNode recursively writes the validation fragment for one AST node.
// discrimTag, when non-empty, names the discriminator tag property that a
// Properties node's additional-properties loop must also treat as known
// (it is set only while emitting a discriminator variant).
func emitNode(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	switch node.Form() {
	case jtd.FormEmpty:
		// Accepts any value -- no code emitted.

	case jtd.FormType:
		cond := TypeCondition(node.TypeKeyword(), ctx.Val)
		w.Line(fmt.Sprintf("if (%s) %s", cond, ctx.PushError("/type")))

	case jtd.FormEnum:
		items := make([]string, 0, len(node.EnumValues()))
		for _, v := range node.EnumValues() {
			items = append(items, fmt.Sprintf(`"%s"`, Escape(v)))
		}
		arr := strings.Join(items, ",")
		w.Line(fmt.Sprintf(`if (typeof %s !== "string" || ![%s].includes(%s)) %s`,
			ctx.Val, arr, ctx.Val, ctx.PushError("/enum")))

	case jtd.FormRef:
		fnName := DefFnName(node.RefName())
		escaped := Escape(node.RefName())
		w.Line(fmt.Sprintf(`%s(%s, %s, %s, "/definitions/%s");`,
			fnName, ctx.Val, ctx.Err, ctx.IP, escaped))

	case jtd.FormNullable:
		inner := node.NullableInner()
		if inner.IsEmpty() {
			return
		}
		w.Open(fmt.Sprintf("if (%s !== null)", ctx.Val))
		emitNode(w, ctx, inner, "")
		w.Close()

	case jtd.FormElements:
		w.Open(fmt.Sprintf("if (!Array.isArray(%s))", ctx.Val))
		w.Line(ctx.PushError("/elements"))
		w.CloseOpen("else")
		idx := ctx.IdxVar()
		w.Open(fmt.Sprintf("for (let %s = 0; %s < %s.length; %s++)", idx, idx, ctx.Val, idx))
		emitNode(w, ctx.Element(idx), node.Inner(), "")
		w.Close()
		w.Close()

	case jtd.FormValues:
		w.Open(fmt.Sprintf(`if (%s === null || typeof %s !== "object" || Array.isArray(%s))`,
			ctx.Val, ctx.Val, ctx.Val))
		w.Line(ctx.PushError("/values"))
		w.CloseOpen("else")
		key := ctx.KeyVar()
		w.Open(fmt.Sprintf("for (const %s in %s)", key, ctx.Val))
		emitNode(w, ctx.ValuesEntry(key), node.Inner(), "")
		w.Close()
		w.Close()

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
	w.Open(fmt.Sprintf(`if (%s === null || typeof %s !== "object" || Array.isArray(%s))`,
		ctx.Val, ctx.Val, ctx.Val))
	w.Line(ctx.PushError(guardSP))
	w.CloseOpen("else")

	for pair := required.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Line(fmt.Sprintf(`if (!("%s" in %s)) %s`,
			escaped, ctx.Val, ctx.PushError(fmt.Sprintf("/properties/%s", escaped))))
		w.Open("else")
		emitNode(w, ctx.RequiredProp(key), child, "")
		w.Close()
	}

	for pair := optional.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if ("%s" in %s)`, escaped, ctx.Val))
		emitNode(w, ctx.OptionalProp(key), child, "")
		w.Close()
	}

	if !node.AdditionalProperties() {
		kVar := ctx.KeyVar()
		w.Open(fmt.Sprintf("for (const %s in %s)", kVar, ctx.Val))

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
				conds = append(conds, fmt.Sprintf(`%s !== "%s"`, kVar, Escape(k)))
			}
			w.Line(fmt.Sprintf("if (%s) %s", strings.Join(conds, " && "),
				ctx.PushErrorDynamicIP(kVar, guardSP)))
		}

		w.Close()
	}

	w.Close()
}

func emitDiscriminator(w *CodeWriter, ctx EmitContext, node *jtd.Node) {
	tag := node.DiscriminatorTag()
	escapedTag := Escape(tag)

	w.Open(fmt.Sprintf(`if (%s === null || typeof %s !== "object" || Array.isArray(%s))`,
		ctx.Val, ctx.Val, ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`else if (!("%s" in %s))`, escapedTag, ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`else if (typeof %s["%s"] !== "string")`, ctx.Val, escapedTag))
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/discriminator"))

	mapping := node.Mapping()
	for pair := mapping.Oldest(); pair != nil; pair = pair.Next() {
		variantKey, variantNode := pair.Key, pair.Value
		escapedVariant := Escape(variantKey)
		w.CloseOpen(fmt.Sprintf(`else if (%s["%s"] === "%s")`, ctx.Val, escapedTag, escapedVariant))
		emitNode(w, ctx.DiscrimVariant(variantKey), variantNode, tag)
	}

	w.CloseOpen("else")
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/mapping"))
	w.Close()
}

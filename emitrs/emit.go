package emitrs

import (
	"fmt"
	"strings"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// DefFnName sanitizes a definition name into a valid Rust function name.
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

// Emit produces a complete Rust source file from a compiled schema: the
// JtdError type, an optional RFC 3339 helper, one function per definition,
// and the pub fn validate entry point.
func Emit(schema *jtd.CompiledSchema) string {
	w := NewCodeWriter()

	w.Line("use serde_json::Value;")
	w.Line("")
	w.Line("#[derive(Debug, Clone, PartialEq, Eq)]")
	w.Open("pub struct JtdError")
	w.Line("pub instance_path: String,")
	w.Line("pub schema_path: String,")
	w.Close()
	w.Line("")

	if usesTimestamp(schema) {
		w.Line("// Returns true if s is a valid RFC 3339 timestamp, including the leap")
		w.Line("// second form that chrono's parser rejects outright.")
		w.Open("fn is_rfc3339(s: &str) -> bool")
		w.Line(`let normalized = s.replacen(":60", ":59", 1);`)
		w.Line("chrono::DateTime::parse_from_rfc3339(&normalized).is_ok()")
		w.Close()
		w.Line("")
	}

	for pair := schema.Definitions.Oldest(); pair != nil; pair = pair.Next() {
		fnName := DefFnName(pair.Key)
		w.Open(fmt.Sprintf("fn %s(v: &Value, e: &mut Vec<JtdError>, p: &str, sp: &str)", fnName))
		emitNode(w, DefinitionContext(), pair.Value, "")
		w.Close()
		w.Line("")
	}

	w.Open("pub fn validate(instance: &Value) -> Vec<JtdError>")
	w.Line("let mut e = Vec::new();")
	w.Block()
	w.Line("let e = &mut e;")
	emitNode(w, RootContext(), schema.Root, "")
	w.Close()
	w.Line("e")
	w.Close()

	return w.Finish()
}

func emitNode(w *CodeWriter, ctx EmitContext, node *jtd.Node, discrimTag string) {
	switch node.Form() {
	case jtd.FormEmpty:
		// Accepts any value -- no code emitted.

	case jtd.FormType:
		cond := TypeCondition(node.TypeKeyword(), ctx.Val)
		w.Line(fmt.Sprintf("if %s { %s }", cond, ctx.PushError("/type")))

	case jtd.FormEnum:
		items := make([]string, 0, len(node.EnumValues()))
		for _, v := range node.EnumValues() {
			items = append(items, fmt.Sprintf(`"%s"`, Escape(v)))
		}
		arr := strings.Join(items, ", ")
		w.Line(fmt.Sprintf(
			`if !%s.is_string() || ![%s].contains(&%s.as_str().unwrap()) { %s }`,
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
		w.Open(fmt.Sprintf("if !%s.is_null()", ctx.Val))
		emitNode(w, ctx, inner, "")
		w.Close()

	case jtd.FormElements:
		w.Open(fmt.Sprintf("if !%s.is_array()", ctx.Val))
		w.Line(ctx.PushError("/elements"))
		w.CloseOpen("else")
		idx := ctx.IdxVar()
		w.Open(fmt.Sprintf("for %s in 0..%s.as_array().unwrap().len()", idx, ctx.Val))
		emitNode(w, ctx.Element(idx), node.Inner(), "")
		w.Close()
		w.Close()

	case jtd.FormValues:
		w.Open(fmt.Sprintf("if !%s.is_object()", ctx.Val))
		w.Line(ctx.PushError("/values"))
		w.CloseOpen("else")
		key := ctx.KeyVar()
		w.Open(fmt.Sprintf("for (%s, %s_val) in %s.as_object().unwrap()", key, key, ctx.Val))
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
	w.Open(fmt.Sprintf("if !%s.is_object()", ctx.Val))
	w.Line(ctx.PushError(guardSP))
	w.CloseOpen("else")
	w.Line(fmt.Sprintf("let obj = %s.as_object().unwrap();", ctx.Val))

	for pair := required.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if !obj.contains_key("%s")`, escaped))
		w.Line(ctx.PushError(fmt.Sprintf("/properties/%s", escaped)))
		w.CloseOpen("else")
		emitNode(w, ctx.RequiredProp(key), child, "")
		w.Close()
	}

	for pair := optional.Oldest(); pair != nil; pair = pair.Next() {
		key, child := pair.Key, pair.Value
		escaped := Escape(key)
		w.Open(fmt.Sprintf(`if obj.contains_key("%s")`, escaped))
		emitNode(w, ctx.OptionalProp(key), child, "")
		w.Close()
	}

	if !node.AdditionalProperties() {
		kVar := ctx.KeyVar()
		w.Open(fmt.Sprintf("for %s in obj.keys()", kVar))

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
				conds = append(conds, fmt.Sprintf(`%s.as_str() != "%s"`, kVar, Escape(k)))
			}
			w.Line(fmt.Sprintf("if %s { %s }", strings.Join(conds, " && "),
				ctx.PushErrorDynamicIP(kVar, guardSP)))
		}

		w.Close()
	}

	w.Close()
}

func emitDiscriminator(w *CodeWriter, ctx EmitContext, node *jtd.Node) {
	tag := node.DiscriminatorTag()
	escapedTag := Escape(tag)

	w.Open(fmt.Sprintf("if !%s.is_object()", ctx.Val))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`else if !%s.as_object().unwrap().contains_key("%s")`, ctx.Val, escapedTag))
	w.Line(ctx.PushError("/discriminator"))

	w.CloseOpen(fmt.Sprintf(`else if !%s["%s"].is_string()`, ctx.Val, escapedTag))
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/discriminator"))

	mapping := node.Mapping()
	for pair := mapping.Oldest(); pair != nil; pair = pair.Next() {
		variantKey, variantNode := pair.Key, pair.Value
		escapedVariant := Escape(variantKey)
		w.CloseOpen(fmt.Sprintf(`else if %s["%s"].as_str().unwrap() == "%s"`, ctx.Val, escapedTag, escapedVariant))
		emitNode(w, ctx.DiscrimVariant(variantKey), variantNode, tag)
	}

	w.CloseOpen("else")
	w.Line(ctx.PushErrorAt("/"+escapedTag, "/mapping"))
	w.Close()
}

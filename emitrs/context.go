package emitrs

import "fmt"

// EmitContext is the lexical scope threaded through recursion, in Rust
// expression syntax over &serde_json::Value. See emitjs.EmitContext for the
// shared rationale; Rust's borrow rules make every descent re-borrow through
// an index or field access rather than holding a pointer.
type EmitContext struct {
	Val   string
	Err   string
	IP    string
	SP    string
	Depth int
}

// RootContext is the scope for the entry-point validate() function body.
func RootContext() EmitContext {
	return EmitContext{Val: "instance", Err: "e", IP: `""`, SP: `""`}
}

// DefinitionContext is the scope for a generated per-definition function
// body: fn validate_foo(v: &Value, e: &mut Vec<JtdError>, p: &str, sp: &str).
func DefinitionContext() EmitContext {
	return EmitContext{Val: "v", Err: "e", IP: "p", SP: "sp"}
}

// IdxVar returns this depth's loop index variable name.
func (c EmitContext) IdxVar() string {
	if c.Depth == 0 {
		return "i"
	}
	return fmt.Sprintf("i%d", c.Depth)
}

// KeyVar returns this depth's loop key variable name.
func (c EmitContext) KeyVar() string {
	if c.Depth == 0 {
		return "k"
	}
	return fmt.Sprintf("k%d", c.Depth)
}

// RequiredProp descends into a required property value via serde_json's
// index operator -- emitProperties only reaches this context after an
// obj.contains_key presence check.
func (c EmitContext) RequiredProp(key string) EmitContext {
	escaped := Escape(key)
	return EmitContext{
		Val:   fmt.Sprintf(`&%s["%s"]`, c.Val, escaped),
		Err:   c.Err,
		IP:    fmt.Sprintf(`&format!("{}/{}", %s, "%s")`, c.IP, escaped),
		SP:    fmt.Sprintf(`&format!("{}/properties/{}", %s, "%s")`, c.SP, escaped),
		Depth: c.Depth,
	}
}

// OptionalProp descends into an optional property value.
func (c EmitContext) OptionalProp(key string) EmitContext {
	escaped := Escape(key)
	return EmitContext{
		Val:   fmt.Sprintf(`&%s["%s"]`, c.Val, escaped),
		Err:   c.Err,
		IP:    fmt.Sprintf(`&format!("{}/{}", %s, "%s")`, c.IP, escaped),
		SP:    fmt.Sprintf(`&format!("{}/optionalProperties/{}", %s, "%s")`, c.SP, escaped),
		Depth: c.Depth,
	}
}

// Element descends into an array element addressed by idxVar.
func (c EmitContext) Element(idxVar string) EmitContext {
	return EmitContext{
		Val:   fmt.Sprintf("&%s[%s]", c.Val, idxVar),
		Err:   c.Err,
		IP:    fmt.Sprintf(`&format!("{}/{}", %s, %s)`, c.IP, idxVar),
		SP:    fmt.Sprintf(`&format!("{}/elements", %s)`, c.SP),
		Depth: c.Depth + 1,
	}
}

// ValuesEntry descends into an object value addressed by keyVar.
func (c EmitContext) ValuesEntry(keyVar string) EmitContext {
	return EmitContext{
		Val:   fmt.Sprintf("%s_val", keyVar),
		Err:   c.Err,
		IP:    fmt.Sprintf(`&format!("{}/{}", %s, %s)`, c.IP, keyVar),
		SP:    fmt.Sprintf(`&format!("{}/values", %s)`, c.SP),
		Depth: c.Depth + 1,
	}
}

// DiscrimVariant scopes the schema path to a discriminator variant.
func (c EmitContext) DiscrimVariant(variantKey string) EmitContext {
	return EmitContext{
		Val:   c.Val,
		Err:   c.Err,
		IP:    c.IP,
		SP:    fmt.Sprintf(`&format!("{}/mapping/%s", %s)`, Escape(variantKey), c.SP),
		Depth: c.Depth,
	}
}

// PushError returns the Rust statement appending an error whose schema path
// is c.SP plus spSuffix.
func (c EmitContext) PushError(spSuffix string) string {
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`&format!("{}%s", %s)`, spSuffix, c.SP)
	}
	return fmt.Sprintf(
		"%s.push(JtdError { instance_path: %s.to_string(), schema_path: %s.to_string() });",
		c.Err, c.IP, sp)
}

// PushErrorAt returns the Rust statement appending an error with custom
// instance-path and schema-path suffixes.
func (c EmitContext) PushErrorAt(ipSuffix, spSuffix string) string {
	ip := c.IP
	if ipSuffix != "" {
		ip = fmt.Sprintf(`&format!("{}%s", %s)`, ipSuffix, c.IP)
	}
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`&format!("{}%s", %s)`, spSuffix, c.SP)
	}
	return fmt.Sprintf(
		"%s.push(JtdError { instance_path: %s.to_string(), schema_path: %s.to_string() });",
		c.Err, ip, sp)
}

// PushErrorDynamicIP returns the Rust statement appending an error whose
// instance path is c.IP concatenated with a raw Rust expression.
func (c EmitContext) PushErrorDynamicIP(ipExpr, spSuffix string) string {
	ip := fmt.Sprintf(`&format!("{}/{}", %s, %s)`, c.IP, ipExpr)
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`&format!("{}%s", %s)`, spSuffix, c.SP)
	}
	return fmt.Sprintf(
		"%s.push(JtdError { instance_path: %s.to_string(), schema_path: %s.to_string() });",
		c.Err, ip, sp)
}

package emitjs

import "fmt"

// EmitContext is the lexical scope threaded through recursion: the JS
// expressions for the value under test, the error sink, the instance
// path, and the schema path, plus a nesting depth used to synthesize
// collision-free loop variable names. Every descent method returns a
// fresh context; none mutate the receiver.
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
// body: validate_foo(v, e, p, sp).
func DefinitionContext() EmitContext {
	return EmitContext{Val: "v", Err: "e", IP: "p", SP: "sp"}
}

// IdxVar returns this depth's loop index variable name: i, i1, i2, ...
func (c EmitContext) IdxVar() string {
	if c.Depth == 0 {
		return "i"
	}
	return fmt.Sprintf("i%d", c.Depth)
}

// KeyVar returns this depth's loop key variable name: k, k1, k2, ...
func (c EmitContext) KeyVar() string {
	if c.Depth == 0 {
		return "k"
	}
	return fmt.Sprintf("k%d", c.Depth)
}

// RequiredProp descends into a required property value.
func (c EmitContext) RequiredProp(key string) EmitContext {
	escaped := Escape(key)
	return EmitContext{
		Val:   fmt.Sprintf(`%s["%s"]`, c.Val, escaped),
		Err:   c.Err,
		IP:    fmt.Sprintf(`%s + "/%s"`, c.IP, escaped),
		SP:    fmt.Sprintf(`%s + "/properties/%s"`, c.SP, escaped),
		Depth: c.Depth,
	}
}

// OptionalProp descends into an optional property value.
func (c EmitContext) OptionalProp(key string) EmitContext {
	escaped := Escape(key)
	return EmitContext{
		Val:   fmt.Sprintf(`%s["%s"]`, c.Val, escaped),
		Err:   c.Err,
		IP:    fmt.Sprintf(`%s + "/%s"`, c.IP, escaped),
		SP:    fmt.Sprintf(`%s + "/optionalProperties/%s"`, c.SP, escaped),
		Depth: c.Depth,
	}
}

// Element descends into an array element addressed by idxVar.
func (c EmitContext) Element(idxVar string) EmitContext {
	return EmitContext{
		Val:   fmt.Sprintf("%s[%s]", c.Val, idxVar),
		Err:   c.Err,
		IP:    fmt.Sprintf(`%s + "/" + %s`, c.IP, idxVar),
		SP:    fmt.Sprintf(`%s + "/elements"`, c.SP),
		Depth: c.Depth + 1,
	}
}

// ValuesEntry descends into an object value addressed by keyVar.
func (c EmitContext) ValuesEntry(keyVar string) EmitContext {
	return EmitContext{
		Val:   fmt.Sprintf("%s[%s]", c.Val, keyVar),
		Err:   c.Err,
		IP:    fmt.Sprintf(`%s + "/" + %s`, c.IP, keyVar),
		SP:    fmt.Sprintf(`%s + "/values"`, c.SP),
		Depth: c.Depth + 1,
	}
}

// DiscrimVariant scopes the schema path to a discriminator variant; val and
// ip are unchanged since the variant's Properties check runs against the
// same object.
func (c EmitContext) DiscrimVariant(variantKey string) EmitContext {
	return EmitContext{
		Val:   c.Val,
		Err:   c.Err,
		IP:    c.IP,
		SP:    fmt.Sprintf(`%s + "/mapping/%s"`, c.SP, Escape(variantKey)),
		Depth: c.Depth,
	}
}

// PushError returns the JS statement pushing an error whose schema path is
// c.SP plus spSuffix (empty means no suffix).
func (c EmitContext) PushError(spSuffix string) string {
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`%s + "%s"`, c.SP, spSuffix)
	}
	return fmt.Sprintf("%s.push({instancePath: %s, schemaPath: %s});", c.Err, c.IP, sp)
}

// PushErrorAt returns the JS statement pushing an error with custom
// instance-path and schema-path suffixes (each empty means no suffix).
func (c EmitContext) PushErrorAt(ipSuffix, spSuffix string) string {
	ip := c.IP
	if ipSuffix != "" {
		ip = fmt.Sprintf(`%s + "%s"`, c.IP, ipSuffix)
	}
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`%s + "%s"`, c.SP, spSuffix)
	}
	return fmt.Sprintf("%s.push({instancePath: %s, schemaPath: %s});", c.Err, ip, sp)
}

// PushErrorDynamicIP returns the JS statement pushing an error whose
// instance path is c.IP with a "/" plus a raw JS expression appended (not a
// string literal suffix) -- used for the additional-properties loop, where
// the offending key is itself a runtime value.
func (c EmitContext) PushErrorDynamicIP(ipExpr, spSuffix string) string {
	ip := fmt.Sprintf(`%s + "/" + %s`, c.IP, ipExpr)
	sp := c.SP
	if spSuffix != "" {
		sp = fmt.Sprintf(`%s + "%s"`, c.SP, spSuffix)
	}
	return fmt.Sprintf("%s.push({instancePath: %s, schemaPath: %s});", c.Err, ip, sp)
}

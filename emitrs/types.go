package emitrs

import (
	"fmt"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// TypeCondition returns a Rust expression over a &serde_json::Value that
// evaluates to true when val does NOT satisfy the given type keyword.
func TypeCondition(tk jtd.TypeKeyword, val string) string {
	switch tk {
	case jtd.TypeBoolean:
		return fmt.Sprintf("!%s.is_boolean()", val)
	case jtd.TypeString:
		return fmt.Sprintf("!%s.is_string()", val)
	case jtd.TypeTimestamp:
		return fmt.Sprintf(`!%s.as_str().map_or(false, |s| is_rfc3339(s))`, val)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf("!%s.as_f64().map_or(false, |n| n.is_finite())", val)
	case jtd.TypeInt8:
		return intCond(val, -128, 127)
	case jtd.TypeUint8:
		return intCond(val, 0, 255)
	case jtd.TypeInt16:
		return intCond(val, -32768, 32767)
	case jtd.TypeUint16:
		return intCond(val, 0, 65535)
	case jtd.TypeInt32:
		return intCond(val, -2147483648, 2147483647)
	case jtd.TypeUint32:
		return intCond(val, 0, 4294967295)
	default:
		panic(fmt.Sprintf("emitrs: unknown type keyword %q", tk))
	}
}

func intCond(val string, min, max int64) string {
	return fmt.Sprintf(
		"!%s.as_f64().map_or(false, |n| n.fract() == 0.0 && n >= %d_f64 && n <= %d_f64)",
		val, min, max,
	)
}

package emitlua

import (
	"fmt"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// TypeCondition returns a Lua expression that evaluates to true when val
// does NOT satisfy the given type keyword. Lua has no integer/float split
// at the language level (pre-5.3), so every integer check goes through
// math.floor against a declared range; float32/float64 only check that the
// value is a number.
func TypeCondition(tk jtd.TypeKeyword, val string) string {
	switch tk {
	case jtd.TypeBoolean:
		return fmt.Sprintf(`type(%s) ~= "boolean"`, val)
	case jtd.TypeString:
		return fmt.Sprintf(`type(%s) ~= "string"`, val)
	case jtd.TypeTimestamp:
		return fmt.Sprintf(`type(%s) ~= "string" or not is_rfc3339(%s)`, val, val)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf(`type(%s) ~= "number"`, val)
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
		panic(fmt.Sprintf("emitlua: unknown type keyword %q", tk))
	}
}

func intCond(val string, min, max int64) string {
	return fmt.Sprintf(
		`type(%s) ~= "number" or %s ~= math.floor(%s) or %s < %d or %s > %d`,
		val, val, val, val, min, val, max,
	)
}

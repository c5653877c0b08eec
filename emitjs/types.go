package emitjs

import (
	"fmt"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// TypeCondition returns a JS expression that evaluates to true when val
// does NOT satisfy the given type keyword. Integers check "is number AND
// is integer AND in range"; float32/float64 share one check (RFC 8927
// §3.3.2 accepts any finite JSON number for either width); timestamp
// checks an RFC 3339 regex (accepting the leap-second ":60") and then
// re-validates by normalizing ":60" to ":59" before Date.parse.
func TypeCondition(tk jtd.TypeKeyword, val string) string {
	switch tk {
	case jtd.TypeBoolean:
		return fmt.Sprintf(`typeof %s !== "boolean"`, val)
	case jtd.TypeString:
		return fmt.Sprintf(`typeof %s !== "string"`, val)
	case jtd.TypeTimestamp:
		return fmt.Sprintf(
			`typeof %s !== "string" || !/^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:(\d{2}|60)(\.\d+)?([Zz]|[+-]\d{2}:\d{2})$/.test(%s) || Number.isNaN(Date.parse(%s.replace(/:60/, ":59")))`,
			val, val, val)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf(`typeof %s !== "number" || !Number.isFinite(%s)`, val, val)
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
		panic(fmt.Sprintf("emitjs: unknown type keyword %q", tk))
	}
}

func intCond(val string, min, max int64) string {
	return fmt.Sprintf(
		`typeof %s !== "number" || !Number.isInteger(%s) || %s < %d || %s > %d`,
		val, val, val, min, val, max,
	)
}

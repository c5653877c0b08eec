package emitpy

import (
	"fmt"

	jtd "github.com/jsontypedef/jtd-codegen"
)

// TypeCondition returns a Python expression that evaluates to True when
// val does NOT satisfy the given type keyword. bool is a subclass of int
// in Python, so every numeric check explicitly excludes it.
func TypeCondition(tk jtd.TypeKeyword, val string) string {
	switch tk {
	case jtd.TypeBoolean:
		return fmt.Sprintf("not isinstance(%s, bool)", val)
	case jtd.TypeString:
		return fmt.Sprintf("not isinstance(%s, str)", val)
	case jtd.TypeTimestamp:
		return fmt.Sprintf(
			"not isinstance(%s, str) or not _TIMESTAMP_RE.match(%s) or not _is_valid_timestamp(%s)",
			val, val, val)
	case jtd.TypeFloat32, jtd.TypeFloat64:
		return fmt.Sprintf(
			"isinstance(%s, bool) or not isinstance(%s, (int, float)) or not math.isfinite(%s)",
			val, val, val)
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
		panic(fmt.Sprintf("emitpy: unknown type keyword %q", tk))
	}
}

func intCond(val string, min, max int64) string {
	return fmt.Sprintf(
		"isinstance(%s, bool) or not isinstance(%s, (int, float)) or %s != int(%s) or %s < %d or %s > %d",
		val, val, val, val, val, min, val, max,
	)
}

package wire

import (
	"reflect"
	"time"

	"github.com/drewnoakes/msgpack-strict/schema"
)

// Decimal is an invariant-culture decimal literal, e.g. "1234.5600". It is
// carried as an exact string on the wire (§4.2, §9) so the caller's decimal
// type keeps its precision across serialisation; the read path only checks
// that the string parses as a number and never does arithmetic on it.
type Decimal string

var (
	decimalType   = reflect.TypeOf(Decimal(""))
	timestampType = reflect.TypeOf(time.Time{})
	bytesType     = reflect.TypeOf([]byte(nil))
)

// KindOf reports the primitive Kind t maps to, and whether t is a
// recognised primitive at all.
func KindOf(t reflect.Type) (schema.Kind, bool) {
	if t == decimalType {
		return schema.KindDecimal, true
	}
	if t == timestampType {
		return schema.KindTimestamp, true
	}
	if t == bytesType {
		return schema.KindBytes, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return schema.KindBool, true
	case reflect.Int8:
		return schema.KindInt8, true
	case reflect.Int16:
		return schema.KindInt16, true
	case reflect.Int32:
		return schema.KindInt32, true
	case reflect.Int, reflect.Int64:
		return schema.KindInt64, true
	case reflect.Uint8:
		return schema.KindUint8, true
	case reflect.Uint16:
		return schema.KindUint16, true
	case reflect.Uint32:
		return schema.KindUint32, true
	case reflect.Uint, reflect.Uint64:
		return schema.KindUint64, true
	case reflect.Float32:
		return schema.KindFloat32, true
	case reflect.Float64:
		return schema.KindFloat64, true
	case reflect.String:
		return schema.KindString, true
	default:
		return 0, false
	}
}

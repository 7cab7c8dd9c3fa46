package schema

// Kind identifies a primitive wire atom. Kind values are stable across
// processes: they are persisted in the canonical textual and XML forms.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindDecimal
	KindTimestamp
)

var kindNames = [...]string{
	KindBool:      "bool",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindBytes:     "bytes",
	KindDecimal:   "decimal",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the Kind for its canonical name, used when reading the
// canonical XML form back.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// widening lists the permitted lossless writer->reader conversions under
// relaxed compatibility, per the primitive widening table. Strict mode
// disables every row; only exact kind equality matches there.
var widening = map[Kind]map[Kind]bool{
	KindInt8:   set(KindInt16, KindInt32, KindInt64),
	KindInt16:  set(KindInt32, KindInt64),
	KindInt32:  set(KindInt64),
	KindUint8:  set(KindUint16, KindUint32, KindUint64, KindInt16, KindInt32, KindInt64),
	KindUint16: set(KindUint32, KindUint64, KindInt32, KindInt64),
	KindUint32: set(KindUint64, KindInt64),
	KindFloat32: set(KindFloat64),
}

func set(ks ...Kind) map[Kind]bool {
	m := make(map[Kind]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}

// CanWiden reports whether a writer value of kind from may be read as kind
// to under relaxed compatibility. It never permits from == to; callers
// check exact equality separately.
func CanWiden(from, to Kind) bool {
	return widening[from][to]
}

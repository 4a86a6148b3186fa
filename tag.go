package molstream

// Tag is opaque per-field metadata (name, unit, validation hints) owned by
// the layer above the codec. Encoder and Decoder pass it through unchanged.
type Tag struct {
	Name  string
	Unit  string
	Attrs map[string]string
}

// Op is the direction of a typed operation.
type Op uint8

const (
	OpWrite Op = iota + 1
	OpRead
)

func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return "unknown"
	}
}

// Kind identifies the typed operation that was called.
type Kind uint8

const (
	KindInt8 Kind = iota + 1
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindBytes
	KindInt // variable precision
)

var kindNames = [...]string{
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindString:  "string",
	KindBytes:   "bytes",
	KindInt:     "int",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

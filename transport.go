package molstream

// Sink is the write side of a byte transport. Each call appends one byte at
// the transport's cursor. File, memory and socket transports implement it.
type Sink interface {
	WriteByte(c byte) error
}

// Source is the read side of a byte transport. Each call consumes one byte.
// End of data is reported by the transport (usually io.EOF).
type Source interface {
	ReadByte() (byte, error)
}

// TagObserver is implemented by transports that want to see the metadata
// tag of every typed operation, e.g. for per-field instrumentation.
// ObserveTag is called once per typed call before any byte is transferred.
type TagObserver interface {
	ObserveTag(op Op, kind Kind, tag *Tag)
}

package molstream

// Encoding policy shared by Encoder and Decoder.
const (
	// Precision16 and Precision8 are the thresholds of the variable
	// precision integer: precision > 16 uses 4 bytes, > 8 uses 2, else 1.
	Precision16 = 16
	Precision8  = 8

	BoolTrue   byte = 0xFF
	BoolFalse  byte = 0x00
	Terminator byte = 0x00
)

// IntWidth returns the encoded size in bytes of Int/ReadInt for the given
// requested bit width. The narrow encodings are always signed.
func IntWidth(precision int) int {
	switch {
	case precision > Precision16:
		return 4
	case precision > Precision8:
		return 2
	default:
		return 1
	}
}

package binary24

// BigEndian reads and writes 24-bit big-endian integers, as used by the FLV
// tag envelope for payload sizes and stream ids.
var BigEndian bigEndian

// Extended reads and writes the FLV "extended" timestamp: a signed 32-bit
// value stored as its low 24 bits followed by its high 8 bits.
var Extended extended

type bigEndian struct{}

func (bigEndian) Uint24(b []byte) uint32 {
	return uint32(b[2]) | uint32(b[1])<<8 | uint32(b[0])<<16
}

func (bigEndian) PutUint24(b []byte, v uint32) {
	_ = b[2] // early bounds check to guarantee safety of writes below
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

type extended struct{}

// Int32 decodes [low0, low1, low2, high] into high:low0:low1:low2.
func (extended) Int32(b []byte) int32 {
	_ = b[3]
	return int32(uint32(b[3])<<24 | uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]))
}

func (extended) PutInt32(b []byte, v int32) {
	_ = b[3] // early bounds check to guarantee safety of writes below
	u := uint32(v)
	b[0] = byte(u >> 16)
	b[1] = byte(u >> 8)
	b[2] = byte(u)
	b[3] = byte(u >> 24)
}

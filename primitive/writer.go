package primitive

import (
	"encoding/binary"
	"math"

	"github.com/torresjeff/flv/internal/binary24"
)

// The Append functions append the big-endian encoding of a scalar to b and
// return the extended slice. Each appends exactly the width of its kind.

func AppendUint8(b []byte, v uint8) []byte {
	return append(b, v)
}

func AppendUint16(b []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

func AppendInt16(b []byte, v int16) []byte {
	return AppendUint16(b, uint16(v))
}

// AppendUint24 appends the low 24 bits of v.
func AppendUint24(b []byte, v uint32) []byte {
	var buf [3]byte
	binary24.BigEndian.PutUint24(buf[:], v)
	return append(b, buf[:]...)
}

func AppendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func AppendFloat64(b []byte, v float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return append(b, buf[:]...)
}

// AppendExtendedInt32 appends v in the FLV extended timestamp layout.
func AppendExtendedInt32(b []byte, v int32) []byte {
	var buf [4]byte
	binary24.Extended.PutInt32(buf[:], v)
	return append(b, buf[:]...)
}

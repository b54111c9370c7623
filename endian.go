package lasgo

import (
	"encoding/binary"
	"math"
)

// byteOrderEngine combines ByteOrder and AppendByteOrder the way
// arloliu/mebo's endian package does, so the point-record codec and the
// float64 helpers below read and write through one named engine value
// instead of ad hoc byte shuffling; the header and VLR codecs use
// binary.Read/binary.Write with binary.LittleEndian directly. The LAS wire
// format is little-endian throughout (spec §6), so this is the only engine
// lasgo ever constructs.
type byteOrderEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// le is the single endian engine used by the point-record reader and writer.
var le byteOrderEngine = binary.LittleEndian

// float64FromBytes and putFloat64Bytes read/write an 8-byte LAS extra-bytes
// "stored as 8 bytes regardless of payload type" field (spec §3), which is
// always a raw float64 bit pattern on disk.
func float64FromBytes(b []byte) float64 {
	return math.Float64frombits(le.Uint64(b))
}

func putFloat64Bytes(dst []byte, v float64) {
	le.PutUint64(dst, math.Float64bits(v))
}

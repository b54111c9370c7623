package lasgo

// ReturnFlags packs the return/scan bit field shared by point formats 0-5
// (spec §3): bits 0-2 return number, 3-5 number of returns, 6 scan
// direction, 7 edge of flight line. It is the generalized descendant of the
// teacher's PointBitField wrapper type.
type ReturnFlags struct {
	ReturnNumber    uint8
	NumberOfReturns uint8
	ScanDirection   bool
	EdgeOfFlight    bool
}

// Pack encodes the flags into a single byte, masking return counts to their
// low three bits (0-7).
func (f ReturnFlags) Pack() byte {
	rn := f.ReturnNumber & 0x07
	nr := f.NumberOfReturns & 0x07
	var b byte
	b |= rn
	b |= nr << 3
	if f.ScanDirection {
		b |= 1 << 6
	}
	if f.EdgeOfFlight {
		b |= 1 << 7
	}
	return b
}

// UnpackReturnFlags decodes a formats-0-5 flag byte.
func UnpackReturnFlags(b byte) ReturnFlags {
	return ReturnFlags{
		ReturnNumber:    b & 0x07,
		NumberOfReturns: (b >> 3) & 0x07,
		ScanDirection:   b&(1<<6) != 0,
		EdgeOfFlight:    b&(1<<7) != 0,
	}
}

// ClassificationByte packs the raw classification byte used by formats 0-5:
// bits 0-4 class (0-31), bit 5 synthetic, bit 6 key-point, bit 7 withheld.
type ClassificationByte struct {
	Class     uint8
	Synthetic bool
	KeyPoint  bool
	Withheld  bool
}

func (c ClassificationByte) Pack() byte {
	b := c.Class & 0x1F
	if c.Synthetic {
		b |= 1 << 5
	}
	if c.KeyPoint {
		b |= 1 << 6
	}
	if c.Withheld {
		b |= 1 << 7
	}
	return b
}

func UnpackClassificationByte(b byte) ClassificationByte {
	return ClassificationByte{
		Class:     b & 0x1F,
		Synthetic: b&(1<<5) != 0,
		KeyPoint:  b&(1<<6) != 0,
		Withheld:  b&(1<<7) != 0,
	}
}

// ReturnFlags14 packs the two flag bytes used by point formats 6-10 (spec
// §3). Byte1 holds the return counters as nibbles (0-15 each); Byte2 holds
// synthetic/key-point/withheld/overlap/scanner-channel/scan-direction/edge.
type ReturnFlags14 struct {
	ReturnNumber    uint8
	NumberOfReturns uint8
	Synthetic       bool
	KeyPoint        bool
	Withheld        bool
	Overlap         bool
	ScannerChannel  uint8
	ScanDirection   bool
	EdgeOfFlight    bool
}

func (f ReturnFlags14) PackByte1() byte {
	return (f.ReturnNumber & 0x0F) | ((f.NumberOfReturns & 0x0F) << 4)
}

func (f ReturnFlags14) PackByte2() byte {
	var b byte
	if f.Synthetic {
		b |= 1 << 0
	}
	if f.KeyPoint {
		b |= 1 << 1
	}
	if f.Withheld {
		b |= 1 << 2
	}
	if f.Overlap {
		b |= 1 << 3
	}
	b |= (f.ScannerChannel & 0x03) << 4
	if f.ScanDirection {
		b |= 1 << 6
	}
	if f.EdgeOfFlight {
		b |= 1 << 7
	}
	return b
}

// UnpackReturnFlags14 decodes the two formats-6-10 flag bytes.
func UnpackReturnFlags14(b1, b2 byte) ReturnFlags14 {
	return ReturnFlags14{
		ReturnNumber:    b1 & 0x0F,
		NumberOfReturns: (b1 >> 4) & 0x0F,
		Synthetic:       b2&(1<<0) != 0,
		KeyPoint:        b2&(1<<1) != 0,
		Withheld:        b2&(1<<2) != 0,
		Overlap:         b2&(1<<3) != 0,
		ScannerChannel:  (b2 >> 4) & 0x03,
		ScanDirection:   b2&(1<<6) != 0,
		EdgeOfFlight:    b2&(1<<7) != 0,
	}
}

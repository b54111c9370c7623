package lasgo

// ColorData is the RGB triple carried by point formats 2, 3, 5, 7, 8, 10.
// It generalizes the teacher's RgbData type.
type ColorData struct {
	Red, Green, Blue uint16
}

// NIRData wraps the near-infrared channel carried by point formats 8 and
// 10, the same way ColorData wraps RGB, rather than passing a bare uint16
// at call sites that want to talk about "the NIR column" as a unit.
type NIRData struct {
	Value uint16
}

// WaveformData carries the waveform sub-fields shared by point formats 4,
// 5, 9 and 10.
type WaveformData struct {
	DescriptorIndex uint8
	Offset          uint64
	PacketSize      uint32
	ReturnLocation  float32
	XYZDerivatives  [3]float32
}

package lasgo

import (
	"fmt"
	"math"
)

// Row is the logical, real-valued representation of one point, the input
// to LASPoint and the output of reading a record back out column by column
// (spec §4.3). Every field other than the X/Y/Z position and Extra is a
// pointer so callers can distinguish "not
// carried by this row" from a real zero value; LASPoint only consults a
// field when the target PointFormat actually has the corresponding column.
type Row struct {
	X, Y, Z float64

	Intensity *float64 // normalised 0..1

	ReturnNumber, NumberOfReturns             *uint8
	ScanDirection, EdgeOfFlightLine           *bool
	Synthetic, KeyPoint, Withheld, Overlap    *bool
	ScannerChannel                            *uint8
	Classification                            *uint8
	ScanAngleDegrees                          *float64
	UserData                                  *uint8
	PointSourceID                             *uint16
	GPSTime                                   *float64
	Color                                     *ColorData
	NIR                                       *uint16
	WaveformDescriptorIndex                   *uint8
	WaveformOffset                            *uint64
	WaveformSize                              *uint32
	WaveformReturnLocation                    *float32
	WaveformXYZDerivatives                    *[3]float32

	// Extra holds user-column values keyed by column name, each a slice of
	// VectorLen float64s (length 1 for a scalar column). Absent keys mean
	// "use zero for this column" when the row is appended to a table that
	// already carries it.
	Extra map[string][]float64
}

// Point is the decoded, on-wire shape of one point record: every field a
// point format might carry, independent of which format is in play. A
// PointFormat's Columns() determines which of these fields were actually
// read from or will be written to disk.
type Point struct {
	RawX, RawY, RawZ int32

	Intensity uint16

	ReturnNumber, NumberOfReturns          uint8
	ScanDirection, EdgeOfFlightLine        bool
	Synthetic, KeyPoint, Withheld, Overlap bool
	ScannerChannel                         uint8
	Classification                         uint8
	ScanAngleRaw                           int16 // i8 range for formats 0-5, i16 (0.006 deg LSB) for 6-10
	UserData                               uint8
	PointSourceID                          uint16
	GPSTime                                float64
	Color                                  ColorData
	NIR                                    uint16
	WaveformDescriptorIndex                uint8
	WaveformOffset                         uint64
	WaveformSize                           uint32
	WaveformReturnLocation                 float32
	WaveformXYZDerivatives                 [3]float32
}

func clampU16Normalised(v float64) uint16 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint16(math.Floor(float64(math.MaxUint16) * v))
}

func clampU8(v uint8, max uint8) uint8 {
	if v > max {
		return max
	}
	return v
}

func clampI8Angle(deg float64) int8 {
	if deg > 90 {
		deg = 90
	}
	if deg < -90 {
		deg = -90
	}
	return int8(math.Round(deg))
}

func clampI16Angle(deg float64) int16 {
	raw := math.Round(deg / 0.006)
	if raw > 30000 {
		raw = 30000
	}
	if raw < -30000 {
		raw = -30000
	}
	return int16(raw)
}

// SetNIR sets row's near-infrared field from a NIRData value, the grouped
// form of the bare uint16 LASPoint consults for formats 8 and 10.
func (row *Row) SetNIR(n NIRData) {
	row.NIR = &n.Value
}

// NIRValue wraps p's raw NIR field as a NIRData value.
func (p Point) NIRValue() NIRData {
	return NIRData{Value: p.NIR}
}

// SetWaveform fills row's five waveform fields from a single WaveformData
// value, the grouped convenience form of the discrete Row fields LASPoint
// actually consults.
func (row *Row) SetWaveform(w WaveformData) {
	row.WaveformDescriptorIndex = &w.DescriptorIndex
	row.WaveformOffset = &w.Offset
	row.WaveformSize = &w.PacketSize
	row.WaveformReturnLocation = &w.ReturnLocation
	row.WaveformXYZDerivatives = &w.XYZDerivatives
}

// Waveform collects p's five discrete waveform fields into one WaveformData
// value.
func (p Point) Waveform() WaveformData {
	return WaveformData{
		DescriptorIndex: p.WaveformDescriptorIndex,
		Offset:          p.WaveformOffset,
		PacketSize:      p.WaveformSize,
		ReturnLocation:  p.WaveformReturnLocation,
		XYZDerivatives:  p.WaveformXYZDerivatives,
	}
}

// LASPoint builds a binary point record from a logical row, applying the
// per-format clamping and conversion rules of spec §4.3. It fails with
// ScaleOutOfRange (rather than silently clamping) when a coordinate does
// not fit an int32 at the dataset's current scale/offset (spec §4.2, §7,
// §8 Scenario 6).
func LASPoint(format PointFormat, row Row, spatial SpatialInfo) (Point, error) {
	cols := format.Columns()
	var p Point

	var err error
	if p.RawX, err = realToRawChecked(row.X, spatial.Scale.X, spatial.Offset.X); err != nil {
		return Point{}, fmt.Errorf("x: %w", err)
	}
	if p.RawY, err = realToRawChecked(row.Y, spatial.Scale.Y, spatial.Offset.Y); err != nil {
		return Point{}, fmt.Errorf("y: %w", err)
	}
	if p.RawZ, err = realToRawChecked(row.Z, spatial.Scale.Z, spatial.Offset.Z); err != nil {
		return Point{}, fmt.Errorf("z: %w", err)
	}

	if cols.Has(ColumnSet(ColIntensity)) && row.Intensity != nil {
		p.Intensity = clampU16Normalised(*row.Intensity)
	}

	maxReturn := uint8(5)
	if format.Is14Style() {
		maxReturn = 15
	}
	if row.ReturnNumber != nil {
		p.ReturnNumber = clampU8(*row.ReturnNumber, maxReturn)
	}
	if row.NumberOfReturns != nil {
		p.NumberOfReturns = clampU8(*row.NumberOfReturns, maxReturn)
	}

	if row.ScanDirection != nil {
		p.ScanDirection = *row.ScanDirection
	}
	if row.EdgeOfFlightLine != nil {
		p.EdgeOfFlightLine = *row.EdgeOfFlightLine
	}
	if row.Synthetic != nil {
		p.Synthetic = *row.Synthetic
	}
	if row.KeyPoint != nil {
		p.KeyPoint = *row.KeyPoint
	}
	if row.Withheld != nil {
		p.Withheld = *row.Withheld
	}
	if cols.Has(ColumnSet(ColOverlap)) && row.Overlap != nil {
		p.Overlap = *row.Overlap
	}
	if cols.Has(ColumnSet(ColScannerChannel)) && row.ScannerChannel != nil {
		p.ScannerChannel = clampU8(*row.ScannerChannel, 3)
	}

	if row.Classification != nil {
		p.Classification = *row.Classification
	}

	if row.ScanAngleDegrees != nil {
		if format.Is14Style() {
			p.ScanAngleRaw = clampI16Angle(*row.ScanAngleDegrees)
		} else {
			p.ScanAngleRaw = int16(clampI8Angle(*row.ScanAngleDegrees))
		}
	}

	if row.UserData != nil {
		p.UserData = *row.UserData
	}
	if row.PointSourceID != nil {
		p.PointSourceID = *row.PointSourceID
	}

	if cols.Has(ColumnSet(ColGPSTime)) && row.GPSTime != nil {
		p.GPSTime = *row.GPSTime
	}

	if cols.Has(ColumnSet(ColColor)) && row.Color != nil {
		p.Color = *row.Color
	}
	if cols.Has(ColumnSet(ColNIR)) && row.NIR != nil {
		p.NIR = *row.NIR
	}

	if cols.Has(ColumnSet(ColWaveformDescriptorIndex)) {
		if row.WaveformDescriptorIndex != nil {
			p.WaveformDescriptorIndex = *row.WaveformDescriptorIndex
		}
		if row.WaveformOffset != nil {
			p.WaveformOffset = *row.WaveformOffset
		}
		if row.WaveformSize != nil {
			p.WaveformSize = *row.WaveformSize
		}
		if row.WaveformReturnLocation != nil {
			p.WaveformReturnLocation = *row.WaveformReturnLocation
		}
		if row.WaveformXYZDerivatives != nil {
			p.WaveformXYZDerivatives = *row.WaveformXYZDerivatives
		}
	}

	return p, nil
}

// RowFromPoint is the full inverse of LASPoint: it reconstructs a logical
// Row from every column a decoded Point's format carries (spec §4.3
// "get_column... inverts each of the above").
func RowFromPoint(format PointFormat, p Point, spatial SpatialInfo) Row {
	cols := format.Columns()
	row := Row{
		X: rawToReal(p.RawX, spatial.Scale.X, spatial.Offset.X),
		Y: rawToReal(p.RawY, spatial.Scale.Y, spatial.Offset.Y),
		Z: rawToReal(p.RawZ, spatial.Scale.Z, spatial.Offset.Z),
	}

	intensity := float64(p.Intensity) / float64(math.MaxUint16)
	row.Intensity = &intensity
	row.ReturnNumber = &p.ReturnNumber
	row.NumberOfReturns = &p.NumberOfReturns
	row.ScanDirection = &p.ScanDirection
	row.EdgeOfFlightLine = &p.EdgeOfFlightLine
	row.Synthetic = &p.Synthetic
	row.KeyPoint = &p.KeyPoint
	row.Withheld = &p.Withheld

	if cols.Has(ColumnSet(ColOverlap)) {
		row.Overlap = &p.Overlap
	}
	if cols.Has(ColumnSet(ColScannerChannel)) {
		row.ScannerChannel = &p.ScannerChannel
	}

	row.Classification = &p.Classification

	var angle float64
	if format.Is14Style() {
		angle = float64(p.ScanAngleRaw) * 0.006
	} else {
		angle = float64(int8(p.ScanAngleRaw))
	}
	row.ScanAngleDegrees = &angle

	row.UserData = &p.UserData
	row.PointSourceID = &p.PointSourceID

	if cols.Has(ColumnSet(ColGPSTime)) {
		row.GPSTime = &p.GPSTime
	}
	if cols.Has(ColumnSet(ColColor)) {
		row.Color = &p.Color
	}
	if cols.Has(ColumnSet(ColNIR)) {
		row.NIR = &p.NIR
	}
	if cols.Has(ColumnSet(ColWaveformDescriptorIndex)) {
		row.WaveformDescriptorIndex = &p.WaveformDescriptorIndex
		row.WaveformOffset = &p.WaveformOffset
		row.WaveformSize = &p.WaveformSize
		row.WaveformReturnLocation = &p.WaveformReturnLocation
		row.WaveformXYZDerivatives = &p.WaveformXYZDerivatives
	}

	return row
}

// GetColumn inverts one field of a decoded Point back into a logical,
// real-valued column value (spec §4.3). ok is false when format does not
// carry col at all, in which case value is nil.
func GetColumn(col Column, format PointFormat, p Point, spatial SpatialInfo) (value any, ok bool) {
	cols := format.Columns()
	if !cols.Has(ColumnSet(col)) {
		return nil, false
	}

	switch col {
	case ColPosition:
		return [3]float64{
			rawToReal(p.RawX, spatial.Scale.X, spatial.Offset.X),
			rawToReal(p.RawY, spatial.Scale.Y, spatial.Offset.Y),
			rawToReal(p.RawZ, spatial.Scale.Z, spatial.Offset.Z),
		}, true
	case ColIntensity:
		return float64(p.Intensity) / float64(math.MaxUint16), true
	case ColReturnNumber:
		return p.ReturnNumber, true
	case ColNumberOfReturns:
		return p.NumberOfReturns, true
	case ColScanDirection:
		return p.ScanDirection, true
	case ColEdgeOfFlightLine:
		return p.EdgeOfFlightLine, true
	case ColSynthetic:
		return p.Synthetic, true
	case ColKeyPoint:
		return p.KeyPoint, true
	case ColWithheld:
		return p.Withheld, true
	case ColOverlap:
		return p.Overlap, true
	case ColScannerChannel:
		return p.ScannerChannel, true
	case ColClassification:
		return p.Classification, true
	case ColScanAngle:
		if format.Is14Style() {
			return float64(p.ScanAngleRaw) * 0.006, true
		}
		return float64(int8(p.ScanAngleRaw)), true
	case ColUserData:
		return p.UserData, true
	case ColPointSourceID:
		return p.PointSourceID, true
	case ColGPSTime:
		return p.GPSTime, true
	case ColColor:
		return p.Color, true
	case ColNIR:
		return p.NIR, true
	case ColWaveformDescriptorIndex:
		return p.WaveformDescriptorIndex, true
	case ColWaveformOffset:
		return p.WaveformOffset, true
	case ColWaveformSize:
		return p.WaveformSize, true
	case ColWaveformReturnLocation:
		return p.WaveformReturnLocation, true
	case ColWaveformXYZDerivatives:
		return p.WaveformXYZDerivatives, true
	default:
		return nil, false
	}
}

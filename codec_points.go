package lasgo

import (
	"fmt"
	"io"
	"math"

	"github.com/ordishs/lasgo/lasgoerr"
)

// base05FixedSize and base610FixedSize are the always-present prefixes of
// the formats-0-5 and formats-6-10 fixed layouts, before the optional gps
// time / color / nir / waveform groups (spec §3, §6).
const (
	base05FixedSize  = 20
	base610FixedSize = 30
)

// encodePointFixed writes the format-determined fixed portion of one point
// record into dst, which must be exactly format.Size() bytes (spec §3, §6).
func encodePointFixed(dst []byte, format PointFormat, p Point) {
	le.PutUint32(dst[0:4], uint32(p.RawX))
	le.PutUint32(dst[4:8], uint32(p.RawY))
	le.PutUint32(dst[8:12], uint32(p.RawZ))
	le.PutUint16(dst[12:14], p.Intensity)

	var off int
	if format.Is14Style() {
		flags := ReturnFlags14{
			ReturnNumber: p.ReturnNumber, NumberOfReturns: p.NumberOfReturns,
			Synthetic: p.Synthetic, KeyPoint: p.KeyPoint, Withheld: p.Withheld, Overlap: p.Overlap,
			ScannerChannel: p.ScannerChannel, ScanDirection: p.ScanDirection, EdgeOfFlight: p.EdgeOfFlightLine,
		}
		dst[14] = flags.PackByte1()
		dst[15] = flags.PackByte2()
		dst[16] = p.Classification
		le.PutUint16(dst[17:19], uint16(p.ScanAngleRaw))
		dst[19] = p.UserData
		le.PutUint16(dst[20:22], p.PointSourceID)
		putFloat64Bytes(dst[22:30], p.GPSTime)
		off = base610FixedSize
	} else {
		flags := ReturnFlags{ReturnNumber: p.ReturnNumber, NumberOfReturns: p.NumberOfReturns,
			ScanDirection: p.ScanDirection, EdgeOfFlight: p.EdgeOfFlightLine}
		dst[14] = flags.Pack()
		cb := ClassificationByte{Class: p.Classification, Synthetic: p.Synthetic, KeyPoint: p.KeyPoint, Withheld: p.Withheld}
		dst[15] = cb.Pack()
		dst[16] = byte(int8(p.ScanAngleRaw))
		dst[17] = p.UserData
		le.PutUint16(dst[18:20], p.PointSourceID)
		off = base05FixedSize
		if format.HasTime() {
			putFloat64Bytes(dst[off:off+8], p.GPSTime)
			off += 8
		}
	}

	if format.HasColor() {
		le.PutUint16(dst[off:off+2], p.Color.Red)
		le.PutUint16(dst[off+2:off+4], p.Color.Green)
		le.PutUint16(dst[off+4:off+6], p.Color.Blue)
		off += 6
	}
	if format.HasNIR() {
		le.PutUint16(dst[off:off+2], p.NIR)
		off += 2
	}
	if format.HasWaveform() {
		dst[off] = p.WaveformDescriptorIndex
		off++
		le.PutUint64(dst[off:off+8], p.WaveformOffset)
		off += 8
		le.PutUint32(dst[off:off+4], p.WaveformSize)
		off += 4
		le.PutUint32(dst[off:off+4], math.Float32bits(p.WaveformReturnLocation))
		off += 4
		for _, v := range p.WaveformXYZDerivatives {
			le.PutUint32(dst[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
}

// decodePointFixed is the inverse of encodePointFixed.
func decodePointFixed(src []byte, format PointFormat) Point {
	var p Point
	p.RawX = int32(le.Uint32(src[0:4]))
	p.RawY = int32(le.Uint32(src[4:8]))
	p.RawZ = int32(le.Uint32(src[8:12]))
	p.Intensity = le.Uint16(src[12:14])

	var off int
	if format.Is14Style() {
		flags := UnpackReturnFlags14(src[14], src[15])
		p.ReturnNumber = flags.ReturnNumber
		p.NumberOfReturns = flags.NumberOfReturns
		p.Synthetic = flags.Synthetic
		p.KeyPoint = flags.KeyPoint
		p.Withheld = flags.Withheld
		p.Overlap = flags.Overlap
		p.ScannerChannel = flags.ScannerChannel
		p.ScanDirection = flags.ScanDirection
		p.EdgeOfFlightLine = flags.EdgeOfFlight
		p.Classification = src[16]
		p.ScanAngleRaw = int16(le.Uint16(src[17:19]))
		p.UserData = src[19]
		p.PointSourceID = le.Uint16(src[20:22])
		p.GPSTime = float64FromBytes(src[22:30])
		off = base610FixedSize
	} else {
		flags := UnpackReturnFlags(src[14])
		p.ReturnNumber = flags.ReturnNumber
		p.NumberOfReturns = flags.NumberOfReturns
		p.ScanDirection = flags.ScanDirection
		p.EdgeOfFlightLine = flags.EdgeOfFlight
		cb := UnpackClassificationByte(src[15])
		p.Classification = cb.Class
		p.Synthetic = cb.Synthetic
		p.KeyPoint = cb.KeyPoint
		p.Withheld = cb.Withheld
		p.ScanAngleRaw = int16(int8(src[16]))
		p.UserData = src[17]
		p.PointSourceID = le.Uint16(src[18:20])
		off = base05FixedSize
		if format.HasTime() {
			p.GPSTime = float64FromBytes(src[off : off+8])
			off += 8
		}
	}

	if format.HasColor() {
		p.Color = ColorData{
			Red:   le.Uint16(src[off : off+2]),
			Green: le.Uint16(src[off+2 : off+4]),
			Blue:  le.Uint16(src[off+4 : off+6]),
		}
		off += 6
	}
	if format.HasNIR() {
		p.NIR = le.Uint16(src[off : off+2])
		off += 2
	}
	if format.HasWaveform() {
		p.WaveformDescriptorIndex = src[off]
		off++
		p.WaveformOffset = le.Uint64(src[off : off+8])
		off += 8
		p.WaveformSize = le.Uint32(src[off : off+4])
		off += 4
		p.WaveformReturnLocation = math.Float32frombits(le.Uint32(src[off : off+4]))
		off += 4
		for i := range p.WaveformXYZDerivatives {
			p.WaveformXYZDerivatives[i] = math.Float32frombits(le.Uint32(src[off : off+4]))
			off += 4
		}
	}

	return p
}

// putScalar writes v into dst (exactly t.Size() bytes) under t's wire
// representation (spec §6 "supported extra-byte payload types").
func putScalar(dst []byte, t ScalarType, v float64) {
	switch t {
	case TypeU8:
		dst[0] = uint8(v)
	case TypeI8:
		dst[0] = byte(int8(v))
	case TypeU16:
		le.PutUint16(dst, uint16(v))
	case TypeI16:
		le.PutUint16(dst, uint16(int16(v)))
	case TypeU32:
		le.PutUint32(dst, uint32(v))
	case TypeI32:
		le.PutUint32(dst, uint32(int32(v)))
	case TypeU64:
		le.PutUint64(dst, uint64(v))
	case TypeI64:
		le.PutUint64(dst, uint64(int64(v)))
	case TypeF32:
		le.PutUint32(dst, math.Float32bits(float32(v)))
	case TypeF64:
		putFloat64Bytes(dst, v)
	}
}

// getScalar is the inverse of putScalar.
func getScalar(src []byte, t ScalarType) float64 {
	switch t {
	case TypeU8:
		return float64(src[0])
	case TypeI8:
		return float64(int8(src[0]))
	case TypeU16:
		return float64(le.Uint16(src))
	case TypeI16:
		return float64(int16(le.Uint16(src)))
	case TypeU32:
		return float64(le.Uint32(src))
	case TypeI32:
		return float64(int32(le.Uint32(src)))
	case TypeU64:
		return float64(le.Uint64(src))
	case TypeI64:
		return float64(int64(le.Uint64(src)))
	case TypeF32:
		return float64(math.Float32frombits(le.Uint32(src)))
	case TypeF64:
		return float64FromBytes(src)
	default:
		return 0
	}
}

// ReadPoints reads n sequential point records from r into a freshly built
// PointTable, according to layout (spec §4.6, §4.7, §6).
func ReadPoints(r io.Reader, spatial SpatialInfo, n int, layout RecordLayout) (*PointTable, error) {
	format := layout.Format
	table := NewPointTable(format)
	table.UndocumentedBytesPerRecord = layout.UndocumentedLen
	for _, c := range layout.Schema.Columns {
		table.UserColumns = append(table.UserColumns, UserColumnData{Name: c.Name, ElemType: c.ElemType, VectorLen: c.VectorLen})
	}

	recSize := layout.WireSize()
	buf := make([]byte, recSize)

	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: reading point record %d: %v", lasgoerr.ErrIoError, i, err)
		}

		p := decodePointFixed(buf[:format.Size()], format)
		row := RowFromPoint(format, p, spatial)

		if len(layout.Schema.Columns) > 0 {
			row.Extra = make(map[string][]float64, len(layout.Schema.Columns))
			off := format.Size()
			for _, c := range layout.Schema.Columns {
				vals := make([]float64, c.VectorLen)
				for k := 0; k < c.VectorLen; k++ {
					vals[k] = getScalar(buf[off:off+c.ElemType.Size()], c.ElemType)
					off += c.ElemType.Size()
				}
				row.Extra[c.Name] = vals
			}
		}

		table.AppendRow(row, nil)
		if layout.UndocumentedLen > 0 {
			undoc := make([]byte, layout.UndocumentedLen)
			copy(undoc, buf[recSize-layout.UndocumentedLen:])
			table.UndocumentedBytes[len(table.UndocumentedBytes)-1] = undoc
		}
	}

	return table, nil
}

// WritePoints serialises every row in table to w in one pass: it pre-sizes
// a single buffer for the whole point section and writes each record
// directly into its computed offset, rather than issuing one small write
// per field (spec §4.7 "columnar blit").
func WritePoints(w io.Writer, table *PointTable, format PointFormat, spatial SpatialInfo) error {
	layout := RecordLayout{
		Kind:            RecordKindPlain,
		Format:          format,
		UndocumentedLen: table.UndocumentedBytesPerRecord,
	}
	for _, c := range table.UserColumns {
		layout.Schema.Columns = append(layout.Schema.Columns, UserColumnSpec{Name: c.Name, ElemType: c.ElemType, VectorLen: c.VectorLen})
	}

	recSize := layout.WireSize()
	n := table.Len()
	buf := make([]byte, n*recSize)

	for i := 0; i < n; i++ {
		rec := buf[i*recSize : (i+1)*recSize]
		row := table.RowAt(i)
		p, err := LASPoint(format, row, spatial)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		encodePointFixed(rec[:format.Size()], format, p)

		off := format.Size()
		for _, c := range table.UserColumns {
			vals := c.Values[i]
			for k := 0; k < c.VectorLen; k++ {
				putScalar(rec[off:off+c.ElemType.Size()], c.ElemType, vals[k])
				off += c.ElemType.Size()
			}
		}

		if table.UndocumentedBytesPerRecord > 0 {
			copy(rec[off:], table.UndocumentedBytes[i])
		}
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: writing point records: %v", lasgoerr.ErrIoError, err)
	}
	return nil
}

package lasgo

import (
	"fmt"

	"github.com/ordishs/lasgo/lasgoerr"
)

// UserColumnData is one user-defined column's storage: Values holds one
// slice of length VectorLen per row (spec §4.6, §9 "Dynamic extra-bytes
// schema" — array-of-structs-of-columns storage keyed by a scalar-kind tag).
type UserColumnData struct {
	Name      string
	ElemType  ScalarType
	VectorLen int
	Values    [][]float64
}

// PointTable is the columnar in-memory storage for a dataset's points: one
// slice per LAS column plus an ordered set of user columns (spec §3, §4.8).
// Presence of the optional LAS column groups (gps time, color, nir,
// waveform, overlap/scanner-channel) is tracked explicitly rather than
// inferred from slice length, so an empty table still remembers its shape.
type PointTable struct {
	X, Y, Z []float64

	Intensity []float64 // normalised 0..1

	ReturnNumber, NumberOfReturns          []uint8
	ScanDirection, EdgeOfFlightLine        []bool
	Synthetic, KeyPoint, Withheld, Overlap []bool
	ScannerChannel                         []uint8
	Classification                         []uint8
	ScanAngle                              []float64 // degrees
	UserData                               []uint8
	PointSourceID                          []uint16
	GPSTime                                []float64
	Color                                  []ColorData
	NIR                                    []uint16
	WaveformDescriptorIndex                []uint8
	WaveformOffset                         []uint64
	WaveformSize                           []uint32
	WaveformReturnLocation                 []float32
	WaveformXYZDerivatives                 [][3]float32

	HasOverlapChannel bool
	HasGPSTime        bool
	HasColor          bool
	HasNIR            bool
	HasWaveform       bool

	// UndocumentedBytesPerRecord is the per-record trailing byte count not
	// covered by the point format or any user column (spec §4.6 UndocPointRecord).
	UndocumentedBytesPerRecord int
	UndocumentedBytes          [][]byte

	UserColumns []UserColumnData
}

// NewPointTable returns an empty table shaped for the given point format:
// its optional LAS column groups mirror the format's own (spec §4.8(i)).
func NewPointTable(format PointFormat) *PointTable {
	return &PointTable{
		HasOverlapChannel: format.Is14Style(),
		HasGPSTime:        format.HasTime(),
		HasColor:          format.HasColor(),
		HasNIR:            format.HasNIR(),
		HasWaveform:       format.HasWaveform(),
	}
}

// Len returns the number of rows (points) currently stored.
func (t *PointTable) Len() int { return len(t.X) }

// LASColumns returns the set of LAS (non-user) columns this table currently
// carries, used to enforce dataset invariant (i) against the chosen format.
func (t *PointTable) LASColumns() ColumnSet {
	cols := baseColumns.With(ColSynthetic, ColKeyPoint, ColWithheld)
	if t.HasOverlapChannel {
		cols = cols.With(ColOverlap, ColScannerChannel)
	}
	if t.HasGPSTime {
		cols = cols.With(ColGPSTime)
	}
	if t.HasColor {
		cols = cols.With(ColColor)
	}
	if t.HasNIR {
		cols = cols.With(ColNIR)
	}
	if t.HasWaveform {
		cols = cols.With(ColWaveformDescriptorIndex, ColWaveformOffset, ColWaveformSize,
			ColWaveformReturnLocation, ColWaveformXYZDerivatives)
	}
	return cols
}

// UserColumn returns the user column named name, or nil if none matches.
func (t *PointTable) UserColumn(name string) *UserColumnData {
	for i := range t.UserColumns {
		if t.UserColumns[i].Name == name {
			return &t.UserColumns[i]
		}
	}
	return nil
}

func zeroOr[T any](v *T, zero T) T {
	if v == nil {
		return zero
	}
	return *v
}

// AppendRow appends one logical row to the table. Missing values for
// columns the table already carries are filled with zero-of-type and
// reported through warn (spec §4.8 "add_points"); warn may be nil.
func (t *PointTable) AppendRow(row Row, warn func(string)) {
	note := func(col string) {
		if warn != nil {
			warn(fmt.Sprintf("point missing %q; filled with zero", col))
		}
	}

	t.X = append(t.X, row.X)
	t.Y = append(t.Y, row.Y)
	t.Z = append(t.Z, row.Z)

	if row.Intensity == nil {
		note("intensity")
	}
	t.Intensity = append(t.Intensity, zeroOr(row.Intensity, 0))

	if row.ReturnNumber == nil {
		note("return_number")
	}
	t.ReturnNumber = append(t.ReturnNumber, zeroOr(row.ReturnNumber, 0))

	if row.NumberOfReturns == nil {
		note("number_of_returns")
	}
	t.NumberOfReturns = append(t.NumberOfReturns, zeroOr(row.NumberOfReturns, 0))

	t.ScanDirection = append(t.ScanDirection, zeroOr(row.ScanDirection, false))
	t.EdgeOfFlightLine = append(t.EdgeOfFlightLine, zeroOr(row.EdgeOfFlightLine, false))
	t.Synthetic = append(t.Synthetic, zeroOr(row.Synthetic, false))
	t.KeyPoint = append(t.KeyPoint, zeroOr(row.KeyPoint, false))
	t.Withheld = append(t.Withheld, zeroOr(row.Withheld, false))

	if t.HasOverlapChannel {
		t.Overlap = append(t.Overlap, zeroOr(row.Overlap, false))
		t.ScannerChannel = append(t.ScannerChannel, zeroOr(row.ScannerChannel, 0))
	}

	if row.Classification == nil {
		note("classification")
	}
	t.Classification = append(t.Classification, zeroOr(row.Classification, 0))

	if row.ScanAngleDegrees == nil {
		note("scan_angle")
	}
	t.ScanAngle = append(t.ScanAngle, zeroOr(row.ScanAngleDegrees, 0))

	t.UserData = append(t.UserData, zeroOr(row.UserData, 0))
	t.PointSourceID = append(t.PointSourceID, zeroOr(row.PointSourceID, 0))

	if t.HasGPSTime {
		if row.GPSTime == nil {
			note("gps_time")
		}
		t.GPSTime = append(t.GPSTime, zeroOr(row.GPSTime, 0))
	}
	if t.HasColor {
		if row.Color == nil {
			note("color")
		}
		t.Color = append(t.Color, zeroOr(row.Color, ColorData{}))
	}
	if t.HasNIR {
		if row.NIR == nil {
			note("nir")
		}
		t.NIR = append(t.NIR, zeroOr(row.NIR, 0))
	}
	if t.HasWaveform {
		t.WaveformDescriptorIndex = append(t.WaveformDescriptorIndex, zeroOr(row.WaveformDescriptorIndex, 0))
		t.WaveformOffset = append(t.WaveformOffset, zeroOr(row.WaveformOffset, 0))
		t.WaveformSize = append(t.WaveformSize, zeroOr(row.WaveformSize, 0))
		t.WaveformReturnLocation = append(t.WaveformReturnLocation, zeroOr(row.WaveformReturnLocation, 0))
		t.WaveformXYZDerivatives = append(t.WaveformXYZDerivatives, zeroOr(row.WaveformXYZDerivatives, [3]float32{}))
	}

	if t.UndocumentedBytesPerRecord > 0 {
		t.UndocumentedBytes = append(t.UndocumentedBytes, make([]byte, t.UndocumentedBytesPerRecord))
	}

	for i := range t.UserColumns {
		col := &t.UserColumns[i]
		vals, ok := row.Extra[col.Name]
		if !ok {
			note(col.Name)
			vals = make([]float64, col.VectorLen)
		}
		col.Values = append(col.Values, vals)
	}
}

// RemoveAt deletes the rows at the given indices (spec §4.8 "remove_points"),
// preserving the relative order of the surviving rows.
func (t *PointTable) RemoveAt(indices []int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	keep := func(i int) bool { return !drop[i] }

	t.X = filterIndexed(t.X, keep)
	t.Y = filterIndexed(t.Y, keep)
	t.Z = filterIndexed(t.Z, keep)
	t.Intensity = filterIndexed(t.Intensity, keep)
	t.ReturnNumber = filterIndexed(t.ReturnNumber, keep)
	t.NumberOfReturns = filterIndexed(t.NumberOfReturns, keep)
	t.ScanDirection = filterIndexed(t.ScanDirection, keep)
	t.EdgeOfFlightLine = filterIndexed(t.EdgeOfFlightLine, keep)
	t.Synthetic = filterIndexed(t.Synthetic, keep)
	t.KeyPoint = filterIndexed(t.KeyPoint, keep)
	t.Withheld = filterIndexed(t.Withheld, keep)
	if t.HasOverlapChannel {
		t.Overlap = filterIndexed(t.Overlap, keep)
		t.ScannerChannel = filterIndexed(t.ScannerChannel, keep)
	}
	t.Classification = filterIndexed(t.Classification, keep)
	t.ScanAngle = filterIndexed(t.ScanAngle, keep)
	t.UserData = filterIndexed(t.UserData, keep)
	t.PointSourceID = filterIndexed(t.PointSourceID, keep)
	if t.HasGPSTime {
		t.GPSTime = filterIndexed(t.GPSTime, keep)
	}
	if t.HasColor {
		t.Color = filterIndexed(t.Color, keep)
	}
	if t.HasNIR {
		t.NIR = filterIndexed(t.NIR, keep)
	}
	if t.HasWaveform {
		t.WaveformDescriptorIndex = filterIndexed(t.WaveformDescriptorIndex, keep)
		t.WaveformOffset = filterIndexed(t.WaveformOffset, keep)
		t.WaveformSize = filterIndexed(t.WaveformSize, keep)
		t.WaveformReturnLocation = filterIndexed(t.WaveformReturnLocation, keep)
		t.WaveformXYZDerivatives = filterIndexed(t.WaveformXYZDerivatives, keep)
	}
	if t.UndocumentedBytesPerRecord > 0 {
		t.UndocumentedBytes = filterIndexed(t.UndocumentedBytes, keep)
	}
	for i := range t.UserColumns {
		t.UserColumns[i].Values = filterIndexed(t.UserColumns[i].Values, keep)
	}
}

func filterIndexed[T any](s []T, keep func(int) bool) []T {
	out := s[:0]
	for i, v := range s {
		if keep(i) {
			out = append(out, v)
		}
	}
	return out
}

// RowAt reconstructs the logical Row at index i, the inverse of AppendRow.
func (t *PointTable) RowAt(i int) Row {
	row := Row{X: t.X[i], Y: t.Y[i], Z: t.Z[i]}
	row.Intensity = ptrTo(t.Intensity[i])
	row.ReturnNumber = ptrTo(t.ReturnNumber[i])
	row.NumberOfReturns = ptrTo(t.NumberOfReturns[i])
	row.ScanDirection = ptrTo(t.ScanDirection[i])
	row.EdgeOfFlightLine = ptrTo(t.EdgeOfFlightLine[i])
	row.Synthetic = ptrTo(t.Synthetic[i])
	row.KeyPoint = ptrTo(t.KeyPoint[i])
	row.Withheld = ptrTo(t.Withheld[i])
	if t.HasOverlapChannel {
		row.Overlap = ptrTo(t.Overlap[i])
		row.ScannerChannel = ptrTo(t.ScannerChannel[i])
	}
	row.Classification = ptrTo(t.Classification[i])
	row.ScanAngleDegrees = ptrTo(t.ScanAngle[i])
	row.UserData = ptrTo(t.UserData[i])
	row.PointSourceID = ptrTo(t.PointSourceID[i])
	if t.HasGPSTime {
		row.GPSTime = ptrTo(t.GPSTime[i])
	}
	if t.HasColor {
		row.Color = ptrTo(t.Color[i])
	}
	if t.HasNIR {
		row.NIR = ptrTo(t.NIR[i])
	}
	if t.HasWaveform {
		row.WaveformDescriptorIndex = ptrTo(t.WaveformDescriptorIndex[i])
		row.WaveformOffset = ptrTo(t.WaveformOffset[i])
		row.WaveformSize = ptrTo(t.WaveformSize[i])
		row.WaveformReturnLocation = ptrTo(t.WaveformReturnLocation[i])
		row.WaveformXYZDerivatives = ptrTo(t.WaveformXYZDerivatives[i])
	}
	if len(t.UserColumns) > 0 {
		row.Extra = make(map[string][]float64, len(t.UserColumns))
		for _, col := range t.UserColumns {
			row.Extra[col.Name] = col.Values[i]
		}
	}
	return row
}

func ptrTo[T any](v T) *T { return &v }

// AddColumn adds or replaces a user column, verifying its element type is
// one of the ten base scalar types and that values has exactly Len() rows
// (spec §4.8 "add_column"/"merge_column").
func (t *PointTable) AddColumn(name string, elemType ScalarType, vectorLen int, values [][]float64, overwrite bool) error {
	if !elemType.Valid() {
		return fmt.Errorf("%w: %s", lasgoerr.ErrUnsupportedUserType, elemType)
	}
	if len(values) != t.Len() {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", lasgoerr.ErrLengthMismatch, name, len(values), t.Len())
	}

	if existing := t.UserColumn(name); existing != nil {
		if !overwrite {
			return fmt.Errorf("%w: user column %q already exists", lasgoerr.ErrDuplicateVlrId, name)
		}
		existing.ElemType = elemType
		existing.VectorLen = vectorLen
		existing.Values = values
		return nil
	}

	t.UserColumns = append(t.UserColumns, UserColumnData{Name: name, ElemType: elemType, VectorLen: vectorLen, Values: values})
	return nil
}

package lasgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func fullRow() Row {
	return Row{
		X: 100.5, Y: -50.25, Z: 10.0,
		Intensity:        ptr(0.5),
		ReturnNumber:     ptr(uint8(2)),
		NumberOfReturns:  ptr(uint8(3)),
		ScanDirection:    ptr(true),
		EdgeOfFlightLine: ptr(false),
		Synthetic:        ptr(false),
		KeyPoint:         ptr(true),
		Withheld:         ptr(false),
		Overlap:          ptr(true),
		ScannerChannel:   ptr(uint8(2)),
		Classification:   ptr(uint8(5)),
		ScanAngleDegrees: ptr(12.5),
		UserData:         ptr(uint8(7)),
		PointSourceID:    ptr(uint16(42)),
		GPSTime:          ptr(1234.5),
		Color:            &ColorData{Red: 100, Green: 200, Blue: 300},
		NIR:              ptr(uint16(999)),
	}
}

func TestLASPointRowFromPointRoundTripFormat7(t *testing.T) {
	spatial := defaultSpatialInfo()
	row := fullRow()

	p, err := LASPoint(PointFormat7, row, spatial)
	require.NoError(t, err)
	got := RowFromPoint(PointFormat7, p, spatial)

	assert.InDelta(t, row.X, got.X, 1e-3)
	assert.InDelta(t, row.Y, got.Y, 1e-3)
	assert.InDelta(t, row.Z, got.Z, 1e-3)
	assert.Equal(t, *row.ReturnNumber, *got.ReturnNumber)
	assert.Equal(t, *row.NumberOfReturns, *got.NumberOfReturns)
	assert.Equal(t, *row.Classification, *got.Classification)
	assert.InDelta(t, *row.ScanAngleDegrees, *got.ScanAngleDegrees, 0.01)
	assert.Equal(t, *row.Color, *got.Color)
	assert.Nil(t, got.NIR) // format 7 does not carry NIR
}

func TestLASPointClampsIntensityAndReturnNumber(t *testing.T) {
	row := Row{Intensity: ptr(2.0), ReturnNumber: ptr(uint8(99))}
	p, err := LASPoint(PointFormat0, row, defaultSpatialInfo())
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), p.Intensity)
	assert.Equal(t, uint8(5), p.ReturnNumber) // clamped to format-0-5's max of 5
}

func TestLASPointScanAngleClampingFormat0Vs6(t *testing.T) {
	row := Row{ScanAngleDegrees: ptr(200.0)}
	p0, err := LASPoint(PointFormat0, row, defaultSpatialInfo())
	require.NoError(t, err)
	assert.Equal(t, int16(90), p0.ScanAngleRaw)

	p6, err := LASPoint(PointFormat6, row, defaultSpatialInfo())
	require.NoError(t, err)
	assert.Equal(t, int16(30000), p6.ScanAngleRaw)
}

func TestGetColumnReportsUnsupportedColumn(t *testing.T) {
	_, ok := GetColumn(ColNIR, PointFormat0, Point{}, defaultSpatialInfo())
	assert.False(t, ok)

	v, ok := GetColumn(ColPosition, PointFormat0, Point{RawX: 10}, SpatialInfo{Scale: AxisInfo[float64]{X: 1, Y: 1, Z: 1}})
	assert.True(t, ok)
	assert.Equal(t, [3]float64{10, 0, 0}, v)
}

func TestNIRDataRoundTrip(t *testing.T) {
	row := Row{}
	row.SetNIR(NIRData{Value: 1234})

	p, err := LASPoint(PointFormat8, row, defaultSpatialInfo())
	require.NoError(t, err)
	assert.Equal(t, NIRData{Value: 1234}, p.NIRValue())
}

func TestWaveformDataRoundTrip(t *testing.T) {
	row := Row{}
	w := WaveformData{DescriptorIndex: 3, Offset: 1000, PacketSize: 64, ReturnLocation: 1.5, XYZDerivatives: [3]float32{1, 2, 3}}
	row.SetWaveform(w)

	p, err := LASPoint(PointFormat5, row, defaultSpatialInfo())
	require.NoError(t, err)
	assert.Equal(t, w, p.Waveform())
}

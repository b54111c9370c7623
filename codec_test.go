package lasgo

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderWriteReadRoundTrip(t *testing.T) {
	h, err := NewHeader(PointFormat3)
	require.NoError(t, err)
	h.GUID = uuid.New()
	h.SystemIdentifier = "lasgo-test"
	h.GeneratingSoftware = "lasgo"
	h.FileSourceID = 7
	h.SetGPSTimeKind(true)
	h.Spatial.Scale = AxisInfo[float64]{X: 0.01, Y: 0.01, Z: 0.01}
	h.Spatial.Offset = AxisInfo[float64]{X: 100, Y: 200, Z: 0}
	h.Spatial.Range = AxisInfo[Range]{
		X: Range{Min: 90, Max: 110}, Y: Range{Min: 190, Max: 210}, Z: Range{Min: -5, Max: 5},
	}
	require.NoError(t, h.SetPointRecordCount(3))

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	got, err := ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, h.GUID, got.GUID)
	assert.Equal(t, h.SystemIdentifier, got.SystemIdentifier)
	assert.Equal(t, h.FileSourceID, got.FileSourceID)
	assert.Equal(t, h.VersionInfo, got.VersionInfo)
	assert.Equal(t, h.PointFormatID, got.PointFormatID)
	assert.Equal(t, h.Spatial, got.Spatial)
	assert.True(t, got.GPSTimeKind())
	assert.Equal(t, h.PointCount64, got.PointCount64)
}

func TestHeaderReadRejectsBadSignature(t *testing.T) {
	buf := bytes.NewBufferString("NOPE" + string(make([]byte, 300)))
	_, err := ReadHeader(buf)
	require.Error(t, err)
}

func TestVLRWriteReadRoundTripRaw(t *testing.T) {
	v := &VLR{UserID: "custom", RecordID: 99, Description: "notes", Payload: []byte("hello world")}
	var buf bytes.Buffer
	require.NoError(t, WriteVLR(&buf, v))

	got, err := ReadVLR(&buf, false)
	require.NoError(t, err)
	assert.Equal(t, v.UserID, got.UserID)
	assert.Equal(t, v.RecordID, got.RecordID)
	assert.Equal(t, v.Description, got.Description)
	assert.Equal(t, []byte("hello world"), got.Payload)
}

func TestVLRWriteReadRoundTripExtraBytes(t *testing.T) {
	v := &VLR{
		UserID: UserIDLASFSpec, RecordID: RecordIDExtraBytes,
		Payload: &ExtraBytesPayload{Entries: []ExtraBytesEntry{
			{Name: "amp", DataType: TypeF32},
			{Name: "normal [0]", DataType: TypeF32},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteVLR(&buf, v))

	got, err := ReadVLR(&buf, false)
	require.NoError(t, err)
	payload := got.Payload.(*ExtraBytesPayload)
	require.Len(t, payload.Entries, 2)
	assert.Equal(t, "amp", payload.Entries[0].Name)
	assert.Equal(t, TypeF32, payload.Entries[0].DataType)
}

func TestVLRWriteRejectsInconsistentRecordID(t *testing.T) {
	v := &VLR{UserID: UserIDLASFSpec, RecordID: 1, Payload: &ExtraBytesPayload{}}
	var buf bytes.Buffer
	require.Error(t, WriteVLR(&buf, v))
}

func TestPointsWriteReadRoundTripFormat3(t *testing.T) {
	spatial := SpatialInfo{
		Scale:  AxisInfo[float64]{X: 0.01, Y: 0.01, Z: 0.01},
		Offset: AxisInfo[float64]{},
	}
	tbl := NewPointTable(PointFormat3)
	tbl.AppendRow(Row{
		X: 12.34, Y: -5.67, Z: 100.0,
		Intensity: ptr(0.75), ReturnNumber: ptr(uint8(1)), NumberOfReturns: ptr(uint8(1)),
		Classification: ptr(uint8(2)), ScanAngleDegrees: ptr(-10.0),
		GPSTime: ptr(555.5), Color: &ColorData{Red: 10, Green: 20, Blue: 30},
	}, nil)
	tbl.AppendRow(Row{X: 1, Y: 2, Z: 3, Color: &ColorData{Red: 1, Green: 1, Blue: 1}}, nil)

	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, tbl, PointFormat3, spatial))

	layout, err := ResolveRecordLayout(PointFormat3, PointFormat3.Size(), nil)
	require.NoError(t, err)
	got, err := ReadPoints(&buf, spatial, 2, layout)
	require.NoError(t, err)

	assert.InDelta(t, 12.34, got.X[0], 1e-2)
	assert.InDelta(t, -5.67, got.Y[0], 1e-2)
	assert.Equal(t, ColorData{Red: 10, Green: 20, Blue: 30}, got.Color[0])
	assert.Equal(t, uint8(2), got.Classification[0])
}

func TestPointsWriteReadRoundTripWithUserColumn(t *testing.T) {
	spatial := defaultSpatialInfo()
	tbl := NewPointTable(PointFormat0)
	tbl.AppendRow(Row{X: 1, Y: 2, Z: 3}, nil)
	tbl.AppendRow(Row{X: 4, Y: 5, Z: 6}, nil)
	require.NoError(t, tbl.AddColumn("amp", TypeF32, 1, [][]float64{{1.5}, {2.5}}, false))

	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, tbl, PointFormat0, spatial))

	eb := buildExtraBytesPayload(tbl.UserColumns)
	layout, err := ResolveRecordLayout(PointFormat0, PointFormat0.Size()+eb.Entries[0].DataType.Size(), eb)
	require.NoError(t, err)

	got, err := ReadPoints(&buf, spatial, 2, layout)
	require.NoError(t, err)
	require.Len(t, got.UserColumns, 1)
	assert.InDelta(t, 1.5, got.UserColumns[0].Values[0][0], 1e-5)
	assert.InDelta(t, 2.5, got.UserColumns[0].Values[1][0], 1e-5)
}

func TestReadWriteLASEndToEnd(t *testing.T) {
	ds, err := NewDataset(PointFormat1)
	require.NoError(t, err)
	// Intensities sit on the 16-bit grid (k/65535) that the record stores,
	// so they survive the write/read round trip unchanged.
	require.NoError(t, ds.AddPoints([]Row{
		{X: 10, Y: 20, Z: 30, GPSTime: ptr(1.0), Intensity: ptr(32767.0 / 65535), Classification: ptr(uint8(2))},
		{X: -10, Y: -20, Z: -30, GPSTime: ptr(2.0), Intensity: ptr(6553.0 / 65535), Classification: ptr(uint8(3))},
	}, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteLAS(&buf, ds))

	got, err := ReadLAS(&buf)
	require.NoError(t, err)

	assert.True(t, DatasetsEqual(ds, got))
}

func TestReadLASAppliesUnitConversionAndWriteLASReversesIt(t *testing.T) {
	ds, err := NewDataset(PointFormat6)
	require.NoError(t, err)
	require.NoError(t, ds.AddVLR(VLR{
		UserID: UserIDLASFProjection, RecordID: RecordIDOGCWKT,
		Payload: &OGCWKT{WKT: `PROJCS["test",UNIT["foot_international",0.3048]]`},
	}, nil))
	require.NoError(t, ds.AddPoints([]Row{{X: 1000, Y: 2000, Z: 300}}, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteLAS(&buf, ds))

	got, err := ReadLAS(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.UnitConversion)
	assert.Equal(t, "foot_international", got.UnitConversion.HorizontalName)
	assert.InDelta(t, 0.3048, got.UnitConversion.HorizontalFactor, 1e-9)
	assert.InDelta(t, 1000*0.3048, got.Table.X[0], 1e-3)
	assert.InDelta(t, 2000*0.3048, got.Table.Y[0], 1e-3)
	assert.InDelta(t, 300*0.3048, got.Table.Z[0], 1e-3)

	var buf2 bytes.Buffer
	require.NoError(t, WriteLAS(&buf2, got))
	assert.InDelta(t, 1000*0.3048, got.Table.X[0], 1e-3) // WriteLAS must not corrupt the in-memory metre-valued table

	roundTripped, err := ReadLAS(&buf2)
	require.NoError(t, err)
	assert.InDelta(t, 1000*0.3048, roundTripped.Table.X[0], 1e-3)
}

func TestReadWriteLASWithVLRsAndUserColumns(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}, nil))
	require.NoError(t, ds.AddColumn("amp", TypeF32, 1, [][]float64{{1.25}, {2.5}}, nil))
	require.NoError(t, ds.AddVLR(VLR{UserID: "custom", RecordID: 5, Payload: []byte("meta")}, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteLAS(&buf, ds))

	got, err := ReadLAS(&buf)
	require.NoError(t, err)
	assert.True(t, DatasetsEqual(ds, got))
}

package lasgo

import (
	"math"
	"testing"

	"github.com/ordishs/lasgo/lasgoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatasetEmpty(t *testing.T) {
	ds, err := NewDataset(PointFormat1)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Table.Len())
	assert.Equal(t, PointFormat1, ds.Header.PointFormatID)
}

func TestNewDatasetWithOptions(t *testing.T) {
	var warnings []string
	ds, err := NewDataset(PointFormat0,
		WithLogger(NewCallbackLogger(func(msg string) { warnings = append(warnings, msg) })),
		WithScale(0.001, 0.001, 0.001),
		WithUnitConversion("foot", 0.3048))
	require.NoError(t, err)
	assert.Equal(t, 0.001, ds.Header.Spatial.Scale.X)
	require.NotNil(t, ds.UnitConversion)
	assert.Equal(t, "foot", ds.UnitConversion.HorizontalName)
	assert.Equal(t, 0.3048, ds.UnitConversion.VerticalFactor)
	_ = warnings
}

func TestAddPointsRecomputesSpatialRangeAndReturns(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)

	rows := []Row{
		{X: 0, Y: 0, Z: 0, ReturnNumber: ptr(uint8(1))},
		{X: 10, Y: -5, Z: 2, ReturnNumber: ptr(uint8(2))},
	}
	require.NoError(t, ds.AddPoints(rows, nil))

	assert.Equal(t, 2, ds.Table.Len())
	assert.Equal(t, 0.0, ds.Header.Spatial.Range.X.Min)
	assert.Equal(t, 10.0, ds.Header.Spatial.Range.X.Max)
	assert.Equal(t, -5.0, ds.Header.Spatial.Range.Y.Min)
	assert.Equal(t, uint64(2), ds.Header.PointCount64)
	assert.Equal(t, uint32(1), ds.Header.LegacyPointsByReturn[0])
	assert.Equal(t, uint32(1), ds.Header.LegacyPointsByReturn[1])
}

func TestAddColumnUpgradesFormatForRecognisedLASColumn(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1}, {X: 2}}, nil))

	require.NoError(t, ds.AddColumn("gps_time", TypeF64, 1, [][]float64{{1.0}, {2.0}}, nil))
	assert.True(t, ds.Header.PointFormatID.HasTime())
	assert.Equal(t, []float64{1.0, 2.0}, ds.Table.GPSTime)
}

func TestAddColumnUserColumnSyncsExtraBytesVLR(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1}, {X: 2}}, nil))

	require.NoError(t, ds.AddColumn("amplitude", TypeF32, 1, [][]float64{{1.5}, {2.5}}, nil))

	found := false
	for _, v := range ds.VLRs {
		if v.UserID == UserIDLASFSpec && v.RecordID == RecordIDExtraBytes {
			found = true
			payload := v.Payload.(*ExtraBytesPayload)
			require.Len(t, payload.Entries, 1)
			assert.Equal(t, "amplitude", payload.Entries[0].Name)
		}
	}
	assert.True(t, found)
}

func TestMergeColumnOverwritesExistingUserColumn(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1}}, nil))
	require.NoError(t, ds.AddColumn("amp", TypeF32, 1, [][]float64{{1.0}}, nil))
	require.NoError(t, ds.MergeColumn("amp", TypeF32, 1, [][]float64{{9.0}}, nil))
	assert.Equal(t, 9.0, ds.Table.UserColumn("amp").Values[0][0])
}

func TestAddColumnLengthMismatch(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1}, {X: 2}}, nil))
	err = ds.AddColumn("amp", TypeF32, 1, [][]float64{{1.0}}, nil)
	require.Error(t, err)
}

func TestAddVLRRejectsDuplicateID(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	v := VLR{UserID: "custom", RecordID: 1, Payload: []byte("a")}
	require.NoError(t, ds.AddVLR(v, nil))
	require.Error(t, ds.AddVLR(v, nil))
}

func TestAddVLRExtendedUpgradesVersion(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	v := VLR{UserID: "custom", RecordID: 2, Payload: []byte("b"), Extended: true}
	require.NoError(t, ds.AddVLR(v, nil))
	assert.Equal(t, Version{1, 4}, ds.Header.VersionInfo)
	assert.Len(t, ds.EVLRs, 1)
}

func TestRemoveVLRNotFound(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	err = ds.RemoveVLR(VLR{UserID: "x", RecordID: 1}, nil)
	require.Error(t, err)
}

func TestSetSupersededRewritesRecordID(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	v := VLR{UserID: UserIDLASFSpec, RecordID: RecordIDClassificationLookup, Payload: &ClassificationLookup{}}
	require.NoError(t, ds.AddVLR(v, nil))
	require.NoError(t, ds.SetSuperseded(v))
	assert.Equal(t, uint16(RecordIDSuperseded), ds.VLRs[0].RecordID)
}

func TestSetSupersededRejectsNonLASFSpecUserID(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	v := VLR{UserID: UserIDLASFProjection, RecordID: RecordIDOGCWKT, Payload: &OGCWKT{WKT: "x"}}
	require.NoError(t, ds.AddVLR(v, nil))

	err = ds.SetSuperseded(v)
	require.Error(t, err)
	assert.NotEqual(t, uint16(RecordIDSuperseded), ds.VLRs[0].RecordID)
}

func TestAddPointsFailsScaleOutOfRange(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)

	outOfRange := 3 * math.Pow(2, 31) * 1e-4
	err = ds.AddPoints([]Row{{X: 0}, {X: outOfRange}}, nil)
	require.ErrorIs(t, err, lasgoerr.ErrScaleOutOfRange)
}

func TestRemovePoints(t *testing.T) {
	ds, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, ds.AddPoints([]Row{{X: 1}, {X: 2}, {X: 3}}, nil))
	require.NoError(t, ds.RemovePoints([]int{1}, nil))
	assert.Equal(t, []float64{1, 3}, ds.Table.X)
	assert.Equal(t, uint64(2), ds.Header.PointCount64)
}

func TestDatasetsEqualDetectsDifference(t *testing.T) {
	dsA, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, dsA.AddPoints([]Row{{X: 1}}, nil))

	dsB, err := NewDataset(PointFormat0)
	require.NoError(t, err)
	require.NoError(t, dsB.AddPoints([]Row{{X: 1}}, nil))

	assert.True(t, DatasetsEqual(dsA, dsB))

	require.NoError(t, dsB.AddPoints([]Row{{X: 2}}, nil))
	assert.False(t, DatasetsEqual(dsA, dsB))
}

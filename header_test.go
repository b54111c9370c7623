package lasgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeaderDefaults(t *testing.T) {
	h, err := NewHeader(PointFormat3)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 2}, h.VersionInfo)
	assert.Equal(t, uint16(34), h.RecordLength)
	assert.Equal(t, uint16(227), h.HeaderSize())
}

func TestNewHeaderRejectsUnknownFormat(t *testing.T) {
	_, err := NewHeader(PointFormat(200))
	require.Error(t, err)
}

func TestNewHeaderSetsWKTBitForExtendedFormats(t *testing.T) {
	h, err := NewHeader(PointFormat6)
	require.NoError(t, err)
	ok, err := h.WKTCRS()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetLasVersionAdjustsOffsets(t *testing.T) {
	h, err := NewHeader(PointFormat0)
	require.NoError(t, err)
	before := h.PointDataOffset

	require.NoError(t, h.SetLasVersion(Version{1, 4}))
	assert.Equal(t, uint16(375), h.HeaderSizeField)
	assert.Equal(t, before+uint32(375-227), h.PointDataOffset)
}

func TestSetLasVersionRejectsTooOldForFormat(t *testing.T) {
	h, err := NewHeader(PointFormat6)
	require.NoError(t, err)
	require.Error(t, h.SetLasVersion(Version{1, 2}))
}

func TestSetPointFormatUpgradesVersionWhenNeeded(t *testing.T) {
	h, err := NewHeader(PointFormat0)
	require.NoError(t, err)

	var warned string
	require.NoError(t, h.SetPointFormat(PointFormat6, func(msg string) { warned = msg }))
	assert.Equal(t, PointFormat6, h.PointFormatID)
	assert.Equal(t, Version{1, 4}, h.VersionInfo)
	assert.NotEmpty(t, warned)
	assert.Equal(t, uint16(30), h.RecordLength)
}

func TestSetPointRecordCountLegacyOverflow(t *testing.T) {
	h, err := NewHeader(PointFormat0)
	require.NoError(t, err)
	err = h.SetPointRecordCount(uint64(1) << 33)
	require.Error(t, err)
}

func TestSetPointRecordCountClearsLegacyOnExtendedFormat(t *testing.T) {
	h, err := NewHeader(PointFormat6)
	require.NoError(t, err)
	require.NoError(t, h.SetPointRecordCount(10))
	assert.Equal(t, uint64(10), h.PointCount64)
	assert.Equal(t, uint32(0), h.LegacyPointCount)
}

func TestGlobalEncodingBits(t *testing.T) {
	h := &Header{}
	assert.False(t, h.GPSTimeKind())
	h.SetGPSTimeKind(true)
	assert.True(t, h.GPSTimeKind())

	h.SetWaveformInternal(true)
	assert.True(t, h.WaveformInternal())
	assert.False(t, h.WaveformExternal())

	h.SetWaveformExternal(true)
	assert.True(t, h.WaveformExternal())
	assert.False(t, h.WaveformInternal())

	h.SetSyntheticReturns(true)
	assert.True(t, h.SyntheticReturns())
}

func TestWKTCRSFailsWhenUnsetOnExtendedFormat(t *testing.T) {
	h := &Header{PointFormatID: PointFormat7}
	_, err := h.WKTCRS()
	require.Error(t, err)
}

package lasgo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoKeysEncodeDecodeRoundTrip(t *testing.T) {
	g := &GeoKeys{
		KeyDirectoryVersion: 1, KeyRevision: 1, MinorRevision: 0,
		Keys: []GeoKeyEntry{
			{KeyID: 1024, TIFFTagLoc: 0, Count: 1, ValueOffset: 1},
			{KeyID: 2048, TIFFTagLoc: 34736, Count: 1, ValueOffset: 0},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, g.encode(&buf))

	got := &GeoKeys{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, g.Keys, got.Keys)
	assert.Equal(t, uint16(2), got.NumberOfKeys)
}

func TestGeoDoubleParamsTagRoundTrip(t *testing.T) {
	g := &GeoDoubleParamsTag{Values: []float64{1.5, -2.25, 3.0}}
	var buf bytes.Buffer
	require.NoError(t, g.encode(&buf))

	got := &GeoDoubleParamsTag{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, g.Values, got.Values)
}

func TestGeoAsciiParamsTagRoundTrip(t *testing.T) {
	g := &GeoAsciiParamsTag{Raw: []byte("WGS84|Meters\x00")}
	var buf bytes.Buffer
	require.NoError(t, g.encode(&buf))

	got := &GeoAsciiParamsTag{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, g.Raw, got.Raw)
}

func TestOGCWKTRoundTripAndUnitParsing(t *testing.T) {
	o := &OGCWKT{WKT: `PROJCS["NAD83",UNIT["metre",1.0]]`}
	var buf bytes.Buffer
	require.NoError(t, o.encode(&buf))

	got := &OGCWKT{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, o.WKT, got.WKT)
	assert.Equal(t, "metre", got.HorizontalUnit)
}

func TestClassificationLookupRoundTrip(t *testing.T) {
	c := &ClassificationLookup{Entries: []ClassificationEntry{
		{ClassNumber: 2, Description: "Ground"},
		{ClassNumber: 5, Description: "Vegetation"},
	}}
	var buf bytes.Buffer
	require.NoError(t, c.encode(&buf))

	got := &ClassificationLookup{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "Ground", got.Entries[0].Description)
	assert.Equal(t, uint8(5), got.Entries[1].ClassNumber)
}

func TestClassificationLookupRejectsTooManyEntries(t *testing.T) {
	entries := make([]ClassificationEntry, maxClassificationEntries+1)
	c := &ClassificationLookup{Entries: entries}
	var buf bytes.Buffer
	require.Error(t, c.encode(&buf))
}

func TestTextAreaDescriptionRoundTrip(t *testing.T) {
	tx := &TextAreaDescription{Text: "captured by drone flight 12"}
	var buf bytes.Buffer
	require.NoError(t, tx.encode(&buf))

	got := &TextAreaDescription{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, tx.Text, got.Text)
}

func TestWaveformPacketDescriptorRoundTrip(t *testing.T) {
	d := &WaveformPacketDescriptor{
		BitsPerSample: 16, CompressionType: 0, NumberOfSamples: 200,
		TemporalSampleSpacing: 500, DigitizerGain: 1.0, DigitizerOffset: 0.0,
	}
	var buf bytes.Buffer
	require.NoError(t, d.encode(&buf))

	got := &WaveformPacketDescriptor{}
	require.NoError(t, got.decode(&buf, buf.Len()))
	assert.Equal(t, *d, *got)
}

func TestExpectedRecordID(t *testing.T) {
	id, ok := expectedRecordID(UserIDLASFProjection, &GeoKeys{})
	assert.True(t, ok)
	assert.Equal(t, uint16(RecordIDGeoKeys), id)

	_, ok = expectedRecordID(UserIDLASFSpec, &GeoKeys{})
	assert.False(t, ok)

	_, ok = expectedRecordID(UserIDLASFSpec, []byte("raw"))
	assert.False(t, ok)
}

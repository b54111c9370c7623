package lasgo

import (
	"testing"

	"github.com/ordishs/lasgo/lasgoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeContainsAndExtend(t *testing.T) {
	r := Range{Min: -1, Max: 1}
	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(1))
	assert.False(t, r.Contains(2))

	r = r.Extend(5)
	assert.Equal(t, 5.0, r.Max)
	r = r.Extend(-5)
	assert.Equal(t, -5.0, r.Min)
}

func TestRealToRawCheckedRoundTrip(t *testing.T) {
	scale, offset := 0.01, 100.0
	raw, err := realToRawChecked(123.45, scale, offset)
	require.NoError(t, err)
	got := rawToReal(raw, scale, offset)
	assert.InDelta(t, 123.45, got, 1e-9)
}

func TestRealToRawCheckedFailsOutOfRange(t *testing.T) {
	_, err := realToRawChecked(1e18, 1.0, 0.0)
	require.ErrorIs(t, err, lasgoerr.ErrScaleOutOfRange)

	_, err = realToRawChecked(-1e18, 1.0, 0.0)
	require.ErrorIs(t, err, lasgoerr.ErrScaleOutOfRange)
}

func TestDetermineOffsetRoundTrips(t *testing.T) {
	offset, err := determineOffset(1000.0, 2000.0, 0.001)
	require.NoError(t, err)

	for _, v := range []float64{1000.0, 2000.0, 1500.0} {
		raw, err := realToRawChecked(v, 0.001, offset)
		require.NoError(t, err)
		assert.InDelta(t, v, rawToReal(raw, 0.001, offset), 1e-6)
	}
}

func TestBoundingBox(t *testing.T) {
	xs := []float64{1, -2, 3}
	ys := []float64{5, 5, -5}
	zs := []float64{0, 0, 0}
	min, max := boundingBox(xs, ys, zs)
	assert.Equal(t, AxisInfo[float64]{X: -2, Y: -5, Z: 0}, min)
	assert.Equal(t, AxisInfo[float64]{X: 3, Y: 5, Z: 0}, max)
}

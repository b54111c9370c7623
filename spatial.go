package lasgo

import (
	"fmt"
	"math"

	"github.com/ordishs/lasgo/lasgoerr"
)

// AxisInfo is an ordered (x, y, z) triple of the same element type. It is
// used for scale factors, offsets, and (as AxisInfo[Range]) bounding ranges.
type AxisInfo[T any] struct {
	X, Y, Z T
}

// Range is an inclusive interval with Max >= Min. Membership is Min <= v <= Max.
type Range struct {
	Min, Max float64
}

// Contains reports whether v falls within the closed interval [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Extend grows r (in place semantics via the returned value) so it also
// encloses v.
func (r Range) Extend(v float64) Range {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

// SpatialInfo encodes how raw signed-32 point coordinates map to real
// positions: real = raw*scale + offset.
type SpatialInfo struct {
	Scale  AxisInfo[float64]
	Offset AxisInfo[float64]
	Range  AxisInfo[Range]
}

// defaultScale is the scale factor used when a dataset is assembled without
// an explicit spatial hint (spec §3).
const defaultScale = 1e-4

// defaultSpatialInfo returns a SpatialInfo with the default scale, zero
// offset, and an empty (inverted) range ready to be Extend-ed by real points.
func defaultSpatialInfo() SpatialInfo {
	empty := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	return SpatialInfo{
		Scale:  AxisInfo[float64]{X: defaultScale, Y: defaultScale, Z: defaultScale},
		Offset: AxisInfo[float64]{},
		Range:  AxisInfo[Range]{X: empty, Y: empty, Z: empty},
	}
}

// boundingBox computes the per-axis min/max of a slice of positions in one pass.
func boundingBox(xs, ys, zs []float64) (min, max AxisInfo[float64]) {
	min = AxisInfo[float64]{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = AxisInfo[float64]{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := range xs {
		if xs[i] < min.X {
			min.X = xs[i]
		}
		if xs[i] > max.X {
			max.X = xs[i]
		}
		if ys[i] < min.Y {
			min.Y = ys[i]
		}
		if ys[i] > max.Y {
			max.Y = ys[i]
		}
		if zs[i] < min.Z {
			min.Z = zs[i]
		}
		if zs[i] > max.Z {
			max.Z = zs[i]
		}
	}
	return min, max
}

// scaleThreshold is the rounding granularity used by determineOffset (spec §4.2).
const scaleThreshold = 1e7

// determineOffset chooses a rounded offset for one axis such that both
// endpoints, once converted to raw signed-32 integers at the given scale,
// fit in an int32 and round-trip to the same sign as the real value. An
// endpoint whose raw value rounds to 0 maps back onto the offset itself and
// is always accepted.
func determineOffset(min, max, scale float64) (float64, error) {
	s := math.Round((min+max)/(2*scale*scaleThreshold)) * scaleThreshold * scale

	for _, endpoint := range []float64{min, max} {
		raw := math.Round((endpoint - s) / scale)
		if raw < math.MinInt32 || raw > math.MaxInt32 {
			return 0, fmt.Errorf("%w: endpoint %g does not fit int32 at scale %g with offset %g", lasgoerr.ErrScaleOutOfRange, endpoint, scale, s)
		}
		back := raw*scale + s
		if raw != 0 && (back-s < 0) != (endpoint-s < 0) {
			return 0, fmt.Errorf("%w: endpoint %g changes sign relative to offset %g after round trip", lasgoerr.ErrScaleOutOfRange, endpoint, s)
		}
	}
	return s, nil
}

// realToRawChecked converts a real value to a raw signed-32 integer at the
// given scale/offset, failing with ScaleOutOfRange instead of silently
// clamping when the value does not fit (spec §4.2, §7, §8 Scenario 6: a
// point at `x = 3*(2^31)*1e-4` must raise ScaleOutOfRange, not get
// truncated into an unrelated, in-range coordinate).
func realToRawChecked(v, scale, offset float64) (int32, error) {
	raw := math.Round((v - offset) / scale)
	if raw < math.MinInt32 || raw > math.MaxInt32 {
		return 0, fmt.Errorf("%w: value %g does not fit int32 at scale %g with offset %g", lasgoerr.ErrScaleOutOfRange, v, scale, offset)
	}
	return int32(raw), nil
}

// rawToReal converts a raw signed-32 integer back to a real value.
func rawToReal(raw int32, scale, offset float64) float64 {
	return float64(raw)*scale + offset
}

package lasgo

// Option configures a Dataset at construction time (options-as-closures,
// applied in order by NewDataset).
type Option func(*Dataset) error

// WithHeader replaces a freshly synthesised Dataset's header outright,
// e.g. to carry over a caller-built GUID, system identifier, or software tag.
func WithHeader(h *Header) Option {
	return func(ds *Dataset) error {
		ds.Header = h
		return nil
	}
}

// WithLogger installs the Logger that NewDataset and WriteLAS report
// warnings to (spec §7's diagnostic callback). The mutation methods
// (AddPoints, AddColumn, AddVLR, ...) report to the warn callback passed to
// each call, not to this Logger. Passing nil installs the no-op default.
func WithLogger(l Logger) Option {
	return func(ds *Dataset) error {
		ds.Logger = l
		return nil
	}
}

// UnitConversion records the linear-unit rescaling ReadLAS applied to a
// dataset's coordinates on ingest (from the OGC WKT VLR's declared units to
// metres), so WriteLAS can reverse it and emit positions back in their
// original unit (spec §4.7, §9 "Unit conversion"). Horizontal and vertical
// units can differ (a WKT COMPD_CS pairing a projected horizontal CS with a
// separate VERT_CS), so each axis pair carries its own factor; a uniform
// conversion simply sets both pairs the same.
type UnitConversion struct {
	HorizontalName   string
	HorizontalFactor float64 // metres per original unit; divide a stored (metre) X/Y value by this to recover the original unit
	VerticalName     string
	VerticalFactor   float64 // metres per original unit; divide a stored (metre) Z value by this to recover the original unit
}

// WithUnitConversion installs a uniform unit conversion record on the
// dataset without itself touching any stored coordinate; callers apply the
// conversion to their input rows before calling AddPoints. ReadLAS installs
// its own (possibly non-uniform) UnitConversion automatically when the OGC
// WKT VLR names a non-metric unit.
func WithUnitConversion(name string, factor float64) Option {
	return func(ds *Dataset) error {
		ds.UnitConversion = &UnitConversion{
			HorizontalName: name, HorizontalFactor: factor,
			VerticalName: name, VerticalFactor: factor,
		}
		return nil
	}
}

// WithScale sets the dataset's per-axis scale factors before any points are
// added.
func WithScale(x, y, z float64) Option {
	return func(ds *Dataset) error {
		ds.Header.Spatial.Scale = AxisInfo[float64]{X: x, Y: y, Z: z}
		return nil
	}
}

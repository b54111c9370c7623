package lasgo

import (
	"fmt"
	"math"

	"github.com/ordishs/lasgo/lasgoerr"
)

// Dataset ties a header, a columnar point table, and the file's VLRs/EVLRs
// together, and is the unit every mutation keeps internally consistent
// (spec §4.8).
type Dataset struct {
	Header           *Header
	Table            *PointTable
	VLRs             []VLR
	EVLRs            []VLR
	UserDefinedBytes []byte

	Logger Logger

	// UnitConversion, if set, records the linear unit conversion applied to
	// this dataset's coordinates on ingest, so a later write can undo it and
	// emit positions back in their original unit (spec §9 "Unit conversion").
	UnitConversion *UnitConversion
}

// warn returns ds's configured Logger adapted to the plain func(string)
// every mutation helper threads through.
func (ds *Dataset) warn() func(string) { return warnFunc(ds.Logger) }

// NewDataset assembles an empty dataset for the given point format, with a
// freshly synthesised header and an empty table shaped to match.
func NewDataset(format PointFormat, opts ...Option) (*Dataset, error) {
	h, err := NewHeader(format)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Header: h, Table: NewPointTable(format)}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	if err := ds.refreshInvariants(ds.warn()); err != nil {
		return nil, err
	}
	return ds, nil
}

// lasColumnKind maps a recognised LAS column name to its Column tag (spec
// §4.8 "add_column": "recognised LAS column not present in the current format").
func lasColumnKind(name string) (Column, bool) {
	switch name {
	case "gps_time":
		return ColGPSTime, true
	case "color":
		return ColColor, true
	case "nir":
		return ColNIR, true
	default:
		return 0, false
	}
}

func flattenScalar(values [][]float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if len(v) > 0 {
			out[i] = v[0]
		}
	}
	return out
}

func toColorColumn(values [][]float64) []ColorData {
	out := make([]ColorData, len(values))
	for i, v := range values {
		if len(v) >= 3 {
			out[i] = ColorData{Red: uint16(v[0]), Green: uint16(v[1]), Blue: uint16(v[2])}
		}
	}
	return out
}

func toU16Column(values [][]float64) []uint16 {
	out := make([]uint16, len(values))
	for i, v := range values {
		if len(v) > 0 {
			out[i] = uint16(v[0])
		}
	}
	return out
}

// addLASColumn installs values into one of the table's recognised LAS
// column groups, upgrading the point format first if the format doesn't
// carry the column yet (spec §4.8 "add_column").
func (ds *Dataset) addLASColumn(col Column, values [][]float64, warn func(string)) error {
	if !ds.Table.LASColumns().Has(ColumnSet(col)) {
		required := ds.Table.LASColumns().With(col)
		newFmt, err := SelectPointFormat(required)
		if err != nil {
			return err
		}
		if warn != nil {
			warn(fmt.Sprintf("upgrading point format %s to %s to support a new column", ds.Header.PointFormatID, newFmt))
		}
		if err := ds.Header.SetPointFormat(newFmt, warn); err != nil {
			return err
		}
		switch col {
		case ColGPSTime:
			ds.Table.HasGPSTime = true
		case ColColor:
			ds.Table.HasColor = true
		case ColNIR:
			ds.Table.HasNIR = true
		}
	}

	switch col {
	case ColGPSTime:
		ds.Table.GPSTime = flattenScalar(values)
	case ColColor:
		ds.Table.Color = toColorColumn(values)
	case ColNIR:
		ds.Table.NIR = toU16Column(values)
	}

	return ds.refreshInvariants(warn)
}

// AddColumn implements spec §4.8's add_column: it fails LengthMismatch on a
// row-count mismatch, routes recognised LAS column names through
// addLASColumn, and otherwise adds a new user column via the extra-bytes VLR.
func (ds *Dataset) AddColumn(name string, elemType ScalarType, vectorLen int, values [][]float64, warn func(string)) error {
	if len(values) != ds.Table.Len() {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", lasgoerr.ErrLengthMismatch, name, len(values), ds.Table.Len())
	}
	if col, ok := lasColumnKind(name); ok {
		return ds.addLASColumn(col, values, warn)
	}
	if err := ds.Table.AddColumn(name, elemType, vectorLen, values, false); err != nil {
		return err
	}
	return ds.syncExtraBytesVLR(warn)
}

// MergeColumn implements spec §4.8's merge_column: like AddColumn but
// overwrites an existing user column in place instead of failing.
func (ds *Dataset) MergeColumn(name string, elemType ScalarType, vectorLen int, values [][]float64, warn func(string)) error {
	if len(values) != ds.Table.Len() {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", lasgoerr.ErrLengthMismatch, name, len(values), ds.Table.Len())
	}
	if col, ok := lasColumnKind(name); ok {
		return ds.addLASColumn(col, values, warn)
	}
	if err := ds.Table.AddColumn(name, elemType, vectorLen, values, true); err != nil {
		return err
	}
	return ds.syncExtraBytesVLR(warn)
}

// buildExtraBytesPayload re-derives the single ExtraBytes VLR payload from
// the table's current user columns, splitting vector columns into
// consecutive "name [i]" entries (spec §4.8(viii), §9).
func buildExtraBytesPayload(cols []UserColumnData) *ExtraBytesPayload {
	payload := &ExtraBytesPayload{}
	for _, c := range cols {
		if c.VectorLen <= 1 {
			payload.Entries = append(payload.Entries, ExtraBytesEntry{Name: c.Name, DataType: c.ElemType})
			continue
		}
		for i := 0; i < c.VectorLen; i++ {
			payload.Entries = append(payload.Entries, ExtraBytesEntry{
				Name: fmt.Sprintf("%s [%d]", c.Name, i), DataType: c.ElemType,
			})
		}
	}
	return payload
}

// syncExtraBytesVLR rewrites (or creates) the file's single LASF_Spec/4
// ExtraBytes VLR to match the table's current user columns.
func (ds *Dataset) syncExtraBytesVLR(warn func(string)) error {
	payload := buildExtraBytesPayload(ds.Table.UserColumns)
	for i := range ds.VLRs {
		if ds.VLRs[i].UserID == UserIDLASFSpec && ds.VLRs[i].RecordID == RecordIDExtraBytes {
			ds.VLRs[i].Payload = payload
			return ds.refreshInvariants(warn)
		}
	}
	return ds.AddVLR(VLR{UserID: UserIDLASFSpec, RecordID: RecordIDExtraBytes, Payload: payload}, warn)
}

// hasNonSupersededKey reports whether a non-superseded VLR with key k
// already exists among vs.
func hasNonSupersededKey(vs []VLR, k vlrKey) bool {
	for i := range vs {
		if vs[i].key() == k && !vs[i].isSuperseded() {
			return true
		}
	}
	return false
}

// AddVLR implements spec §4.8's add_vlr.
func (ds *Dataset) AddVLR(v VLR, warn func(string)) error {
	if err := validateVLR(&v); err != nil {
		return err
	}
	k := v.key()
	if hasNonSupersededKey(ds.VLRs, k) || hasNonSupersededKey(ds.EVLRs, k) {
		return fmt.Errorf("%w: %q/%d", lasgoerr.ErrDuplicateVlrId, v.UserID, v.RecordID)
	}

	if v.Extended && ds.Header.VersionInfo.Less(Version{1, 4}) {
		if warn != nil {
			warn(fmt.Sprintf("extended VLR %q/%d requires spec >= 1.4; upgrading from %s", v.UserID, v.RecordID, ds.Header.VersionInfo))
		}
		if err := ds.Header.SetLasVersion(Version{1, 4}); err != nil {
			return err
		}
	}

	if v.Extended {
		ds.EVLRs = append(ds.EVLRs, v)
	} else {
		ds.VLRs = append(ds.VLRs, v)
	}

	return ds.refreshInvariants(warn)
}

// RemoveVLR implements spec §4.8's remove_vlr, the reverse of AddVLR.
func (ds *Dataset) RemoveVLR(v VLR, warn func(string)) error {
	list := &ds.VLRs
	if v.Extended {
		list = &ds.EVLRs
	}
	idx := -1
	for i := range *list {
		if (*list)[i].key() == v.key() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q/%d", lasgoerr.ErrVlrNotFound, v.UserID, v.RecordID)
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	return ds.refreshInvariants(warn)
}

// SetSuperseded implements spec §4.8's set_superseded: rewrites the
// matching VLR's record id to the superseded marker (7) in place. Only
// VLRs authored under "LASF_Spec" may be superseded (spec §4.5); record
// id 7 has no defined meaning under any other user id.
func (ds *Dataset) SetSuperseded(v VLR) error {
	if v.UserID != UserIDLASFSpec {
		return fmt.Errorf("%w: %q/%d: only %q VLRs may be superseded", lasgoerr.ErrInconsistentVlr, v.UserID, v.RecordID, UserIDLASFSpec)
	}
	for i := range ds.VLRs {
		if ds.VLRs[i].key() == v.key() {
			ds.VLRs[i].RecordID = RecordIDSuperseded
			return nil
		}
	}
	for i := range ds.EVLRs {
		if ds.EVLRs[i].key() == v.key() {
			ds.EVLRs[i].RecordID = RecordIDSuperseded
			return nil
		}
	}
	return fmt.Errorf("%w: %q/%d", lasgoerr.ErrVlrNotFound, v.UserID, v.RecordID)
}

// AddPoints implements spec §4.8's add_points: appends rows, filling
// missing columns with zero-of-type (warning), then recomputes counts and
// spatial info.
func (ds *Dataset) AddPoints(rows []Row, warn func(string)) error {
	for _, row := range rows {
		ds.Table.AppendRow(row, warn)
	}
	return ds.refreshInvariants(warn)
}

// RemovePoints implements spec §4.8's remove_points.
func (ds *Dataset) RemovePoints(indices []int, warn func(string)) error {
	ds.Table.RemoveAt(indices)
	return ds.refreshInvariants(warn)
}

// recomputeSpatialRange re-derives the header's bounding box from the
// table's current positions (spec §4.8(vii)), then re-derives a per-axis
// offset that keeps every coordinate representable as an int32 at the
// dataset's current scale (spec §4.2), failing with ScaleOutOfRange when
// no such offset exists (spec §7, §8 Scenario 6).
func (ds *Dataset) recomputeSpatialRange() error {
	if ds.Table.Len() == 0 {
		empty := Range{Min: math.Inf(1), Max: math.Inf(-1)}
		ds.Header.Spatial.Range = AxisInfo[Range]{X: empty, Y: empty, Z: empty}
		return nil
	}
	min, max := boundingBox(ds.Table.X, ds.Table.Y, ds.Table.Z)
	ds.Header.Spatial.Range = AxisInfo[Range]{
		X: Range{Min: min.X, Max: max.X},
		Y: Range{Min: min.Y, Max: max.Y},
		Z: Range{Min: min.Z, Max: max.Z},
	}

	scale := ds.Header.Spatial.Scale
	offsetX, err := determineOffset(min.X, max.X, scale.X)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	offsetY, err := determineOffset(min.Y, max.Y, scale.Y)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}
	offsetZ, err := determineOffset(min.Z, max.Z, scale.Z)
	if err != nil {
		return fmt.Errorf("z: %w", err)
	}
	ds.Header.Spatial.Offset = AxisInfo[float64]{X: offsetX, Y: offsetY, Z: offsetZ}
	return nil
}

// recomputePointsByReturn re-derives the legacy and 1.4 per-return counters
// from the table's return-number column (spec §8 P3).
func (ds *Dataset) recomputePointsByReturn() {
	ds.Header.LegacyPointsByReturn = [5]uint32{}
	ds.Header.PointsByReturn14 = [15]uint64{}
	for _, rn := range ds.Table.ReturnNumber {
		if rn >= 1 && int(rn) <= len(ds.Header.PointsByReturn14) {
			ds.Header.PointsByReturn14[rn-1]++
		}
		if rn >= 1 && int(rn) <= len(ds.Header.LegacyPointsByReturn) {
			ds.Header.LegacyPointsByReturn[rn-1]++
		}
	}
}

// userColumnsWireSize returns the combined on-disk width of a row's
// documented user columns.
func (ds *Dataset) userColumnsWireSize() int {
	n := 0
	for _, c := range ds.Table.UserColumns {
		n += c.ElemType.Size() * c.VectorLen
	}
	return n
}

// vlrsWireSize returns the combined on-disk size of the given VLR list.
func vlrsWireSize(vs []VLR) (int, error) {
	total := 0
	for i := range vs {
		n, err := vs[i].WireSize()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// hasWKTVLR reports whether a LASF_Projection/2112 OGC WKT VLR is present
// among vs (spec §4.8(x)).
func hasWKTVLR(vs []VLR) bool {
	for i := range vs {
		if vs[i].UserID == UserIDLASFProjection && vs[i].RecordID == RecordIDOGCWKT {
			return true
		}
	}
	return false
}

// refreshInvariants restores every invariant in spec §4.8 after a mutation:
// record length, data offset, VLR/EVLR counts, EVLR start, point count,
// per-return counts, spatial range, and the WKT global-encoding bit.
func (ds *Dataset) refreshInvariants(warn func(string)) error {
	h := ds.Header

	h.RecordLength = uint16(h.PointFormatID.Size() + ds.userColumnsWireSize() + ds.Table.UndocumentedBytesPerRecord)

	vlrSize, err := vlrsWireSize(ds.VLRs)
	if err != nil {
		return err
	}
	h.NumberOfVLRs = uint32(len(ds.VLRs))
	h.PointDataOffset = uint32(int(h.HeaderSize()) + vlrSize + len(ds.UserDefinedBytes))

	h.EVLRCount = uint32(len(ds.EVLRs))
	if len(ds.EVLRs) > 0 {
		h.EVLRStart = uint64(h.PointDataOffset) + uint64(ds.Table.Len())*uint64(h.RecordLength)
	} else {
		h.EVLRStart = 0
	}

	if err := h.SetPointRecordCount(uint64(ds.Table.Len())); err != nil {
		return err
	}
	ds.recomputePointsByReturn()
	if err := ds.recomputeSpatialRange(); err != nil {
		return err
	}

	h.SetWKTCRS(h.PointFormatID >= PointFormat6 || hasWKTVLR(ds.VLRs) || hasWKTVLR(ds.EVLRs))

	return nil
}

const equalityTolerance = 1e-6

func floatsEqual(a, b float64) bool { return math.Abs(a-b) <= equalityTolerance }

func floatSlicesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// vlrSetsEqual compares two VLR lists as order-insensitive sets keyed by
// (user-id, record-id) (spec §4.8 "Equality").
func vlrSetsEqual(a, b []VLR) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, va := range a {
		found := false
		for j, vb := range b {
			if used[j] {
				continue
			}
			if va.key() == vb.key() && va.Extended == vb.Extended {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DatasetsEqual reports whether a and b match on: the header's point format
// id and version; the point count; the X/Y/Z, intensity and scan-angle
// columns and every user column, each within absolute tolerance 1e-6; the
// return number, number of returns and classification columns exactly;
// VLRs/EVLRs as order-insensitive sets of (user-id, record-id, extended)
// keys; and user-defined bytes exactly. No other header field is compared,
// nor the GPS time, color, NIR, user-data, point-source-id, flag-bit or
// waveform columns, nor VLR payload contents.
func DatasetsEqual(a, b *Dataset) bool {
	if a.Header.PointFormatID != b.Header.PointFormatID || a.Header.VersionInfo != b.Header.VersionInfo {
		return false
	}
	if a.Table.Len() != b.Table.Len() {
		return false
	}
	if !floatSlicesEqual(a.Table.X, b.Table.X) || !floatSlicesEqual(a.Table.Y, b.Table.Y) || !floatSlicesEqual(a.Table.Z, b.Table.Z) {
		return false
	}
	if !floatSlicesEqual(a.Table.Intensity, b.Table.Intensity) {
		return false
	}
	for i := range a.Table.ReturnNumber {
		if a.Table.ReturnNumber[i] != b.Table.ReturnNumber[i] || a.Table.NumberOfReturns[i] != b.Table.NumberOfReturns[i] {
			return false
		}
		if a.Table.Classification[i] != b.Table.Classification[i] {
			return false
		}
	}
	if !floatSlicesEqual(a.Table.ScanAngle, b.Table.ScanAngle) {
		return false
	}
	if len(a.Table.UserColumns) != len(b.Table.UserColumns) {
		return false
	}
	for _, ca := range a.Table.UserColumns {
		cb := b.Table.UserColumn(ca.Name)
		if cb == nil || ca.ElemType != cb.ElemType || ca.VectorLen != cb.VectorLen {
			return false
		}
		for i := range ca.Values {
			if !floatSlicesEqual(ca.Values[i], cb.Values[i]) {
				return false
			}
		}
	}
	if !vlrSetsEqual(a.VLRs, b.VLRs) || !vlrSetsEqual(a.EVLRs, b.EVLRs) {
		return false
	}
	if len(a.UserDefinedBytes) != len(b.UserDefinedBytes) {
		return false
	}
	for i := range a.UserDefinedBytes {
		if a.UserDefinedBytes[i] != b.UserDefinedBytes[i] {
			return false
		}
	}
	return true
}

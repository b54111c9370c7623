package lasgo

import (
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// ReadLAS reads an entire uncompressed LAS stream from r: header, VLRs,
// point records, and EVLRs, in that fixed order (spec §5, §6).
func ReadLAS(r io.Reader) (*Dataset, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	vlrs := make([]VLR, 0, h.NumberOfVLRs)
	var extraBytes *ExtraBytesPayload
	for i := uint32(0); i < h.NumberOfVLRs; i++ {
		v, err := ReadVLR(r, false)
		if err != nil {
			return nil, err
		}
		if eb, ok := v.Payload.(*ExtraBytesPayload); ok {
			extraBytes = eb
		}
		vlrs = append(vlrs, *v)
	}

	headerSize := int64(h.HeaderSize())
	vlrSize, err := vlrsWireSize(vlrs)
	if err != nil {
		return nil, err
	}
	userDefinedLen := int64(h.PointDataOffset) - headerSize - int64(vlrSize)
	var userDefinedBytes []byte
	if userDefinedLen > 0 {
		userDefinedBytes = make([]byte, userDefinedLen)
		if _, err := io.ReadFull(r, userDefinedBytes); err != nil {
			return nil, fmt.Errorf("%w: reading user-defined bytes: %v", lasgoerr.ErrIoError, err)
		}
	} else if userDefinedLen < 0 {
		return nil, fmt.Errorf("%w: data offset %d is before the end of the VLR block", lasgoerr.ErrInconsistentHeader, h.PointDataOffset)
	}

	layout, err := ResolveRecordLayout(h.PointFormatID, int(h.RecordLength), extraBytes)
	if err != nil {
		return nil, err
	}

	table, err := ReadPoints(r, h.Spatial, int(h.PointCount64), layout)
	if err != nil {
		return nil, err
	}

	var evlrs []VLR
	if h.EVLRCount > 0 {
		for i := uint32(0); i < h.EVLRCount; i++ {
			v, err := ReadVLR(r, true)
			if err != nil {
				return nil, err
			}
			evlrs = append(evlrs, *v)
		}
	}

	ds := &Dataset{Header: h, Table: table, VLRs: vlrs, EVLRs: evlrs, UserDefinedBytes: userDefinedBytes}

	if wkt := findOGCWKT(vlrs, evlrs); wkt != nil {
		applyUnitConversion(ds, wkt)
	}

	return ds, nil
}

// findOGCWKT returns the OGC WKT VLR's decoded payload among vlrs/evlrs, or
// nil if none is present (spec §4.5, §4.8(x)).
func findOGCWKT(vlrs, evlrs []VLR) *OGCWKT {
	for _, list := range [][]VLR{vlrs, evlrs} {
		for i := range list {
			if list[i].UserID == UserIDLASFProjection && list[i].RecordID == RecordIDOGCWKT {
				if wkt, ok := list[i].Payload.(*OGCWKT); ok {
					return wkt
				}
			}
		}
	}
	return nil
}

// applyUnitConversion rescales ds's positions to metres per the OGC WKT
// VLR's declared linear units and records the factors applied, so a later
// WriteLAS can reverse them (spec §4.7, §9 "Unit conversion"). Unrecognised
// unit names leave positions untouched, mirroring parseWKTUnits/
// unitToMetres's "or leave unconverted" fallback.
func applyUnitConversion(ds *Dataset, wkt *OGCWKT) {
	hFactor, hOk := unitToMetres(wkt.HorizontalUnit)
	if !hOk {
		return
	}
	vFactor, vOk := unitToMetres(wkt.VerticalUnit)
	if !vOk {
		vFactor = hFactor
	}
	if hFactor == 1.0 && vFactor == 1.0 {
		return
	}

	scalePositions(ds.Table, hFactor, vFactor)
	min, max := boundingBox(ds.Table.X, ds.Table.Y, ds.Table.Z)
	ds.Header.Spatial.Range = AxisInfo[Range]{
		X: Range{Min: min.X, Max: max.X},
		Y: Range{Min: min.Y, Max: max.Y},
		Z: Range{Min: min.Z, Max: max.Z},
	}

	ds.UnitConversion = &UnitConversion{
		HorizontalName: wkt.HorizontalUnit, HorizontalFactor: hFactor,
		VerticalName: wkt.VerticalUnit, VerticalFactor: vFactor,
	}
}

// scalePositions multiplies every stored position by hFactor (X, Y) and
// vFactor (Z) in place.
func scalePositions(t *PointTable, hFactor, vFactor float64) {
	for i := range t.X {
		t.X[i] *= hFactor
		t.Y[i] *= hFactor
		t.Z[i] *= vFactor
	}
}

// WriteLAS writes ds to w in the fixed on-disk order: header, VLRs,
// user-defined bytes, point records, EVLRs (spec §5, §6). It refreshes
// ds's derived header fields before writing so the output is always
// self-consistent, regardless of what mutation path produced ds. If ds
// carries a UnitConversion (installed by a prior ReadLAS, or explicitly
// via WithUnitConversion), positions are divided back out of metres into
// their original unit for the duration of the write and restored to
// metres in ds's in-memory table afterward, so the call leaves ds's
// coordinates in the same unit they were in before it was called (spec
// §9's "write can reverse it").
func WriteLAS(w io.Writer, ds *Dataset) error {
	if uc := ds.UnitConversion; uc != nil {
		scalePositions(ds.Table, 1/uc.HorizontalFactor, 1/uc.VerticalFactor)
		defer scalePositions(ds.Table, uc.HorizontalFactor, uc.VerticalFactor)
	}

	if err := ds.refreshInvariants(ds.warn()); err != nil {
		return err
	}

	if err := WriteHeader(w, ds.Header); err != nil {
		return err
	}
	for i := range ds.VLRs {
		if err := WriteVLR(w, &ds.VLRs[i]); err != nil {
			return err
		}
	}
	if len(ds.UserDefinedBytes) > 0 {
		if _, err := w.Write(ds.UserDefinedBytes); err != nil {
			return fmt.Errorf("%w: writing user-defined bytes: %v", lasgoerr.ErrIoError, err)
		}
	}

	if err := WritePoints(w, ds.Table, ds.Header.PointFormatID, ds.Header.Spatial); err != nil {
		return err
	}

	for i := range ds.EVLRs {
		if err := WriteVLR(w, &ds.EVLRs[i]); err != nil {
			return err
		}
	}

	return nil
}

package lasgo

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/ordishs/lasgo/lasgoerr"
)

// Global encoding bit positions (spec §3, §4.4).
const (
	geBitGPSTimeKind      = 0
	geBitWaveformInternal = 1
	geBitWaveformExternal = 2
	geBitSyntheticReturns = 3
	geBitWKTCRS           = 4
)

// Header is the fixed-layout LAS header block (227/235/375 bytes depending
// on spec version, spec §3, §6).
type Header struct {
	VersionInfo   Version
	FileSourceID  uint16

	globalEncoding uint16

	GUID uuid.UUID

	SystemIdentifier   string
	GeneratingSoftware string

	CreationDayOfYear uint16
	CreationYear      uint16

	HeaderSizeField  uint16
	PointDataOffset  uint32
	NumberOfVLRs     uint32
	PointFormatID    PointFormat
	RecordLength     uint16

	LegacyPointCount     uint32
	LegacyPointsByReturn [5]uint32

	Spatial SpatialInfo

	// WaveformRecordStart is present for spec >= 1.3.
	WaveformRecordStart uint64

	// EVLRStart, EVLRCount, PointCount64, PointsByReturn14 are present for spec >= 1.4.
	EVLRStart        uint64
	EVLRCount        uint32
	PointCount64     uint64
	PointsByReturn14 [15]uint64
}

// NewHeader synthesises a header for a freshly assembled dataset: the
// smallest header for the given point format, at its minimum required
// version, with zero counts and an empty (to be reconciled) spatial extent.
func NewHeader(format PointFormat) (*Header, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: point format %d", lasgoerr.ErrUnsupportedPointFormat, format)
	}
	v := format.MinVersion()
	h := &Header{
		VersionInfo:      v,
		SystemIdentifier: "lasgo",
		GeneratingSoftware: "lasgo",
		PointFormatID:    format,
		RecordLength:     uint16(format.Size()),
		Spatial:          defaultSpatialInfo(),
	}
	h.HeaderSizeField = headerSizeForVersion(v)
	h.PointDataOffset = uint32(h.HeaderSizeField)
	if format >= PointFormat6 {
		h.SetWKTCRS(true)
	}
	return h, nil
}

// Version returns the header's spec version.
func (h *Header) Version() Version { return h.VersionInfo }

// HeaderSize returns the header block's on-disk size for its current version.
func (h *Header) HeaderSize() uint16 { return headerSizeForVersion(h.VersionInfo) }

// SetLasVersion rewrites the header's spec version, adjusting header size,
// point-data offset, and count fields to remain consistent (spec §4.4).
func (h *Header) SetLasVersion(newV Version) error {
	if !newV.Valid() {
		return fmt.Errorf("%w: %s", lasgoerr.ErrUnsupportedVersion, newV)
	}
	if newV.Less(h.PointFormatID.MinVersion()) {
		return fmt.Errorf("%w: point format %d requires spec >= %s, got %s",
			lasgoerr.ErrUnsupportedPointFormat, h.PointFormatID, h.PointFormatID.MinVersion(), newV)
	}

	oldSize := h.HeaderSizeField
	newSize := headerSizeForVersion(newV)
	delta := int64(newSize) - int64(oldSize)

	h.VersionInfo = newV
	h.HeaderSizeField = newSize
	h.PointDataOffset = uint32(int64(h.PointDataOffset) + delta)

	return h.refreshCounts()
}

// SetPointFormat rewrites the header's point format, upgrading the spec
// version (never downgrading) if the new format demands a newer one, and
// updates the point record length by the size delta (spec §4.4). warn, if
// non-nil, is called when an automatic version upgrade occurs.
func (h *Header) SetPointFormat(newFmt PointFormat, warn func(string)) error {
	if !newFmt.Valid() {
		return fmt.Errorf("%w: point format %d", lasgoerr.ErrUnsupportedPointFormat, newFmt)
	}

	oldSize := h.PointFormatID.Size()
	newSize := newFmt.Size()

	required := newFmt.MinVersion()
	if h.VersionInfo.Less(required) {
		if warn != nil {
			warn(fmt.Sprintf("point format %d requires spec >= %s; upgrading header from %s", newFmt, required, h.VersionInfo))
		}
		oldHeaderSize := h.HeaderSizeField
		newHeaderSize := headerSizeForVersion(required)
		h.PointDataOffset = uint32(int64(h.PointDataOffset) + int64(newHeaderSize) - int64(oldHeaderSize))
		h.VersionInfo = required
		h.HeaderSizeField = newHeaderSize
	}

	h.PointFormatID = newFmt
	h.RecordLength = uint16(int(h.RecordLength) + newSize - oldSize)
	if newFmt >= PointFormat6 {
		h.SetWKTCRS(true)
	}

	return h.refreshCounts()
}

// SetPointRecordCount updates the header's point count, keeping the legacy
// 32-bit counter consistent when the current point format still fits it
// (spec §4.4).
func (h *Header) SetPointRecordCount(n uint64) error {
	legacyEligible := h.PointFormatID <= PointFormat5
	if (h.VersionInfo.Less(Version{1, 4}) || legacyEligible) && n > math.MaxUint32 {
		return fmt.Errorf("%w: %d points exceeds uint32 range", lasgoerr.ErrCountTooLarge, n)
	}

	h.PointCount64 = n
	if legacyEligible {
		h.LegacyPointCount = uint32(n)
	} else {
		h.LegacyPointCount = 0
	}
	return nil
}

// refreshCounts re-derives the legacy point count from the 64-bit count
// after a version or format change, matching SetPointRecordCount's rules.
func (h *Header) refreshCounts() error {
	return h.SetPointRecordCount(h.PointCount64)
}

// --- Global encoding helpers (spec §4.4) ---

func (h *Header) GlobalEncoding() uint16 { return h.globalEncoding }

func bitSet(v uint16, bit int) bool  { return v&(1<<uint(bit)) != 0 }
func bitPut(v *uint16, bit int, on bool) {
	if on {
		*v |= 1 << uint(bit)
	} else {
		*v &^= 1 << uint(bit)
	}
}

// GPSTimeKind reports the GPS time kind bit (0 = GPS week time, 1 = standard GPS time).
func (h *Header) GPSTimeKind() bool { return bitSet(h.globalEncoding, geBitGPSTimeKind) }
func (h *Header) SetGPSTimeKind(standard bool) {
	bitPut(&h.globalEncoding, geBitGPSTimeKind, standard)
}

// WaveformInternal/WaveformExternal report whether waveform data packets
// are stored inside this file or in an auxiliary file. The two bits are
// mutually exclusive: setting one clears the other.
func (h *Header) WaveformInternal() bool { return bitSet(h.globalEncoding, geBitWaveformInternal) }
func (h *Header) WaveformExternal() bool { return bitSet(h.globalEncoding, geBitWaveformExternal) }

func (h *Header) SetWaveformInternal(on bool) {
	bitPut(&h.globalEncoding, geBitWaveformInternal, on)
	if on {
		bitPut(&h.globalEncoding, geBitWaveformExternal, false)
	}
}

func (h *Header) SetWaveformExternal(on bool) {
	bitPut(&h.globalEncoding, geBitWaveformExternal, on)
	if on {
		bitPut(&h.globalEncoding, geBitWaveformInternal, false)
	}
}

func (h *Header) SyntheticReturns() bool { return bitSet(h.globalEncoding, geBitSyntheticReturns) }
func (h *Header) SetSyntheticReturns(on bool) {
	bitPut(&h.globalEncoding, geBitSyntheticReturns, on)
}

// WKTCRS reports the WKT-CRS bit. It fails with ErrInconsistentHeader if the
// bit is false while the point format requires it (>= 6) — spec §4.4.
func (h *Header) WKTCRS() (bool, error) {
	set := bitSet(h.globalEncoding, geBitWKTCRS)
	if !set && h.PointFormatID >= PointFormat6 {
		return false, fmt.Errorf("%w: point format %d requires the WKT-CRS bit", lasgoerr.ErrInconsistentHeader, h.PointFormatID)
	}
	return set, nil
}

func (h *Header) SetWKTCRS(on bool) { bitPut(&h.globalEncoding, geBitWKTCRS, on) }

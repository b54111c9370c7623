package lasgo

import (
	"fmt"

	"github.com/ordishs/lasgo/lasgoerr"
)

// userIDLen and descriptionLen are the fixed widths of a VLR's string fields
// (spec §3, §6).
const (
	userIDLen      = 16
	descriptionLen = 32
)

// Well-known user ids (spec §6).
const (
	UserIDLASFSpec       = "LASF_Spec"
	UserIDLASFProjection = "LASF_Projection"
)

// Well-known record ids under LASF_Spec / LASF_Projection (spec §6).
const (
	RecordIDClassificationLookup = 0
	RecordIDTextAreaDescription  = 3
	RecordIDExtraBytes           = 4
	RecordIDSuperseded           = 7
	RecordIDWaveformDataPackets  = 65535
	RecordIDGeoKeys              = 34735
	RecordIDGeoDoubleParamsTag   = 34736
	RecordIDGeoAsciiParamsTag    = 34737
	RecordIDOGCWKT               = 2112

	waveformPacketDescriptorLo = 100
	waveformPacketDescriptorHi = 354
)

// normalVLRHeaderSize and extendedVLRHeaderSize are the fixed portions of a
// VLR's wire header, excluding the payload (spec §3, §6).
const (
	normalVLRHeaderSize   = 54
	extendedVLRHeaderSize = 60
)

// maxNormalPayload and maxExtendedPayload are the VLR payload size caps
// (spec §4.5).
const (
	maxNormalPayload   = 1<<16 - 1
	maxExtendedPayload = ^uint64(0)
)

// VLR is a Variable-Length Record (or, when Extended is true, an Extended
// VLR). Payload holds the typed value produced by the registry when
// (UserID, RecordID) is recognised, or a raw []byte otherwise (spec §4.5).
type VLR struct {
	Reserved    uint16
	UserID      string
	RecordID    uint16
	Description string
	Payload     any
	Extended    bool
}

// WireSize returns the total on-disk size of the VLR, header plus payload
// (spec §3: 54 bytes normal / 60 extended, plus payload size).
func (v *VLR) WireSize() (int, error) {
	n, err := encodedPayloadSize(v.UserID, v.RecordID, v.Payload)
	if err != nil {
		return 0, err
	}
	if v.Extended {
		return extendedVLRHeaderSize + n, nil
	}
	return normalVLRHeaderSize + n, nil
}

// isSuperseded reports whether v has been marked superseded (record id
// rewritten to 7 under LASF_Spec, spec §4.5, GLOSSARY).
func (v *VLR) isSuperseded() bool {
	return v.UserID == UserIDLASFSpec && v.RecordID == RecordIDSuperseded
}

// key identifies a VLR by its (user-id, record-id) pair, used for the
// duplicate and lookup checks in spec §4.5 and §4.8(ix).
type vlrKey struct {
	userID   string
	recordID uint16
}

func (v *VLR) key() vlrKey { return vlrKey{userID: v.UserID, recordID: v.RecordID} }

// validateVLR checks the cross-field consistency rule from spec §4.5: known
// payload types under LASF_Spec or LASF_Projection must carry the record id
// their payload kind mandates.
func validateVLR(v *VLR) error {
	if v.Payload == nil || v.isSuperseded() {
		return nil
	}

	switch v.Payload.(type) {
	case *WaveformPacketDescriptor, WaveformPacketDescriptor:
		if v.UserID != UserIDLASFSpec || v.RecordID < waveformPacketDescriptorLo || v.RecordID > waveformPacketDescriptorHi {
			return fmt.Errorf("%w: WaveformPacketDescriptor must be under %q with record id in [%d,%d], got %q/%d",
				lasgoerr.ErrInconsistentVlr, UserIDLASFSpec, waveformPacketDescriptorLo, waveformPacketDescriptorHi, v.UserID, v.RecordID)
		}
		return nil
	}

	want, ok := expectedRecordID(v.UserID, v.Payload)
	if !ok {
		return nil
	}
	if v.RecordID != want {
		return fmt.Errorf("%w: payload %T under %q expects record id %d, got %d",
			lasgoerr.ErrInconsistentVlr, v.Payload, v.UserID, want, v.RecordID)
	}
	return nil
}

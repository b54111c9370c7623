package lasgo

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// payloadDecoder and payloadEncoder are the two halves of a registered VLR
// payload codec (spec §4.5, §9 "VLR payload polymorphism"). Payloads pass
// through them as any; each registered encoder asserts its own concrete
// payload type, so built-in types can keep plain struct fields.
type payloadDecoder func(r io.Reader, n int) (any, error)
type payloadEncoder func(w io.Writer, payload any) error

type registryEntry struct {
	userID   string
	loID     uint16 // inclusive
	hiID     uint16 // inclusive
	decode   payloadDecoder
	encode   payloadEncoder
}

// registry is the process-wide (user-id, record-id) -> payload codec table
// (spec §4.5, §5). It is populated at init time and never mutated afterward.
var registry []registryEntry

// registerVLRPayload binds a payload codec to one user id and an inclusive
// range of record ids. Overlapping registrations fail fast at init time
// (spec §4.5, §5: "Registering overlapping ids fails with DuplicateRegistration").
func registerVLRPayload(userID string, lo, hi uint16, dec payloadDecoder, enc payloadEncoder) {
	for _, e := range registry {
		if e.userID == userID && lo <= e.hiID && hi >= e.loID {
			panic(fmt.Errorf("%w: %q record ids [%d,%d] overlap existing [%d,%d]",
				lasgoerr.ErrDuplicateRegistration, userID, lo, hi, e.loID, e.hiID))
		}
	}
	registry = append(registry, registryEntry{userID: userID, loID: lo, hiID: hi, decode: dec, encode: enc})
}

func lookupCodec(userID string, recordID uint16) *registryEntry {
	for i := range registry {
		e := &registry[i]
		if e.userID == userID && recordID >= e.loID && recordID <= e.hiID {
			return e
		}
	}
	return nil
}

func init() {
	registerVLRPayload(UserIDLASFProjection, RecordIDGeoKeys, RecordIDGeoKeys,
		func(r io.Reader, n int) (any, error) { v := &GeoKeys{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*GeoKeys).encode(w) })

	registerVLRPayload(UserIDLASFProjection, RecordIDGeoDoubleParamsTag, RecordIDGeoDoubleParamsTag,
		func(r io.Reader, n int) (any, error) { v := &GeoDoubleParamsTag{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*GeoDoubleParamsTag).encode(w) })

	registerVLRPayload(UserIDLASFProjection, RecordIDGeoAsciiParamsTag, RecordIDGeoAsciiParamsTag,
		func(r io.Reader, n int) (any, error) { v := &GeoAsciiParamsTag{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*GeoAsciiParamsTag).encode(w) })

	registerVLRPayload(UserIDLASFProjection, RecordIDOGCWKT, RecordIDOGCWKT,
		func(r io.Reader, n int) (any, error) { v := &OGCWKT{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*OGCWKT).encode(w) })

	registerVLRPayload(UserIDLASFSpec, RecordIDClassificationLookup, RecordIDClassificationLookup,
		func(r io.Reader, n int) (any, error) { v := &ClassificationLookup{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*ClassificationLookup).encode(w) })

	registerVLRPayload(UserIDLASFSpec, RecordIDTextAreaDescription, RecordIDTextAreaDescription,
		func(r io.Reader, n int) (any, error) { v := &TextAreaDescription{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*TextAreaDescription).encode(w) })

	registerVLRPayload(UserIDLASFSpec, RecordIDExtraBytes, RecordIDExtraBytes,
		func(r io.Reader, n int) (any, error) { v := &ExtraBytesPayload{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*ExtraBytesPayload).encode(w) })

	registerVLRPayload(UserIDLASFSpec, waveformPacketDescriptorLo, waveformPacketDescriptorHi,
		func(r io.Reader, n int) (any, error) { v := &WaveformPacketDescriptor{}; err := v.decode(r, n); return v, err },
		func(w io.Writer, p any) error { return p.(*WaveformPacketDescriptor).encode(w) })
}

// decodePayload dispatches to the registered codec for (userID, recordID),
// or falls back to a raw []byte when no codec is registered (spec §4.5:
// "Unregistered combinations decode as Vec<u8>").
func decodePayload(userID string, recordID uint16, r io.Reader, n int) (any, error) {
	if entry := lookupCodec(userID, recordID); entry != nil {
		return entry.decode(r, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading raw VLR payload: %v", lasgoerr.ErrIoError, err)
	}
	return buf, nil
}

// encodePayload writes payload to w using the registered codec for
// (userID, recordID), or writes it directly if it is already a []byte.
func encodePayload(w io.Writer, userID string, recordID uint16, payload any) error {
	if raw, ok := payload.([]byte); ok {
		_, err := w.Write(raw)
		return err
	}
	entry := lookupCodec(userID, recordID)
	if entry == nil {
		return fmt.Errorf("%w: no codec registered for %q/%d and payload is not []byte", lasgoerr.ErrInconsistentVlr, userID, recordID)
	}
	return entry.encode(w, payload)
}

// encodedPayloadSize returns the number of bytes encodePayload would write.
func encodedPayloadSize(userID string, recordID uint16, payload any) (int, error) {
	if raw, ok := payload.([]byte); ok {
		return len(raw), nil
	}
	var buf bytes.Buffer
	if err := encodePayload(&buf, userID, recordID, payload); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

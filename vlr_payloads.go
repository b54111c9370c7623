package lasgo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// GeoKeys is the LASF_Projection/34735 payload: a fixed 4-uint16 header
// followed by an array of GeoKeyEntry (spec §3).
type GeoKeys struct {
	KeyDirectoryVersion      uint16
	KeyRevision              uint16
	MinorRevision            uint16
	NumberOfKeys             uint16
	Keys                     []GeoKeyEntry
}

// GeoKeyEntry is one entry of a GeoKeys directory.
type GeoKeyEntry struct {
	KeyID        uint16
	TIFFTagLoc   uint16
	Count        uint16
	ValueOffset  uint16
}

// GeoDoubleParamsTag is the LASF_Projection/34736 payload: a vector of
// float64 values referenced by GeoKeys entries with TIFFTagLoc == 34736.
type GeoDoubleParamsTag struct {
	Values []float64
}

// GeoAsciiParamsTag is the LASF_Projection/34737 payload: a null-delimited
// ASCII blob referenced by GeoKeys entries with TIFFTagLoc == 34737.
type GeoAsciiParamsTag struct {
	Raw []byte
}

// OGCWKT is the LASF_Projection/2112 payload: a null-terminated WKT string,
// plus the horizontal/vertical linear units lasgo derives from it (spec §3,
// §9 "Unit conversion").
type OGCWKT struct {
	WKT              string
	HorizontalUnit   string
	VerticalUnit     string
}

// ClassificationLookup is the LASF_Spec/0 payload: up to 256 fixed 16-byte
// entries mapping a classification code to a short description (spec §3).
type ClassificationLookup struct {
	Entries []ClassificationEntry
}

// ClassificationEntry is one entry of a ClassificationLookup.
type ClassificationEntry struct {
	ClassNumber uint8
	Description string // up to 15 bytes
}

const classificationEntrySize = 16
const maxClassificationEntries = 256

// TextAreaDescription is the LASF_Spec/3 payload: a free-form ASCII blob.
type TextAreaDescription struct {
	Text string
}

// WaveformPacketDescriptor is the LASF_Spec/100..354 payload: a fixed
// descriptor of one waveform packet format (spec §3, §6).
type WaveformPacketDescriptor struct {
	BitsPerSample      uint8
	CompressionType    uint8
	NumberOfSamples    uint32
	TemporalSampleSpacing uint32
	DigitizerGain      float64
	DigitizerOffset    float64
}

const waveformPacketDescriptorSize = 26

// --- encode/decode ---

func (g *GeoKeys) decode(r io.Reader, _ int) error {
	var hdr [4]uint16
	for i := range hdr {
		if err := binary.Read(r, binary.LittleEndian, &hdr[i]); err != nil {
			return err
		}
	}
	g.KeyDirectoryVersion, g.KeyRevision, g.MinorRevision, g.NumberOfKeys = hdr[0], hdr[1], hdr[2], hdr[3]
	g.Keys = make([]GeoKeyEntry, g.NumberOfKeys)
	for i := range g.Keys {
		e := &g.Keys[i]
		fields := []*uint16{&e.KeyID, &e.TIFFTagLoc, &e.Count, &e.ValueOffset}
		for _, f := range fields {
			if err := binary.Read(r, binary.LittleEndian, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GeoKeys) encode(w io.Writer) error {
	hdr := [4]uint16{g.KeyDirectoryVersion, g.KeyRevision, g.MinorRevision, uint16(len(g.Keys))}
	for _, v := range hdr {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, e := range g.Keys {
		fields := []uint16{e.KeyID, e.TIFFTagLoc, e.Count, e.ValueOffset}
		for _, v := range fields {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GeoDoubleParamsTag) decode(r io.Reader, n int) error {
	count := n / 8
	g.Values = make([]float64, count)
	for i := range g.Values {
		if err := binary.Read(r, binary.LittleEndian, &g.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *GeoDoubleParamsTag) encode(w io.Writer) error {
	for _, v := range g.Values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func (g *GeoAsciiParamsTag) decode(r io.Reader, n int) error {
	g.Raw = make([]byte, n)
	_, err := io.ReadFull(r, g.Raw)
	return err
}

func (g *GeoAsciiParamsTag) encode(w io.Writer) error {
	_, err := w.Write(g.Raw)
	return err
}

func (o *OGCWKT) decode(r io.Reader, n int) error {
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	o.WKT = string(raw)
	o.HorizontalUnit, o.VerticalUnit = parseWKTUnits(o.WKT)
	return nil
}

func (o *OGCWKT) encode(w io.Writer) error {
	_, err := w.Write(append([]byte(o.WKT), 0))
	return err
}

func (c *ClassificationLookup) decode(r io.Reader, n int) error {
	count := n / classificationEntrySize
	c.Entries = make([]ClassificationEntry, count)
	for i := range c.Entries {
		var class uint8
		if err := binary.Read(r, binary.LittleEndian, &class); err != nil {
			return err
		}
		desc, err := readPaddedString(r, classificationEntrySize-1)
		if err != nil {
			return err
		}
		c.Entries[i] = ClassificationEntry{ClassNumber: class, Description: desc}
	}
	return nil
}

func (c *ClassificationLookup) encode(w io.Writer) error {
	if len(c.Entries) > maxClassificationEntries {
		return fmt.Errorf("%w: %d classification entries exceeds %d", lasgoerr.ErrPayloadTooLarge, len(c.Entries), maxClassificationEntries)
	}
	for _, e := range c.Entries {
		if err := binary.Write(w, binary.LittleEndian, e.ClassNumber); err != nil {
			return err
		}
		if err := writePaddedString(w, e.Description, classificationEntrySize-1); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextAreaDescription) decode(r io.Reader, n int) error {
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	t.Text = string(raw)
	return nil
}

func (t *TextAreaDescription) encode(w io.Writer) error {
	_, err := w.Write([]byte(t.Text))
	return err
}

func (d *WaveformPacketDescriptor) decode(r io.Reader, _ int) error {
	fields := []any{&d.BitsPerSample, &d.CompressionType, &d.NumberOfSamples, &d.TemporalSampleSpacing, &d.DigitizerGain, &d.DigitizerOffset}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func (d *WaveformPacketDescriptor) encode(w io.Writer) error {
	fields := []any{d.BitsPerSample, d.CompressionType, d.NumberOfSamples, d.TemporalSampleSpacing, d.DigitizerGain, d.DigitizerOffset}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// expectedRecordID reports the record id a known payload type mandates
// under its owning user id (spec §4.5), for validateVLR's consistency check.
func expectedRecordID(userID string, payload any) (uint16, bool) {
	switch payload.(type) {
	case *GeoKeys, GeoKeys:
		return RecordIDGeoKeys, userID == UserIDLASFProjection
	case *GeoDoubleParamsTag, GeoDoubleParamsTag:
		return RecordIDGeoDoubleParamsTag, userID == UserIDLASFProjection
	case *GeoAsciiParamsTag, GeoAsciiParamsTag:
		return RecordIDGeoAsciiParamsTag, userID == UserIDLASFProjection
	case *OGCWKT, OGCWKT:
		return RecordIDOGCWKT, userID == UserIDLASFProjection
	case *ClassificationLookup, ClassificationLookup:
		return RecordIDClassificationLookup, userID == UserIDLASFSpec
	case *TextAreaDescription, TextAreaDescription:
		return RecordIDTextAreaDescription, userID == UserIDLASFSpec
	case *ExtraBytesPayload, ExtraBytesPayload:
		return RecordIDExtraBytes, userID == UserIDLASFSpec
	default:
		return 0, false
	}
}

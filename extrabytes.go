package lasgo

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// extraBytesEntrySize is the fixed wire size of one ExtraBytes entry (spec §3).
const extraBytesEntrySize = 192

// extra-bytes options bits (spec §3: "options bitfield").
const (
	ebOptNoData = 1 << 0
	ebOptMin    = 1 << 1
	ebOptMax    = 1 << 2
	ebOptScale  = 1 << 3
	ebOptOffset = 1 << 4
)

// extraBytesDataType maps our ScalarType to the LAS extra-bytes data-type
// code, one of the ten scalar codes 1-10. Vector columns are written as
// separate scalar entries, so the ASPRS vector-arity codes are never produced.
func extraBytesDataType(t ScalarType) uint8 {
	return uint8(t)
}

func scalarTypeFromExtraBytesDataType(code uint8) (ScalarType, error) {
	t := ScalarType(code)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: extra-bytes data type code %d", lasgoerr.ErrUnsupportedUserType, code)
	}
	return t, nil
}

// ExtraBytesEntry documents one user point-table column in the single
// per-file ExtraBytes VLR (spec §3, §4.8(viii)). Vector user columns are
// split into consecutive entries named "col [0]".."col [n-1]" (spec §9).
type ExtraBytesEntry struct {
	Options     uint8
	Name        string
	DataType    ScalarType
	Description string

	NoData float64
	Min    float64
	Max    float64
	Scale  float64
	Offset float64
}

// ExtraBytesPayload is the LASF_Spec/4 payload: the sequence of
// ExtraBytesEntry records documenting every extra point column in the file
// (spec §3).
type ExtraBytesPayload struct {
	Entries []ExtraBytesEntry
}

func (p *ExtraBytesPayload) decode(r io.Reader, n int) error {
	count := n / extraBytesEntrySize
	p.Entries = make([]ExtraBytesEntry, count)
	for i := range p.Entries {
		e := &p.Entries[i]

		var reserved [2]byte
		if _, err := io.ReadFull(r, reserved[:]); err != nil {
			return err
		}
		var dataType, options uint8
		if err := binary.Read(r, binary.LittleEndian, &dataType); err != nil {
			return err
		}
		if err := binary.Read(r, binary.LittleEndian, &options); err != nil {
			return err
		}
		name, err := readPaddedString(r, 32)
		if err != nil {
			return err
		}
		var unused [4]byte
		if _, err := io.ReadFull(r, unused[:]); err != nil {
			return err
		}

		// Each statistic occupies a 24-byte slot (room for a 3-element
		// vector in the underlying ASPRS layout); lasgo always models a
		// vector column as N independent scalar entries (spec §9), so only
		// the first 8 bytes of each slot are meaningful.
		var stats [5][24]byte
		for i := range stats {
			if _, err := io.ReadFull(r, stats[i][:]); err != nil {
				return err
			}
		}

		desc, err := readPaddedString(r, 32)
		if err != nil {
			return err
		}

		st, err := scalarTypeFromExtraBytesDataType(dataType)
		if err != nil {
			return err
		}

		e.Options = options
		e.Name = name
		e.DataType = st
		e.Description = desc
		if options&ebOptNoData != 0 {
			e.NoData = float64FromBytes(stats[0][:8])
		}
		if options&ebOptMin != 0 {
			e.Min = float64FromBytes(stats[1][:8])
		}
		if options&ebOptMax != 0 {
			e.Max = float64FromBytes(stats[2][:8])
		}
		if options&ebOptScale != 0 {
			e.Scale = float64FromBytes(stats[3][:8])
		}
		if options&ebOptOffset != 0 {
			e.Offset = float64FromBytes(stats[4][:8])
		}
	}
	return nil
}

func (p *ExtraBytesPayload) encode(w io.Writer) error {
	for _, e := range p.Entries {
		if _, err := w.Write(make([]byte, 2)); err != nil { // reserved
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, extraBytesDataType(e.DataType)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.Options); err != nil {
			return err
		}
		if err := writePaddedString(w, e.Name, 32); err != nil {
			return err
		}
		if _, err := w.Write(make([]byte, 4)); err != nil { // unused
			return err
		}
		for _, v := range []float64{e.NoData, e.Min, e.Max, e.Scale, e.Offset} {
			var slot [24]byte
			putFloat64Bytes(slot[:8], v)
			if _, err := w.Write(slot[:]); err != nil {
				return err
			}
		}
		if err := writePaddedString(w, e.Description, 32); err != nil {
			return err
		}
	}
	return nil
}
